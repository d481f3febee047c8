package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the styles for one colour theme
type Styles struct {
	Header    lipgloss.Style
	HandInfo  lipgloss.Style
	Actions   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Player    lipgloss.Style
	Viewer    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Disabled  lipgloss.Style

	Border      lipgloss.Color
	FocusBorder lipgloss.Color
}

// Themes lists the names accepted by StylesFor
var Themes = []string{"default", "dark", "light"}

// StylesFor returns the styles for a theme; unknown names get the default theme
func StylesFor(theme string) Styles {
	s := defaultStyles()

	switch theme {
	case "dark":
		s.BlackCard = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
		s.Player = lipgloss.NewStyle().Foreground(lipgloss.Color("#DADADA"))
		s.Border = lipgloss.Color("#3A3A3A")
	case "light":
		s.Header = s.Header.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5A3FC0"))
		s.HandInfo = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D5B")).Bold(true)
		s.Actions = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D00")).Bold(true)
		s.Player = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A"))
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D5B")).Bold(true)
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D00")).Bold(true)
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
		s.Border = lipgloss.Color("#9E9E9E")
	}

	return s
}

func defaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),

		HandInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),

		Actions: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),

		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),

		BlackCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Bold(true),

		Player: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),

		Viewer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),

		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4E4E4E")).
			Faint(true),

		Border:      lipgloss.Color("#626262"),
		FocusBorder: lipgloss.Color("#04B575"),
	}
}
