package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerroom/internal/action"
	"github.com/lox/pokerroom/internal/deck"
	"github.com/lox/pokerroom/internal/session"
)

const minSidebarWidth = 34

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		if m.quitReason != "" {
			return m.quitReason + "\n"
		}
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := m.pane(paneControls).
		Width(atLeastOne(m.width - 2)).
		Height(atLeastOne(actionHeight)).
		Render(actionContent)

	topHeight := atLeastOne(m.height - actionHeight - 4)

	sidebarContent := m.renderTablePane()
	sidebarWidth := lipgloss.Width(sidebarContent)
	if sidebarWidth < minSidebarWidth {
		sidebarWidth = minSidebarWidth
	}
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Border).
		Width(sidebarWidth).
		Height(topHeight).
		Render(sidebarContent)

	logWidth := atLeastOne(m.width - sidebarWidth - 4)
	m.logViewport.Width = logWidth
	m.logViewport.Height = topHeight
	m.logViewport.SetContent(strings.Join(m.eventLog, "\n"))
	if !m.initialized && logWidth > 1 && topHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := m.pane(paneLog).
		Width(logWidth).
		Height(topHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) pane(p int) lipgloss.Style {
	border := m.styles.Border
	if m.focusedPane == p {
		border = m.styles.FocusBorder
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// renderTablePane draws the header, seats, board and pot
func (m *Model) renderTablePane() string {
	s := m.snapshot
	var b strings.Builder

	title := fmt.Sprintf(" Room %s ", s.Room)
	if s.Role == session.RoleObserver {
		title += "(watching) "
	}
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n\n")

	if !s.Connected {
		b.WriteString(m.styles.Error.Render("Disconnected"))
		b.WriteString("\n\n")
	}

	if s.Seats == nil {
		b.WriteString(m.styles.Info.Render("Waiting for a seat..."))
		b.WriteString("\n")
	}
	for _, seat := range s.Seats {
		b.WriteString(m.renderSeat(seat))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	board := "-"
	if len(s.Board) > 0 {
		board = m.formatCards(s.Board)
	}
	b.WriteString("Board: " + board + "\n")
	b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Pot: %d", s.Pot)))
	b.WriteString("\n")
	if s.Acting != "" {
		b.WriteString(m.styles.Info.Render("Acting: " + s.Acting))
		b.WriteString("\n")
	}
	if s.HandValue != "" {
		b.WriteString(m.styles.HandInfo.Render("Your hand: " + s.HandValue))
		if len(s.HandCards) > 0 {
			b.WriteString(" " + m.formatCards(s.HandCards))
		}
		b.WriteString("\n")
	}
	if s.AmountWon > 0 {
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("Won: %d", s.AmountWon)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderSeat(seat session.Seat) string {
	if !seat.Occupied {
		return m.styles.Disabled.Render(fmt.Sprintf("%d  (empty)", seat.Relative))
	}

	name := seat.Username
	style := m.styles.Player
	if seat.Viewer {
		name += " (you)"
		style = m.styles.Viewer
	}
	line := fmt.Sprintf("%d  %s  %d", seat.Relative, style.Render(name), seat.Chips)

	switch seat.Status {
	case session.StatusBet:
		line += fmt.Sprintf("  bet %d", seat.Bet)
	case session.StatusChecked:
		line += "  check"
	case session.StatusFolded:
		line += "  fold"
	}
	if seat.Folded && seat.Status != session.StatusFolded {
		line += "  folded"
	}
	if len(seat.Cards) > 0 {
		line += "  " + m.formatCards(seat.Cards)
	}
	if seat.HandValue != "" {
		line += "  " + seat.HandValue
	}
	if seat.Winner {
		line += "  " + m.styles.Success.Render("winner")
	}
	if seat.Folded {
		return m.styles.Disabled.Render(line)
	}
	return line
}

// renderActionPane draws the controls for the current action window
func (m *Model) renderActionPane() string {
	var b strings.Builder
	s := m.snapshot

	if s.Role == session.RoleParticipant && s.Viewer >= 0 {
		b.WriteString(m.styles.HandInfo.Render(fmt.Sprintf("Chips: %d  Players: %d", s.ViewerChips, s.PlayerCount)))
		b.WriteString("\n")
	}

	e, armed := m.table.Controller().Eligibility()
	if s.Role == session.RoleParticipant {
		b.WriteString(m.renderControls(e, armed))
		b.WriteString("\n")
	}

	if m.raising {
		b.WriteString(m.raiseInput.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusIsErr {
			b.WriteString(m.styles.Error.Render(m.status))
		} else {
			b.WriteString(m.styles.Info.Render(m.status))
		}
		b.WriteString("\n")
	}

	help := "Tab to scroll log • q to quit"
	switch {
	case m.focusedPane == paneLog:
		help = "Log focused: ↑↓ scroll, PgUp/PgDn, Home/End, Tab to controls"
	case m.raising:
		help = "Enter to raise • Esc to cancel"
	case armed:
		help = "f fold • k check • c call • r raise • Tab to scroll log"
	}
	b.WriteString(m.styles.Info.Render(help))

	return b.String()
}

func (m *Model) renderControls(e action.Eligibility, armed bool) string {
	if !armed {
		return m.styles.Disabled.Render("Waiting...")
	}

	button := func(key, label string, enabled bool, style lipgloss.Style) string {
		text := fmt.Sprintf("[%s] %s", key, label)
		if !enabled {
			return m.styles.Disabled.Render(text)
		}
		return style.Render(text)
	}

	raise := "Raise"
	if e.CanRaise {
		raise = fmt.Sprintf("Raise %d-%d", e.Raise.Min, e.Raise.Max)
	}

	buttons := []string{
		button("f", "Fold", e.Fold, m.styles.Error),
		button("k", "Check", e.Check, m.styles.Success),
		button("c", e.Call.Label(), !e.Check, m.styles.Success),
		button("r", raise, e.CanRaise, m.styles.Warning),
	}
	return m.styles.Actions.Render("Actions: ") + strings.Join(buttons, " ")
}

// formatCards formats cards with colours
func (m *Model) formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case card.Hidden:
			formatted = append(formatted, m.styles.Info.Render(card.String()))
		case card.IsRed():
			formatted = append(formatted, m.styles.RedCard.Render(card.String()))
		default:
			formatted = append(formatted, m.styles.BlackCard.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// plainCards formats cards for the event log
func plainCards(cards []deck.Card) string {
	names := make([]string, 0, len(cards))
	for _, card := range cards {
		names = append(names, card.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
