// Package commands implements the pokerroom subcommands.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/pokerroom/internal/config"
)

// GlobalFlags holds common configuration for all commands
type GlobalFlags struct {
	Config   string `short:"c" default:"pokerroom.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" help:"Server URL to connect to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
	Theme    string `help:"Colour theme: default, dark or light (overrides config)"`
	NoColor  bool   `help:"Disable colours"`
}

// RoomFlags selects the room and how its seats are drawn
type RoomFlags struct {
	Room       string `arg:"" optional:"" help:"Room id to join (overrides config)"`
	Layout     string `help:"Seat layout: linear or balanced (overrides config)"`
	MaxPlayers int    `help:"Table size used for seat layout (overrides config)"`
}

// LoadConfig loads the config file and applies command line overrides
func LoadConfig(flags *GlobalFlags, room *RoomFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if flags.Server != "" {
		cfg.Server.URL = flags.Server
	}
	if flags.LogLevel != "" {
		cfg.UI.LogLevel = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.UI.LogFile = flags.LogFile
	}
	if flags.Theme != "" {
		cfg.UI.Theme = flags.Theme
	}

	if room != nil {
		if room.Room != "" {
			cfg.Room.ID = room.Room
		}
		if room.Layout != "" {
			cfg.Room.Layout = room.Layout
		}
		if room.MaxPlayers != 0 {
			cfg.Room.MaxPlayers = room.MaxPlayers
		}
	}

	return cfg, nil
}

// SetupFileLogging opens the configured log file, truncated for this run.
// The terminal belongs to the TUI, so nothing is logged to stderr.
func SetupFileLogging(cfg *config.Config) (*log.Logger, func(), error) {
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := newLogger(logFile, cfg.LogLevel())
	cleanup := func() { _ = logFile.Close() }
	return logger, cleanup, nil
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// SetupColor disables colour output when requested
func SetupColor(flags *GlobalFlags) {
	if flags.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
