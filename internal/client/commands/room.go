package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokerroom/internal/client"
	"github.com/lox/pokerroom/internal/session"
	"github.com/lox/pokerroom/internal/tui"
)

// PlayCommand takes a seat in a room and starts the TUI
type PlayCommand struct {
	RoomFlags `embed:""`
	AutoStart bool `help:"Ask the server to start once two players are seated (older servers)"`
}

func (cmd *PlayCommand) Run(flags *GlobalFlags) error {
	return runRoom(flags, &cmd.RoomFlags, session.RoleParticipant, cmd.AutoStart)
}

// WatchCommand observes a room without taking a seat
type WatchCommand struct {
	RoomFlags `embed:""`
}

func (cmd *WatchCommand) Run(flags *GlobalFlags) error {
	return runRoom(flags, &cmd.RoomFlags, session.RoleObserver, false)
}

func runRoom(flags *GlobalFlags, room *RoomFlags, role session.Role, autoStart bool) error {
	cfg, err := LoadConfig(flags, room)
	if err != nil {
		return err
	}
	cfg.Room.Role = string(role)
	cfg.Room.AutoStart = cfg.Room.AutoStart || autoStart
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, cleanup, err := SetupFileLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	SetupColor(flags)

	logger.Info("Starting pokerroom TUI",
		"server", cfg.Server.URL,
		"room", cfg.Room.ID,
		"role", role,
		"layout", cfg.Room.Layout)

	// The program is created after the connection; nothing is sent to it
	// until Run starts below.
	var program *tea.Program
	conn, err := client.New(client.Options{
		ServerURL:      cfg.Server.URL,
		Room:           cfg.Room.ID,
		Role:           role,
		MaxPlayers:     cfg.Room.MaxPlayers,
		Layout:         cfg.Layout(),
		AutoStart:      cfg.Room.AutoStart,
		ConnectTimeout: cfg.ConnectTimeout(),
		RedirectDelay:  cfg.RedirectDelay(),
		Logger:         logger,
		OnFallback: func() {
			program.Send(tui.QuitMsg{Reason: client.FailureNotice})
		},
	})
	if err != nil {
		return err
	}

	model := tui.New(conn.Session(), logger, tui.Options{Theme: cfg.UI.Theme})
	program = tea.NewProgram(model, tea.WithAltScreen())
	conn.Session().Subscribe(tui.Forward(program))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- conn.Run(ctx) }()

	_, err = program.Run()
	cancel()
	connErr := <-runErr

	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if connErr != nil {
		return fmt.Errorf("room %s: %w", cfg.Room.ID, connErr)
	}
	return nil
}
