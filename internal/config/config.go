// Package config loads the pokerroom HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokerroom/internal/seating"
	"github.com/lox/pokerroom/internal/session"
)

// DefaultFile is the config file read when no path is given
const DefaultFile = "pokerroom.hcl"

// Config is the complete client configuration
type Config struct {
	Server Server
	Room   Room
	UI     UI
}

// Server contains connection settings. Durations are in seconds.
type Server struct {
	URL            string
	ConnectTimeout int
	RedirectDelay  int
}

// Room selects the room to join and how it is drawn
type Room struct {
	ID         string
	Role       string
	MaxPlayers int
	Layout     string
	AutoStart  bool
}

// UI contains terminal and logging settings
type UI struct {
	LogLevel string
	LogFile  string
	Theme    string
}

// file mirrors the HCL layout. Blocks and attributes may be omitted, so a
// nil pointer keeps the default while an explicit zero is kept for Validate.
type file struct {
	Server *serverBlock `hcl:"server,block"`
	Room   *roomBlock   `hcl:"room,block"`
	UI     *uiBlock     `hcl:"ui,block"`
}

type serverBlock struct {
	URL            *string `hcl:"url,optional"`
	ConnectTimeout *int    `hcl:"connect_timeout,optional"`
	RedirectDelay  *int    `hcl:"redirect_delay,optional"`
}

type roomBlock struct {
	ID         *string `hcl:"id,optional"`
	Role       *string `hcl:"role,optional"`
	MaxPlayers *int    `hcl:"max_players,optional"`
	Layout     *string `hcl:"layout,optional"`
	AutoStart  *bool   `hcl:"auto_start,optional"`
}

type uiBlock struct {
	LogLevel *string `hcl:"log_level,optional"`
	LogFile  *string `hcl:"log_file,optional"`
	Theme    *string `hcl:"theme,optional"`
}

var (
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validThemes    = map[string]bool{"default": true, "dark": true, "light": true}
)

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Server: Server{
			URL:            "http://localhost:8000",
			ConnectTimeout: 10,
			RedirectDelay:  3,
		},
		Room: Room{
			ID:         "1",
			Role:       string(session.RoleParticipant),
			MaxPlayers: seating.MaxPlayers,
			Layout:     string(seating.LayoutLinear),
		},
		UI: UI{
			LogLevel: "warn",
			LogFile:  "pokerroom.log",
			Theme:    "default",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; values left out of the file keep their defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if s := raw.Server; s != nil {
		set(&cfg.Server.URL, s.URL)
		set(&cfg.Server.ConnectTimeout, s.ConnectTimeout)
		set(&cfg.Server.RedirectDelay, s.RedirectDelay)
	}
	if r := raw.Room; r != nil {
		set(&cfg.Room.ID, r.ID)
		set(&cfg.Room.Role, r.Role)
		set(&cfg.Room.MaxPlayers, r.MaxPlayers)
		set(&cfg.Room.Layout, r.Layout)
		set(&cfg.Room.AutoStart, r.AutoStart)
	}
	if u := raw.UI; u != nil {
		set(&cfg.UI.LogLevel, u.LogLevel)
		set(&cfg.UI.LogFile, u.LogFile)
		set(&cfg.UI.Theme, u.Theme)
	}

	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.Room.ID == "" {
		return fmt.Errorf("room id is required")
	}
	if _, err := session.ParseRole(c.Room.Role); err != nil {
		return err
	}
	if _, err := seating.ParseLayout(c.Room.Layout); err != nil {
		return err
	}
	if c.Room.MaxPlayers < seating.MinPlayers || c.Room.MaxPlayers > seating.MaxPlayers {
		return fmt.Errorf("max players must be between %d and %d", seating.MinPlayers, seating.MaxPlayers)
	}
	if c.Server.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.Server.RedirectDelay <= 0 {
		return fmt.Errorf("redirect delay must be positive")
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	return nil
}

// ConnectTimeout returns the websocket handshake timeout
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}

// RedirectDelay returns the delay before leaving a failed room
func (c *Config) RedirectDelay() time.Duration {
	return time.Duration(c.Server.RedirectDelay) * time.Second
}

// LogLevel returns the parsed log level, falling back to warn
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// Role returns the configured role
func (c *Config) Role() session.Role {
	return session.Role(c.Room.Role)
}

// Layout returns the configured seat layout
func (c *Config) Layout() seating.Layout {
	return seating.Layout(c.Room.Layout)
}
