package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerroom/internal/seating"
	"github.com/lox/pokerroom/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pokerroom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server {
  url             = "https://poker.example.com"
  connect_timeout = 5
}

room {
  id          = "42"
  role        = "observer"
  max_players = 6
  layout      = "balanced"
  auto_start  = true
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://poker.example.com", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout())
	assert.Equal(t, 3*time.Second, cfg.RedirectDelay(), "unset values keep defaults")
	assert.Equal(t, "42", cfg.Room.ID)
	assert.Equal(t, session.RoleObserver, cfg.Role())
	assert.Equal(t, 6, cfg.Room.MaxPlayers)
	assert.Equal(t, seating.LayoutBalanced, cfg.Layout())
	assert.True(t, cfg.Room.AutoStart)
	assert.Equal(t, "pokerroom.log", cfg.UI.LogFile)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())
}

func TestLoadRejectsBadHCL(t *testing.T) {
	_, err := Load(writeConfig(t, `server { url = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `room { max_players = "lots" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")

	_, err = Load(writeConfig(t, `player { name = "bob" }`))
	assert.Error(t, err, "unknown blocks are rejected")
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server {
  connect_timeout = 0
}
`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Server.ConnectTimeout)
	assert.Equal(t, 3, cfg.Server.RedirectDelay)
	assert.ErrorContains(t, cfg.Validate(), "connect timeout must be positive")

	cfg, err = Load(writeConfig(t, `
room {
  max_players = 0
}
`))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "max players")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"empty url", func(c *Config) { c.Server.URL = "" }, "server URL is required"},
		{"empty room", func(c *Config) { c.Room.ID = "" }, "room id is required"},
		{"bad role", func(c *Config) { c.Room.Role = "dealer" }, "unknown role"},
		{"bad layout", func(c *Config) { c.Room.Layout = "spiral" }, "unknown seat layout"},
		{"too few players", func(c *Config) { c.Room.MaxPlayers = 1 }, "max players"},
		{"too many players", func(c *Config) { c.Room.MaxPlayers = 9 }, "max players"},
		{"zero timeout", func(c *Config) { c.Server.ConnectTimeout = 0 }, "connect timeout"},
		{"negative delay", func(c *Config) { c.Server.RedirectDelay = -1 }, "redirect delay"},
		{"bad log level", func(c *Config) { c.UI.LogLevel = "loud" }, "invalid log level"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "invalid theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	cfg.UI.LogLevel = "debug"
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	cfg.UI.LogLevel = "nonsense"
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())
}
