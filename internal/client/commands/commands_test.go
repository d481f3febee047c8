package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerroom/internal/seating"
)

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pokerroom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server { url = "http://file.example.com" }

room {
  id     = "2"
  layout = "balanced"
}
`), 0o600))

	cfg, err := LoadConfig(&GlobalFlags{Config: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example.com", cfg.Server.URL)
	assert.Equal(t, "2", cfg.Room.ID)
	assert.Equal(t, "balanced", cfg.Room.Layout)

	cfg, err = LoadConfig(
		&GlobalFlags{Config: path, Server: "http://flag.example.com", LogLevel: "debug", Theme: "dark"},
		&RoomFlags{Room: "9", Layout: "linear", MaxPlayers: 4},
	)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "9", cfg.Room.ID)
	assert.Equal(t, "linear", cfg.Room.Layout)
	assert.Equal(t, 4, cfg.Room.MaxPlayers)
	require.NoError(t, cfg.Validate())
}

func TestSetupFileLoggingTruncates(t *testing.T) {
	cfg, err := LoadConfig(&GlobalFlags{Config: filepath.Join(t.TempDir(), "missing.hcl")}, nil)
	require.NoError(t, err)
	cfg.UI.LogFile = filepath.Join(t.TempDir(), "pokerroom.log")
	cfg.UI.LogLevel = "info"
	require.NoError(t, os.WriteFile(cfg.UI.LogFile, []byte("previous run\n"), 0o600))

	logger, cleanup, err := SetupFileLogging(cfg)
	require.NoError(t, err)
	logger.Info("Connected to room", "room", "1")
	logger.Debug("hidden at info level")
	cleanup()

	data, err := os.ReadFile(cfg.UI.LogFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "previous run")
	assert.Contains(t, string(data), "Connected to room")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestSeatTable(t *testing.T) {
	mapper, err := seating.New(seating.LayoutBalanced, 0, 8)
	require.NoError(t, err)

	out := SeatTable(mapper, 0)
	assert.Contains(t, out, "absolute")
	assert.Contains(t, out, "you")

	rel, err := mapper.Relative(1)
	require.NoError(t, err)
	assert.Equal(t, 4, rel)
}
