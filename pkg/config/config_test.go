package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/leglesslizard/pkg/game"
	"github.com/cbodonnell/leglesslizard/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, log.LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, game.DefaultConfig(), cfg.Game)
	assert.Equal(t, int64(0), cfg.Seed)
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv("LIZARD_PORT", "9000")
	t.Setenv("LIZARD_TICK_PERIOD", "500ms")
	t.Setenv("LIZARD_MIN_PLAYERS", "0")
	t.Setenv("LIZARD_LOG_LEVEL", "debug")

	cfg, err := Load([]string{"-port", "9100", "-seed", "42"})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.TickPeriod)
	assert.Equal(t, 0, cfg.Game.MinPlayers)
	assert.Equal(t, log.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "malformed env", env: map[string]string{"LIZARD_MAP_SIZE": "big"}},
		{name: "unknown flag", args: []string{"-colour", "red"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
		{name: "bad port", args: []string{"-port", "0"}},
		{name: "bad decay", args: []string{"-step-length-decay", "1.5"}},
		{name: "floors inverted", args: []string{"-min-step-length", "60"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIZARD_SEED=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LIZARD_SEED") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
}
