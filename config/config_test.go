package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "alchemy.db", cfg.Database.SQLitePath)
	assert.Equal(t, 24, cfg.Session.ResumeCeilingHours)
	assert.Equal(t, "@every 1m", cfg.Sync.RetrySchedule)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.Server.CORSOrigins)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  cors_origins:
    - https://game.example.com
database:
  sqlite_path: /var/lib/alchemy/data.db
session:
  resume_ceiling_hours: 48
sync:
  retry_schedule: "@every 5m"
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://game.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/var/lib/alchemy/data.db", cfg.Database.SQLitePath)
	assert.Equal(t, 48, cfg.Session.ResumeCeilingHours)
	assert.Equal(t, "@every 5m", cfg.Sync.RetrySchedule)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a: map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	t.Setenv("ALCHEMY_PORT", "7777")
	t.Setenv("ALCHEMY_SQLITE_PATH", "/tmp/override.db")
	t.Setenv("ALCHEMY_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestEnvPortIgnoredWhenNotNumeric(t *testing.T) {
	t.Setenv("ALCHEMY_PORT", "not-a-port")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
