package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  name: bitebuddy-test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bitebuddy-test", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "bitebuddy_session", cfg.Session.CookieName)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
	assert.Equal(t, 15*time.Second, cfg.GRPC.HealthInterval)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  sqlite_path: ":memory:"
mysql:
  host: db.internal
  port: 3307
  username: shop
  password: secret
  database: food
session:
  backend: memory
  ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "shop:secret@tcp(db.internal:3307)/food?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "mysql:\n  host: from-file\n")
	t.Setenv("BITEBUDDY_MYSQL_HOST", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.MySQL.Host)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Load(writeConfig(t, "database:\n  driver: oracle\n"))
		require.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("unknown session backend", func(t *testing.T) {
		_, err := Load(writeConfig(t, "session:\n  backend: cookie\n"))
		require.ErrorContains(t, err, "unsupported session backend")
	})

	t.Run("zero health interval", func(t *testing.T) {
		_, err := Load(writeConfig(t, "grpc:\n  enabled: true\n  health_interval: 0s\n"))
		require.ErrorContains(t, err, "health_interval must be positive")
	})
}
