package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "curriculum")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "curriculum")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr())
		assert.Equal(t, "@every 5m", cfg.Catalog.RefreshSchedule)
		assert.Equal(t, 10*time.Minute, cfg.Catalog.CacheTTL)
		assert.Equal(t, 24*time.Hour, cfg.Progress.CacheTTL)
		assert.Equal(t, time.UTC, cfg.Progress.Location)
		assert.Equal(t, "curriculum:secret@tcp(localhost:3306)/curriculum?parseTime=true&charset=utf8mb4&multiStatements=true", cfg.DSN())
	})

	t.Run("custom values", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
		t.Setenv("CATALOG_FILE", "catalog.yaml")
		t.Setenv("TIMEZONE", "Europe/Berlin")
		t.Setenv("PROGRESS_CACHE_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "catalog.yaml", cfg.Catalog.File)
		assert.Equal(t, "Europe/Berlin", cfg.Progress.Location.String())
		assert.Equal(t, time.Hour, cfg.Progress.CacheTTL)
	})

	t.Run("missing required value", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("invalid port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "abc")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CATALOG_CACHE_TTL", "soon")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TIMEZONE", "Mars/Olympus")

		_, err := Load()
		assert.Error(t, err)
	})
}
