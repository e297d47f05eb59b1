package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"PORT", "DB_DRIVER", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_PORT", "DB_SSLMODE", "DB_PATH", "JWT_SECRET", "ACCESS_TOKEN_TTL",
		"REFRESH_TOKEN_TTL", "LOG_LEVEL", "GIN_MODE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "host=localhost user= password= dbname=blog port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/blog.db")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/blog.db", cfg.DSN())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":   {},
		"bad ttl":          {"JWT_SECRET": "x", "ACCESS_TOKEN_TTL": "soon"},
		"negative ttl":     {"JWT_SECRET": "x", "REFRESH_TOKEN_TTL": "-1h"},
		"unknown driver":   {"JWT_SECRET": "x", "DB_DRIVER": "mysql"},
		"unknown loglevel": {"JWT_SECRET": "x", "LOG_LEVEL": "loud"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
	clearEnv(t)
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}
