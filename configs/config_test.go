package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"APP_PORT", "REPOSITORY_TYPE", "DB_PORT", "TOKEN_TTL", "JWT_SECRET", "LOG_DIR"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, 3004, cfg.AppPort)
	assert.Equal(t, RepositoryPostgres, cfg.RepositoryType)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 180*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("REPOSITORY_TYPE", RepositoryMemory)
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("JWT_SECRET", "a-long-random-secret")

	cfg := LoadConfig()

	assert.Equal(t, 8081, cfg.AppPort)
	assert.Equal(t, RepositoryMemory, cfg.RepositoryType)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.False(t, cfg.UsesDefaultSecret())
}
