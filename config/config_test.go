package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.LoginRatePerMinute)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "dev-insecure-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "postgres://postgres:@localhost:5432/tracker?sslmode=disable", cfg.Database.PostgresDSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/x")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("MIGRATIONS", "off")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.PostgresDSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Database.Migrate)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 10, cfg.Server.LoginRatePerMinute, "invalid value falls back to default")
}

func TestValidateRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestValidateConnBounds(t *testing.T) {
	t.Setenv("DB_MIN_CONNS", "20")
	t.Setenv("DB_MAX_CONNS", "5")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_MIN_CONNS")
}
