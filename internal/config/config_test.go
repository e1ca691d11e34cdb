package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/probudget_test")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/probudget_test")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 3, cfg.RateLimitBurst)
}

func TestLoad_IgnoresMalformedRateLimit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/probudget_test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
}
