package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteful/noteful/internal/ratelimit"
)

func validConfig() *Config {
	return &Config{
		ListenAddr:      ":8080",
		DatabasePath:    "./data/noteful.db",
		JWTSecret:       "test-secret",
		JWTExpiry:       7 * 24 * time.Hour,
		RateLimitConfig: ratelimit.DefaultConfig,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors[0], "JWT_SECRET")
}

func TestValidateRejectsBadDatabaseKey(t *testing.T) {
	cfg := validConfig()

	cfg.DatabaseKey = "not-hex"
	require.Error(t, cfg.Validate())

	cfg.DatabaseKey = "abcd" // too short
	require.Error(t, cfg.Validate())

	cfg.DatabaseKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	require.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	cfg.JWTExpiry = 0
	cfg.RateLimitConfig.RPS = 0
	cfg.RateLimitConfig.Burst = 0

	err := cfg.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 4)
}

func TestLoadConfigReadsEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := LoadConfig(false, "")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5.0, cfg.RateLimitConfig.RPS)
	assert.Equal(t, 7, cfg.RateLimitConfig.Burst)
}

func TestAddrFlagOverridesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LISTEN_ADDR", ":9999")

	cfg, err := LoadConfig(false, ":7777")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ListenAddr)
}
