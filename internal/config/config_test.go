package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_TOKEN_TTL", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_JWT_ISSUER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "crm-service", cfg.Auth.Issuer)
	assert.Equal(t, insecureDevSecret, cfg.Auth.JWTSecret)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadTokenTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_TOKEN_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadInvalidTokenTTL(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "one-day")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadNegativeTokenTTL(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL", "-1h")

	_, err := Load()
	assert.Error(t, err)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_TOKEN_TTL", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err, "the insecure default secret must abort startup in production")

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.App.IsProduction())
}
