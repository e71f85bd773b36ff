package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModelID)
	assert.Equal(t, "receipts", cfg.StorageBucket)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshExpiration)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_WORKERS", "12")
	t.Setenv("GEMINI_MODEL_ID", "gemini-2.5-pro")
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "30")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 12, cfg.MaxWorkers)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModelID)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiration)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestStorageConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.StorageConfigured())

	cfg.StorageEndpoint = "https://abc.storage.supabase.co"
	cfg.StorageAccessKeyID = "key"
	cfg.StorageAccessKeySecret = "secret"
	assert.True(t, cfg.StorageConfigured())
}
