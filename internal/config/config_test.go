package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8000/api", cfg.BackendAPIURL)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.Fallback.UsesS3())
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "https://api.barberia.co/api/")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://barberia.co ,")
	t.Setenv("FALLBACK_S3_BUCKET", "shop-data")

	cfg := Load()

	assert.Equal(t, "https://api.barberia.co/api", cfg.BackendAPIURL)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.RedisDB)
	assert.Equal(t, []string{"http://localhost:3000", "https://barberia.co"}, cfg.CORSOrigins)
	assert.True(t, cfg.Fallback.UsesS3())
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "two")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate(t *testing.T) {
	cfg := Load()

	cfg.SessionStore = "etcd"
	assert.Error(t, cfg.Validate())

	cfg.SessionStore = SessionStorePostgres
	cfg.Env = "production"
	cfg.JWTSecret = "changeme"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
