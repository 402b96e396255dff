package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "REDIS_ADDR", "SEED_DATA", "CORS_ORIGINS", "REQUEST_TIMEOUT", "MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:petshop.db", cfg.DatabaseURL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.SeedData)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("SEED_DATA", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REQUEST_TIMEOUT", "bogus")
	t.Setenv("MAX_BODY_BYTES", "4096")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.SeedData)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = FromEnv()
	assert.Error(t, err)
}
