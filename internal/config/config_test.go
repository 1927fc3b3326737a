package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", BackendMemory)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "image_cache", cfg.App.Name)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "img_cache_", cfg.Cache.Prefix)
	assert.Equal(t, 200, cfg.Cache.MaxImages)
	assert.Equal(t, 0.2, cfg.Cache.EvictFraction)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.Expiry)
	assert.Equal(t, time.Hour, cfg.Cache.SweepInterval)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBytes)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.False(t, cfg.DB.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", BackendSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/images.db")
	t.Setenv("CACHE_PREFIX", "drzn_")
	t.Setenv("CACHE_MAX_IMAGES", "50")
	t.Setenv("CACHE_EVICT_FRACTION", "0.5")
	t.Setenv("CACHE_EXPIRY", "48h")
	t.Setenv("FETCH_MAX_BYTES", "2048")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/images.db", cfg.Store.SQLitePath)
	assert.Equal(t, "drzn_", cfg.Cache.Prefix)
	assert.Equal(t, 50, cfg.Cache.MaxImages)
	assert.Equal(t, 0.5, cfg.Cache.EvictFraction)
	assert.Equal(t, 48*time.Hour, cfg.Cache.Expiry)
	assert.Equal(t, int64(2048), cfg.Fetch.MaxBytes)
}

func TestNewRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"unknown backend":    {"STORE_BACKEND", "dynamo"},
		"non numeric size":   {"CACHE_MAX_IMAGES", "lots"},
		"zero capacity":      {"CACHE_MAX_IMAGES", "0"},
		"fraction above one": {"CACHE_EVICT_FRACTION", "1.5"},
		"bad duration":       {"CACHE_EXPIRY", "a week"},
		"non numeric port":   {"HTTP_PORT", "http"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv("STORE_BACKEND", BackendMemory)
			t.Setenv(env[0], env[1])

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestValidatePostgresNeedsConnection(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", BackendPostgres)
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := New()
	require.Error(t, err)

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "cache")
	t.Setenv("DB_NAME", "images")

	cfg, err := New()
	require.NoError(t, err)
	assert.True(t, cfg.DB.Enabled)
}

func TestValidateRedisAddress(t *testing.T) {
	cfg := &Container{
		App:   &App{Name: "image_cache", Env: "test"},
		Token: &Token{},
		DB:    &DB{},
		HTTP:  &HTTP{Port: "8080"},
		Redis: &Redis{Enabled: true},
		Store: &Store{Backend: BackendRedis},
		Cache: &Cache{Prefix: "img_cache_", MaxImages: 1, EvictFraction: 1, Expiry: time.Hour, SweepInterval: time.Hour},
		Fetch: &Fetch{Timeout: time.Second, MaxBytes: 1},
	}
	require.Error(t, Validate(cfg))

	cfg.Redis.Address = "localhost:6379"
	require.NoError(t, Validate(cfg))
}
