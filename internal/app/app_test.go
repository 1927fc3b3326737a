package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/logger"
	"github.com/cgdmohamed/drznmobile-sub001/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend string) *config.Container {
	return &config.Container{
		App:   &config.App{Name: "image_cache_test", Env: "test"},
		Token: &config.Token{Secret: "secret", Duration: "1h"},
		DB:    &config.DB{},
		HTTP:  &config.HTTP{Port: "8080"},
		Redis: &config.Redis{},
		Store: &config.Store{Backend: backend},
		Cache: &config.Cache{
			Prefix:        "img_cache_",
			MaxImages:     200,
			EvictFraction: 0.2,
			Expiry:        7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Fetch: &config.Fetch{Timeout: time.Second, MaxBytes: 1 << 20},
	}
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewSQLiteSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLoggerAdapterWriter("test", io.Discard)
	srv := imageServer(t)

	cfg := testConfig(config.BackendSQLite)
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "images.db")

	first, err := New(ctx, cfg, log)
	require.NoError(t, err)
	payload, err := first.Images.Resolve(ctx, srv.URL+"/a.jpg", false)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, log)
	require.NoError(t, err)
	defer second.Close()

	entry, ok := second.Images.Entry(srv.URL + "/a.jpg")
	require.True(t, ok)
	assert.Equal(t, payload, entry.Payload)
}

func TestNewRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(config.BackendRedis)
	cfg.Redis.Address = mr.Addr()

	a, err := New(ctx, cfg, logger.NewLoggerAdapterWriter("test", io.Discard))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Images.Resolve(ctx, imageServer(t).URL+"/a.jpg", false)
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := testConfig(config.BackendRedis)
	cfg.Redis.Address = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, logger.NewLoggerAdapterWriter("test", io.Discard))
	assert.Error(t, err)
}

func TestNewMemoryRegistersMetrics(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.BackendMemory), logger.NewLoggerAdapterWriter("test", io.Discard))
	require.NoError(t, err)
	defer a.Close()

	families, err := a.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["image_cache_entries"])
	assert.True(t, names["go_goroutines"])
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig("dynamo"), logger.NewLoggerAdapterWriter("test", io.Discard))
	assert.Error(t, err)
}
