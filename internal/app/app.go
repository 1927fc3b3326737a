package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/fetcher"
	handlers "github.com/cgdmohamed/drznmobile-sub001/internal/adapter/handler/http"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/memory"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/postgres"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/postgres/repository"
	promAdapter "github.com/cgdmohamed/drznmobile-sub001/internal/adapter/prometheus"
	redisAdapter "github.com/cgdmohamed/drznmobile-sub001/internal/adapter/redis"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/sqlite"
	"github.com/cgdmohamed/drznmobile-sub001/internal/config"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisClient "github.com/redis/go-redis/v9"
)

// App owns the image cache and everything it depends on.
type App struct {
	Config   *config.Container
	Log      ports.LoggerPort
	Images   *services.ImageCacheService
	Metrics  *promAdapter.PrometheusAdapter
	Registry *prometheus.Registry
	Tokens   *handlers.JWTTokenService

	closers []func() error
}

// New connects the configured store and loads the persisted index.
// A failed load is logged and the cache starts empty.
func New(ctx context.Context, cfg *config.Container, log ports.LoggerPort) (*App, error) {
	const op = "app.New"

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := promAdapter.NewPrometheusAdapter(registry, cfg.App.Name)

	a := &App{
		Config:   cfg,
		Log:      log,
		Metrics:  metrics,
		Registry: registry,
		Tokens:   handlers.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, log),
	}

	store, err := a.newStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	imageFetcher := fetcher.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)

	a.Images = services.NewImageCacheService(store, imageFetcher, log, metrics, services.CacheConfig{
		Prefix:        cfg.Cache.Prefix,
		MaxImages:     cfg.Cache.MaxImages,
		EvictFraction: cfg.Cache.EvictFraction,
		Expiry:        cfg.Cache.Expiry,
		SweepInterval: cfg.Cache.SweepInterval,
	})

	if err := a.Images.Load(ctx); err != nil {
		log.Error("Error initializing image cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return a, nil
}

func (a *App) newStore(ctx context.Context) (ports.ImageStore, error) {
	cfg := a.Config

	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.Log.Warn("Using in-memory image store, cache will not survive restarts", nil)
		return memory.NewMemoryAdapter(), nil

	case config.BackendRedis:
		conn := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, conn.Close)

		if _, err := conn.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.Log.Info("Connected to Redis", map[string]interface{}{
			"addr": cfg.Redis.Address,
		})
		return redisAdapter.NewRedisAdapter(conn), nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		if err := postgres.Migrate(db, cfg.DB.MigrationsDir); err != nil {
			return nil, err
		}
		return repository.NewImageRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

// Close releases store connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
