package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type (
	Container struct {
		App   *App   `validate:"required"`
		Token *Token `validate:"required"`
		DB    *DB    `validate:"required"`
		HTTP  *HTTP  `validate:"required"`
		Redis *Redis `validate:"required"`
		Store *Store `validate:"required"`
		Cache *Cache `validate:"required"`
		Fetch *Fetch `validate:"required"`
	}

	App struct {
		Name string `validate:"required"`
		Env  string `validate:"required"`
	}

	Token struct {
		Secret   string
		Duration string
	}

	DB struct {
		Host          string `validate:"required_if=Enabled true"`
		Port          string `validate:"required_if=Enabled true"`
		User          string `validate:"required_if=Enabled true"`
		Password      string
		Name          string `validate:"required_if=Enabled true"`
		SSLMode       string
		MigrationsDir string
		Enabled       bool
	}

	HTTP struct {
		Env            string
		Port           string `validate:"required,numeric"`
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string `validate:"required_if=Enabled true"`
		Password string
		DB       int `validate:"gte=0"`
		Enabled  bool
	}

	Store struct {
		Backend    string `validate:"required,oneof=memory redis sqlite postgres"`
		SQLitePath string `validate:"required_if=Backend sqlite"`
	}

	Cache struct {
		Prefix        string        `validate:"required"`
		MaxImages     int           `validate:"gt=0"`
		EvictFraction float64       `validate:"gt=0,lte=1"`
		Expiry        time.Duration `validate:"gt=0"`
		SweepInterval time.Duration `validate:"gt=0"`
	}

	Fetch struct {
		Timeout   time.Duration `validate:"gt=0"`
		MaxBytes  int64         `validate:"gt=0"`
		UserAgent string
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	backend := getEnv("STORE_BACKEND", BackendRedis)

	app := &App{
		Name: getEnv("APP_NAME", "image_cache"),
		Env:  getEnv("APP_ENV", "local"),
	}

	token := &Token{
		Secret:   os.Getenv("TOKEN_SECRET"),
		Duration: getEnv("TOKEN_DURATION", "24h"),
	}

	db := &DB{
		Host:          os.Getenv("DB_HOST"),
		Port:          getEnv("DB_PORT", "5432"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "./internal/adapter/postgres/migrations"),
		Enabled:       backend == BackendPostgres,
	}

	http := &HTTP{
		Port:           getEnv("HTTP_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            app.Env,
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	redis := &Redis{
		Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
		Enabled:  backend == BackendRedis,
	}

	store := &Store{
		Backend:    backend,
		SQLitePath: getEnv("SQLITE_PATH", "image_cache.db"),
	}

	cache, err := loadCache()
	if err != nil {
		return nil, err
	}

	fetch, err := loadFetch()
	if err != nil {
		return nil, err
	}

	container := &Container{
		App:   app,
		Token: token,
		DB:    db,
		HTTP:  http,
		Redis: redis,
		Store: store,
		Cache: cache,
		Fetch: fetch,
	}

	if err := Validate(container); err != nil {
		return nil, err
	}
	return container, nil
}

// Validate checks the struct tags of every section.
func Validate(c *Container) error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadCache() (*Cache, error) {
	maxImages, err := getInt("CACHE_MAX_IMAGES", 200)
	if err != nil {
		return nil, err
	}
	fraction, err := getFloat("CACHE_EVICT_FRACTION", 0.2)
	if err != nil {
		return nil, err
	}
	expiry, err := getDuration("CACHE_EXPIRY", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("CACHE_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	return &Cache{
		Prefix:        getEnv("CACHE_PREFIX", "img_cache_"),
		MaxImages:     maxImages,
		EvictFraction: fraction,
		Expiry:        expiry,
		SweepInterval: interval,
	}, nil
}

func loadFetch() (*Fetch, error) {
	timeout, err := getDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxBytes, err := getInt("FETCH_MAX_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	return &Fetch{
		Timeout:   timeout,
		MaxBytes:  int64(maxBytes),
		UserAgent: getEnv("FETCH_USER_AGENT", "drzn-image-cache/1.0"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
