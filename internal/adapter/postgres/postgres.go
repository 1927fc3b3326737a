package postgres

import (
	"database/sql"
	"fmt"

	"github.com/cgdmohamed/drznmobile-sub001/internal/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"
)

// Open connects to postgres and verifies the connection.
func Open(cfg *config.DB) (*sql.DB, error) {
	const op = "postgres.Open"

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

// Migrate applies the goose migrations found in dir.
func Migrate(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	return nil
}
