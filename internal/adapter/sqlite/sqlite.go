// Package sqlite keeps the image cache in a local SQLite file, the closest
// match to on-device storage.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	_ "modernc.org/sqlite" // SQLite driver
)

const createTable = `
	CREATE TABLE IF NOT EXISTS image_cache (
		cache_key   TEXT PRIMARY KEY,
		cache_value BLOB NOT NULL,
		expires_at  INTEGER
	);`

type SQLiteAdapter struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite image cache at %q: %w", path, err)
	}
	// A single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create image_cache table: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

var _ ports.ImageStore = (*SQLiteAdapter)(nil)

func (s *SQLiteAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT cache_value FROM image_cache
		WHERE cache_key = ? AND (expires_at IS NULL OR expires_at > ?)`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key, time.Now().UnixMilli()).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `INSERT INTO image_cache (cache_key, cache_value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET cache_value = excluded.cache_value, expires_at = excluded.expires_at`

	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: time.Now().Add(ttl).UnixMilli(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query, key, value, expiresAt)
	return err
}

func (s *SQLiteAdapter) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM image_cache WHERE cache_key = ?`, key)
	return err
}

func (s *SQLiteAdapter) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT cache_key FROM image_cache
		WHERE substr(cache_key, 1, length(?)) = ? ORDER BY cache_key`

	rows, err := s.db.QueryContext(ctx, query, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
