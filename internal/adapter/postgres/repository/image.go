package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/lib/pq"
)

const undefinedTable = "42P01"

type PostgresImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *PostgresImageRepository {
	return &PostgresImageRepository{
		db,
	}
}

var _ ports.ImageStore = (*PostgresImageRepository)(nil)

func (r *PostgresImageRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT cache_value FROM image_cache
              WHERE cache_key = $1 AND (expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP)`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, wrapError(err)
	}

	return value, nil
}

func (r *PostgresImageRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `INSERT INTO image_cache (cache_key, cache_value, expires_at, updated_at)
    VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
    ON CONFLICT (cache_key) DO UPDATE SET
        cache_value = EXCLUDED.cache_value,
        expires_at = EXCLUDED.expires_at,
        updated_at = CURRENT_TIMESTAMP`

	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return wrapError(err)
	}
	return nil
}

func (r *PostgresImageRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM image_cache WHERE cache_key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return wrapError(err)
	}
	return nil
}

// Keys compares a literal prefix; LIKE would treat '_' in the prefix as a wildcard.
func (r *PostgresImageRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT cache_key FROM image_cache
              WHERE left(cache_key, length($1::text)) = $1::text
              ORDER BY cache_key`

	rows, err := r.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, wrapError(err)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

func wrapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("image_cache table is missing, run migrations: %w", err)
	}
	return err
}
