package ports

import (
	"context"
	"time"
)

// ImageStore is the durable key-value storage behind the image cache.
// Get returns domain.ErrNotFound for a missing key. A ttl <= 0 means the
// value does not expire on its own.
type ImageStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
