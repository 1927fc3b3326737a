package ports

import (
	"context"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
)

type ImageCacheService interface {
	Resolve(ctx context.Context, url string, forceRefresh bool) (string, error)
	ClearAll(ctx context.Context) error
	Stats(ctx context.Context) (domain.Stats, error)
	Load(ctx context.Context) error
	SweepExpired(ctx context.Context) int
	RunSweeper(ctx context.Context, interval time.Duration)
}
