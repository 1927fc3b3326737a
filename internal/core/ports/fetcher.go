package ports

import (
	"context"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
)

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.FetchedImage, error)
}
