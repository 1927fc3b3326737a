package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 10 << 20
	DefaultUserAgent = "drzn-image-cache/1.0"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %s", e.Status)
}

type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int64, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

var _ ports.ImageFetcher = (*HTTPFetcher)(nil)

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedImage, error) {
	const op = "HTTPFetcher.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%s: image exceeds %d bytes", op, f.maxBytes)
	}

	return &domain.FetchedImage{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
