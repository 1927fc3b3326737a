package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPrefix        = "img_cache_"
	DefaultMaxImages     = 200
	DefaultEvictFraction = 0.2
	DefaultExpiry        = 7 * 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

type CacheConfig struct {
	Prefix        string
	MaxImages     int
	EvictFraction float64
	Expiry        time.Duration
	SweepInterval time.Duration
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.MaxImages <= 0 {
		c.MaxImages = DefaultMaxImages
	}
	if c.EvictFraction <= 0 || c.EvictFraction > 1 {
		c.EvictFraction = DefaultEvictFraction
	}
	if c.Expiry <= 0 {
		c.Expiry = DefaultExpiry
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	return c
}

// EvictCount is how many entries one capacity sweep removes.
func (c CacheConfig) EvictCount() int {
	return int(math.Ceil(c.EvictFraction * float64(c.MaxImages)))
}

type Option func(*ImageCacheService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ImageCacheService) {
		s.now = now
	}
}

// ImageCacheService resolves image URLs to base64 data URIs, backed by an
// in-memory index and a persistent store. At most one network fetch per URL
// is outstanding at any time.
type ImageCacheService struct {
	store   ports.ImageStore
	fetcher ports.ImageFetcher
	logger  ports.LoggerPort
	metrics ports.CacheMetrics
	cfg     CacheConfig
	now     func() time.Time

	// mu guards index and pending. pending holds a URL exactly while group
	// has a call registered for it.
	mu      sync.RWMutex
	index   map[string]*domain.CacheEntry
	pending map[string]struct{}
	group   singleflight.Group
}

func NewImageCacheService(
	store ports.ImageStore,
	fetcher ports.ImageFetcher,
	logger ports.LoggerPort,
	metrics ports.CacheMetrics,
	cfg CacheConfig,
	opts ...Option,
) *ImageCacheService {
	if metrics == nil {
		metrics = ports.NoopCacheMetrics{}
	}

	s := &ImageCacheService{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		index:   make(map[string]*domain.CacheEntry),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

var _ ports.ImageCacheService = (*ImageCacheService)(nil)

func (s *ImageCacheService) Config() CacheConfig {
	return s.cfg
}

// Load rebuilds the index from every persisted entry under the cache prefix.
func (s *ImageCacheService) Load(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, s.cfg.Prefix)
	if err != nil {
		s.metrics.StoreError("keys")
		return &domain.StoreError{Op: "keys", Err: err}
	}

	loaded := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, s.cfg.Prefix) {
			continue
		}

		data, err := s.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.metrics.StoreError("get")
				s.logger.Warn("Failed to load cached image", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
			continue
		}

		var entry domain.CacheEntry
		if err := json.Unmarshal(data, &entry); err != nil || entry.URL == "" {
			s.logger.Warn("Skipping unreadable cached image", map[string]interface{}{
				"key": key,
			})
			continue
		}

		s.mu.Lock()
		s.index[entry.URL] = &entry
		s.mu.Unlock()
		loaded++
	}

	s.metrics.Entries(s.size())
	s.logger.Info("Image cache initialized", map[string]interface{}{
		"images": loaded,
		"prefix": s.cfg.Prefix,
	})
	return nil
}

// Resolve returns the data URI for url. A resolution already in flight for
// the same url is joined, even when forceRefresh is set. Otherwise a fresh
// index entry is served, and on a miss or forced refresh the image is fetched
// and written through to the index and the store.
//
// ctx only bounds the caller's wait: the fetch itself is not cancelled and
// still populates the cache for later callers.
func (s *ImageCacheService) Resolve(ctx context.Context, url string, forceRefresh bool) (string, error) {
	if url == "" {
		return "", domain.ErrInvalidInput
	}

	s.mu.Lock()
	if _, inFlight := s.pending[url]; !inFlight {
		if !forceRefresh {
			if entry, ok := s.index[url]; ok && entry.Fresh(s.now()) {
				s.mu.Unlock()
				s.metrics.Hit()
				return entry.Payload, nil
			}
		}
		s.pending[url] = struct{}{}
		s.metrics.Miss()
	} else {
		s.metrics.Join()
	}
	// DoChan runs the call on its own goroutine, so registering it under
	// s.mu cannot deadlock with finish.
	ch := s.group.DoChan(url, func() (interface{}, error) {
		defer s.finish(url)
		return s.fetchAndStore(context.WithoutCancel(ctx), url)
	})
	s.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *ImageCacheService) finish(url string) {
	s.mu.Lock()
	delete(s.pending, url)
	s.group.Forget(url)
	s.mu.Unlock()
}

func (s *ImageCacheService) fetchAndStore(ctx context.Context, url string) (string, error) {
	start := s.now()
	requestURL := EncodeImageURL(url)

	img, err := s.fetcher.Fetch(ctx, requestURL)
	if err == nil && len(img.Body) == 0 {
		err = errors.New("empty response body")
	}
	if err != nil {
		s.metrics.Fetch("error", s.now().Sub(start))
		s.logger.Error("Failed to fetch image", map[string]interface{}{
			"url":         url,
			"request_url": requestURL,
			"error":       err.Error(),
		})
		return "", &domain.FetchError{URL: url, Err: err}
	}
	s.metrics.Fetch("ok", s.now().Sub(start))

	payload := domain.DataURI(contentTypeOf(img), img.Body)
	s.put(ctx, domain.NewCacheEntry(url, payload, s.now(), s.cfg.Expiry))

	s.logger.Debug("Image cached", map[string]interface{}{
		"url":   url,
		"bytes": len(img.Body),
	})
	return payload, nil
}

// contentTypeOf prefers the response header and sniffs the body when the
// header is missing or generic.
func contentTypeOf(img *domain.FetchedImage) string {
	if mediaType, _, err := mime.ParseMediaType(img.ContentType); err == nil &&
		mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	detected, _, _ := strings.Cut(mimetype.Detect(img.Body).String(), ";")
	return detected
}

// put writes entry to the index and the store, then runs the capacity sweep
// if the index grew past MaxImages.
func (s *ImageCacheService) put(ctx context.Context, entry *domain.CacheEntry) {
	s.mu.Lock()
	s.index[entry.URL] = entry
	var evicted []string
	if len(s.index) > s.cfg.MaxImages {
		evicted = s.evictOldestLocked()
	}
	size := len(s.index)
	s.mu.Unlock()

	s.persist(ctx, entry)

	if len(evicted) > 0 {
		for _, url := range evicted {
			s.deleteUnindexed(ctx, url)
		}
		s.metrics.Evict("capacity", len(evicted))
		s.logger.Info("Evicted oldest images from cache", map[string]interface{}{
			"evicted": len(evicted),
			"images":  size,
		})
	}
	s.metrics.Entries(size)
}

// evictOldestLocked removes the entries closest to expiry. This is expiry
// order, not recency of use.
func (s *ImageCacheService) evictOldestLocked() []string {
	entries := make([]*domain.CacheEntry, 0, len(s.index))
	for _, entry := range s.index {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ExpiresAt != entries[j].ExpiresAt {
			return entries[i].ExpiresAt < entries[j].ExpiresAt
		}
		return entries[i].URL < entries[j].URL
	})

	n := min(s.cfg.EvictCount(), len(entries))
	evicted := make([]string, 0, n)
	for _, entry := range entries[:n] {
		delete(s.index, entry.URL)
		evicted = append(evicted, entry.URL)
	}
	return evicted
}

func (s *ImageCacheService) persist(ctx context.Context, entry *domain.CacheEntry) {
	key := StorageKey(s.cfg.Prefix, entry.URL)

	data, err := json.Marshal(entry)
	if err == nil {
		err = s.store.Set(ctx, key, data, entry.TTL(s.now()))
	}
	if err != nil {
		s.metrics.StoreError("set")
		s.logger.Warn("Failed to persist cached image", map[string]interface{}{
			"url":   entry.URL,
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *ImageCacheService) deletePersisted(ctx context.Context, url string) {
	key := StorageKey(s.cfg.Prefix, url)
	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.StoreError("delete")
		s.logger.Warn("Failed to remove cached image from store", map[string]interface{}{
			"url":   url,
			"key":   key,
			"error": err.Error(),
		})
	}
}

// ClearAll removes every entry under the cache prefix from the store and the
// index. Every key is attempted; entries whose persisted copy could not be
// removed stay indexed and the failures are returned.
func (s *ImageCacheService) ClearAll(ctx context.Context) error {
	keys, err := s.store.Keys(ctx, s.cfg.Prefix)
	if err != nil {
		s.metrics.StoreError("keys")
		s.logger.Error("Failed to list cached images", map[string]interface{}{
			"error": err.Error(),
		})
		return &domain.StoreError{Op: "keys", Err: err}
	}

	failed := make(map[string]struct{})
	var errs []error
	for _, key := range keys {
		if !strings.HasPrefix(key, s.cfg.Prefix) {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.metrics.StoreError("delete")
			failed[key] = struct{}{}
			errs = append(errs, &domain.StoreError{Op: "delete", Key: key, Err: err})
		}
	}

	s.mu.Lock()
	for url := range s.index {
		if _, ok := failed[StorageKey(s.cfg.Prefix, url)]; !ok {
			delete(s.index, url)
		}
	}
	size := len(s.index)
	s.mu.Unlock()
	s.metrics.Entries(size)

	if len(errs) > 0 {
		s.logger.Error("Image cache partially cleared", map[string]interface{}{
			"failed": len(errs),
		})
		return errors.Join(errs...)
	}

	s.logger.Info("Image cache cleared", map[string]interface{}{
		"keys": len(keys),
	})
	return nil
}

func (s *ImageCacheService) Stats(ctx context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chars := 0
	for _, entry := range s.index {
		chars += len(entry.Payload)
	}
	return domain.NewStats(len(s.index), chars), nil
}

// Entry returns the indexed entry for url, fresh or not.
func (s *ImageCacheService) Entry(url string) (domain.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.index[url]
	if !ok {
		return domain.CacheEntry{}, false
	}
	return *entry, true
}

func (s *ImageCacheService) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}
