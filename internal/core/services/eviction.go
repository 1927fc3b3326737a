package services

import (
	"context"
	"fmt"
	"time"
)

// SweepExpired removes every entry whose expiry has passed from the index and
// the store and returns how many were removed. It never panics or fails: a
// background sweep must not take the process down.
func (s *ImageCacheService) SweepExpired(ctx context.Context) (removed int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered from panic in image cache sweep", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
		}
	}()

	now := s.now()

	s.mu.Lock()
	var expired []string
	for url, entry := range s.index {
		if entry.Expired(now) {
			delete(s.index, url)
			expired = append(expired, url)
		}
	}
	size := len(s.index)
	s.mu.Unlock()

	for _, url := range expired {
		s.deleteUnindexed(ctx, url)
	}

	if len(expired) > 0 {
		s.metrics.Evict("expired", len(expired))
		s.metrics.Entries(size)
		s.logger.Info("Cleaned up expired images from cache", map[string]interface{}{
			"expired": len(expired),
			"images":  size,
		})
	}
	return len(expired)
}

// deleteUnindexed removes the persisted copy of url unless a resolve has put
// url back into the index since it was evicted. The read lock is held across
// the store delete so a concurrent put cannot index and persist a fresh copy
// in between.
func (s *ImageCacheService) deleteUnindexed(ctx context.Context, url string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, back := s.index[url]; back {
		return
	}
	s.deletePersisted(ctx, url)
}

// RunSweeper runs SweepExpired every interval until ctx is done. A
// non-positive interval falls back to the configured sweep interval.
func (s *ImageCacheService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.cfg.SweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Image cache sweeper started", map[string]interface{}{
		"interval": interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Image cache sweeper stopped", nil)
			return
		case <-ticker.C:
			s.SweepExpired(ctx)
		}
	}
}
