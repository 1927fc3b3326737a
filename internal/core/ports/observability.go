package ports

import (
	"time"

	"github.com/gin-gonic/gin"
)

type MetricsPort interface {
	IncrementCounter(name string, labels map[string]string)
	RecordDuration(name string, duration time.Duration, labels map[string]string)
	RecordMetrics(c *gin.Context, start time.Time)
}

// CacheMetrics receives image cache lifecycle events.
type CacheMetrics interface {
	Hit()
	Miss()
	// Join is a caller attaching to a fetch already in flight for its URL.
	Join()
	Fetch(outcome string, duration time.Duration)
	Evict(reason string, count int)
	StoreError(op string)
	Entries(count int)
}

// NoopCacheMetrics ignores every event.
type NoopCacheMetrics struct{}

func (NoopCacheMetrics) Hit() {}
func (NoopCacheMetrics) Miss() {}
func (NoopCacheMetrics) Join() {}
func (NoopCacheMetrics) Fetch(string, time.Duration) {}
func (NoopCacheMetrics) Evict(string, int) {}
func (NoopCacheMetrics) StoreError(string) {}
func (NoopCacheMetrics) Entries(int) {}
