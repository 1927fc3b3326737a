package services

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/logger"
	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/memory"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fakeFetcher counts calls per request URL. When gate is set every fetch
// blocks until it is closed.
type fakeFetcher struct {
	mu          sync.Mutex
	calls       map[string]int
	body        []byte
	contentType string
	err         error
	gate        chan struct{}
	started     chan string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:       make(map[string]int),
		body:        []byte("jpeg-bytes"),
		contentType: "image/jpeg",
		started:     make(chan string, 64),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.FetchedImage, error) {
	f.mu.Lock()
	f.calls[url]++
	gate, body, contentType, err := f.gate, f.body, f.contentType, f.err
	f.mu.Unlock()

	select {
	case f.started <- url:
	default:
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &domain.FetchedImage{Body: body, ContentType: contentType}, nil
}

func (f *fakeFetcher) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// testClock advances by step on every reading.
type testClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newTestClock(step time.Duration) *testClock {
	return &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type mockStore struct {
	mock.Mock
}

var _ ports.ImageStore = (*mockStore)(nil)

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// countingMetrics records resolve outcomes.
type countingMetrics struct {
	ports.NoopCacheMetrics
	hits, misses, joins atomic.Int32
}

func (m *countingMetrics) Hit()  { m.hits.Add(1) }
func (m *countingMetrics) Miss() { m.misses.Add(1) }
func (m *countingMetrics) Join() { m.joins.Add(1) }

type fixture struct {
	svc     *ImageCacheService
	store   *memory.MemoryAdapter
	fetcher *fakeFetcher
	clock   *testClock
	metrics *countingMetrics
}

func newFixture(t *testing.T, cfg CacheConfig) *fixture {
	t.Helper()

	f := &fixture{
		store:   memory.NewMemoryAdapter(),
		fetcher: newFakeFetcher(),
		clock:   newTestClock(time.Millisecond),
		metrics: &countingMetrics{},
	}
	f.svc = NewImageCacheService(f.store, f.fetcher, testLogger(), f.metrics, cfg, WithClock(f.clock.Now))
	return f
}

func testLogger() ports.LoggerPort {
	return logger.NewLoggerAdapterWriter("test", io.Discard)
}
