package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusAdapter(reg, "image_cache_test")

	p.Hit()
	p.Hit()
	p.Miss()
	p.Join()
	p.Fetch("ok", 120*time.Millisecond)
	p.Fetch("error", time.Second)
	p.Evict("capacity", 40)
	p.Evict("expired", 2)
	p.StoreError("set")
	p.Entries(161)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.cacheJoins))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.fetchesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.fetchesTotal.WithLabelValues("error")))
	assert.Equal(t, 40.0, testutil.ToFloat64(p.evictionsTotal.WithLabelValues("capacity")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.evictionsTotal.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.storeErrorsTotal.WithLabelValues("set")))
	assert.Equal(t, 161.0, testutil.ToFloat64(p.cachedImages))
	assert.Equal(t, 1, testutil.CollectAndCount(p.fetchDuration))
}

func TestAdaptersUseSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusAdapter(prometheus.NewRegistry(), "a")
		NewPrometheusAdapter(prometheus.NewRegistry(), "b")
	})
}
