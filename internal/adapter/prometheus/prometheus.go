package prometheus

import (
	"fmt"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusAdapter struct {
	appName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheJoins       prometheus.Counter
	fetchesTotal     *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	evictionsTotal   *prometheus.CounterVec
	storeErrorsTotal *prometheus.CounterVec
	cachedImages     prometheus.Gauge
}

// NewPrometheusAdapter registers the HTTP and image cache collectors on reg.
func NewPrometheusAdapter(reg prometheus.Registerer, appName string) *PrometheusAdapter {
	adapter := &PrometheusAdapter{
		appName: appName,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status", "app_name"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "Duration API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method", "status", "app_name"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "image_cache_hits_total",
			Help: "Resolutions served from the in-memory index",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "image_cache_misses_total",
			Help: "Resolutions that started a network fetch",
		}),
		cacheJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "image_cache_joins_total",
			Help: "Resolutions that joined a fetch already in flight",
		}),
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_cache_fetches_total",
				Help: "Network fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "image_cache_fetch_duration_seconds",
			Help:    "Duration of image network fetches",
			Buckets: prometheus.DefBuckets,
		}),
		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_cache_evictions_total",
				Help: "Entries removed by the expiry and capacity sweeps",
			},
			[]string{"reason"},
		),
		storeErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_cache_store_errors_total",
				Help: "Persistent store failures by operation",
			},
			[]string{"operation"},
		),
		cachedImages: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "image_cache_entries",
			Help: "Entries currently held in the index",
		}),
	}

	reg.MustRegister(
		adapter.httpRequestsTotal,
		adapter.httpRequestDuration,
		adapter.cacheHits,
		adapter.cacheMisses,
		adapter.cacheJoins,
		adapter.fetchesTotal,
		adapter.fetchDuration,
		adapter.evictionsTotal,
		adapter.storeErrorsTotal,
		adapter.cachedImages,
	)

	adapter.httpRequestsTotal.WithLabelValues("/health", "GET", "200", appName).Add(0)
	return adapter
}

var (
	_ ports.MetricsPort  = (*PrometheusAdapter)(nil)
	_ ports.CacheMetrics = (*PrometheusAdapter)(nil)
)

func (p *PrometheusAdapter) IncrementCounter(name string, labels map[string]string) {
	p.httpRequestsTotal.WithLabelValues(
		labels["path"],
		labels["method"],
		labels["status"],
		p.appName,
	).Inc()
}

func (p *PrometheusAdapter) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	p.httpRequestDuration.WithLabelValues(
		labels["path"],
		labels["method"],
		labels["status"],
		p.appName,
	).Observe(duration.Seconds())
}

// RecordMetrics labels by route template so query strings and image URLs do
// not explode label cardinality.
func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	status := fmt.Sprintf("%d", c.Writer.Status())
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	labels := map[string]string{
		"path":   path,
		"method": c.Request.Method,
		"status": status,
	}

	p.IncrementCounter("http_requests_total", labels)
	p.RecordDuration("api_request_duration_seconds", time.Since(start), labels)
}

func (p *PrometheusAdapter) Hit() {
	p.cacheHits.Inc()
}

func (p *PrometheusAdapter) Miss() {
	p.cacheMisses.Inc()
}

func (p *PrometheusAdapter) Join() {
	p.cacheJoins.Inc()
}

func (p *PrometheusAdapter) Fetch(outcome string, duration time.Duration) {
	p.fetchesTotal.WithLabelValues(outcome).Inc()
	p.fetchDuration.Observe(duration.Seconds())
}

func (p *PrometheusAdapter) Evict(reason string, count int) {
	p.evictionsTotal.WithLabelValues(reason).Add(float64(count))
}

func (p *PrometheusAdapter) StoreError(op string) {
	p.storeErrorsTotal.WithLabelValues(op).Inc()
}

func (p *PrometheusAdapter) Entries(count int) {
	p.cachedImages.Set(float64(count))
}
