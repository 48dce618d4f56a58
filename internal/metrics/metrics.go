package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// Upstream fetches
	Fetches       *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Response cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CachePurged prometheus.Counter

	// Stress loads by outcome
	StressLoads *prometheus.CounterVec

	// HTTP server
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a collector backed by its own registry.
func New(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Upstream data fetches by provider and outcome",
		}, []string{"provider", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Upstream fetch latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Responses served from the cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups that required a fetch",
		}),
		CachePurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_purged_total",
			Help:      "Expired cache entries removed",
		}),
		StressLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stress_loads_total",
			Help:      "Stress series loads by status",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		c.Fetches, c.FetchDuration,
		c.CacheHits, c.CacheMisses, c.CachePurged,
		c.StressLoads,
		c.HTTPRequests, c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveFetch records one upstream fetch.
func (c *Collector) ObserveFetch(provider, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.Fetches.WithLabelValues(provider, outcome).Inc()
	c.FetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// CacheHit records a cache hit or miss.
func (c *Collector) CacheHit(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMisses.Inc()
	}
}

// Purged records purged cache entries.
func (c *Collector) Purged(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.CachePurged.Add(float64(n))
}

// StressLoad records the status of a stress series load.
func (c *Collector) StressLoad(status string) {
	if c == nil {
		return
	}
	c.StressLoads.WithLabelValues(status).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
