// ABOUTME: This file implements prometheus metric collection for the page pipeline
// ABOUTME: Counters and histograms are exposed on /metrics for the monitoring collaborator
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the pipeline's prometheus instruments. A nil Collector
// is safe to use; every method is a no-op on nil.
type Collector struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	resolves       *prometheus.CounterVec
	refreshUpdated prometheus.Counter
	refreshFailed  prometheus.Counter
	resolveSeconds prometheus.Histogram
}

// NewCollector creates the collector and registers its instruments.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page_pipeline_cache_hits_total",
			Help: "Fast-tier cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page_pipeline_cache_misses_total",
			Help: "Fast-tier cache misses.",
		}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "page_pipeline_resolves_total",
			Help: "Topic resolutions by outcome.",
		}, []string{"outcome"}),
		refreshUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page_pipeline_refresh_updated_total",
			Help: "Pages successfully refreshed by the batch job.",
		}),
		refreshFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page_pipeline_refresh_failed_total",
			Help: "Pages that failed refresh in the batch job.",
		}),
		resolveSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "page_pipeline_resolve_duration_seconds",
			Help:    "Latency of topic resolution.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.resolves,
		c.refreshUpdated,
		c.refreshFailed,
		c.resolveSeconds,
	)

	return c
}

// CacheHit records a fast-tier hit.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}

	c.cacheHits.Inc()
}

// CacheMiss records a fast-tier miss.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}

	c.cacheMisses.Inc()
}

// Resolve records a resolution outcome: exact, fuzzy, or created.
func (c *Collector) Resolve(outcome string) {
	if c == nil {
		return
	}

	c.resolves.WithLabelValues(outcome).Inc()
}

// RefreshOutcome records one batch item result.
func (c *Collector) RefreshOutcome(updated bool) {
	if c == nil {
		return
	}

	if updated {
		c.refreshUpdated.Inc()
	} else {
		c.refreshFailed.Inc()
	}
}

// ObserveResolveDuration records resolution latency in seconds.
func (c *Collector) ObserveResolveDuration(seconds float64) {
	if c == nil {
		return
	}

	c.resolveSeconds.Observe(seconds)
}
