// Package metrics defines the prometheus collectors for the resolution
// pipeline. Collectors are registered against an injected Registerer so
// multiple pipelines can be instrumented independently.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolver instruments the inheritance service's memoization cache.
type Resolver struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewResolver creates and registers resolver collectors.
func NewResolver(reg prometheus.Registerer) *Resolver {
	m := &Resolver{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semindex_resolver_cache_hits_total",
			Help: "Memoization cache hits in the inheritance resolver.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semindex_resolver_cache_misses_total",
			Help: "Memoization cache misses in the inheritance resolver.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.CacheHits, m.CacheMisses)
	}
	return m
}

// Enrichment instruments the concurrent enrichment stage.
type Enrichment struct {
	UnitsEnriched prometheus.Counter
	UnitsFailed   prometheus.Counter
	Duration      prometheus.Histogram
}

// NewEnrichment creates and registers enrichment collectors.
func NewEnrichment(reg prometheus.Registerer) *Enrichment {
	m := &Enrichment{
		UnitsEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semindex_enrichment_units_total",
			Help: "Knowledge units successfully enriched.",
		}),
		UnitsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semindex_enrichment_failures_total",
			Help: "Knowledge units whose effective-property resolution failed.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "semindex_enrichment_duration_seconds",
			Help:    "Wall time of whole enrichment runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.UnitsEnriched, m.UnitsFailed, m.Duration)
	}
	return m
}
