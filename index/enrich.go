package index

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/c360studio/semindex/constraint"
	"github.com/c360studio/semindex/inherit"
	"github.com/c360studio/semindex/metrics"
	"github.com/c360studio/semindex/ontology"
)

// DefaultEnrichConcurrency bounds the number of simultaneous per-unit
// computations so ontologies with thousands of classes cannot exhaust
// resources.
const DefaultEnrichConcurrency = 50

// EnrichOptions configures an enrichment run.
type EnrichOptions struct {
	// Concurrency caps simultaneous per-unit computations.
	// Zero means DefaultEnrichConcurrency.
	Concurrency int

	// FailFast aborts the run on the first resolution failure. When
	// false, failed units keep their raw (unenriched) form and the
	// failure is logged.
	FailFast bool

	Logger  *slog.Logger
	Metrics *metrics.Enrichment
}

// Enrich computes the inherited properties of every unit: the effective
// constraint set minus the property IRIs the unit declares itself, sorted
// ascending by IRI. The input index is untouched; a brand-new index is
// returned. Per-unit computations are independent and run with bounded
// parallelism; cancelling the context abandons the run and discards its
// output.
func Enrich(ctx context.Context, idx *Index, svc *inherit.Service, opts EnrichOptions) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	start := time.Now()

	keys := idx.Keys()
	enriched := make([]Unit, len(keys))
	errs := make([]error, len(keys))

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, id := range keys {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
		wg.Add(1)
		go func(i int, id ontology.NodeID) {
			defer wg.Done()
			defer func() { <-sem }()
			unit, _ := idx.Get(id)
			enriched[i], errs[i] = enrichUnit(unit, svc)
		}(i, id)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := New()
	for i, id := range keys {
		if err := errs[i]; err != nil {
			if opts.Metrics != nil {
				opts.Metrics.UnitsFailed.Inc()
			}
			if opts.FailFast {
				return nil, err
			}
			logger.Warn("skipping unit enrichment", "iri", id, "error", err)
			unit, _ := idx.Get(id)
			out.units[id] = unit
			continue
		}
		if opts.Metrics != nil {
			opts.Metrics.UnitsEnriched.Inc()
		}
		out.units[id] = enriched[i]
	}
	if opts.Metrics != nil {
		opts.Metrics.Duration.Observe(time.Since(start).Seconds())
	}
	return out, nil
}

func enrichUnit(unit Unit, svc *inherit.Service) (Unit, error) {
	effective, err := svc.EffectiveProperties(unit.IRI)
	if err != nil {
		return Unit{}, err
	}
	own := make(map[string]bool, len(unit.Properties))
	for _, pc := range unit.Properties {
		own[pc.PropertyIRI] = true
	}
	var inherited []constraint.PropertyConstraint
	for _, pc := range effective {
		if !own[pc.PropertyIRI] {
			inherited = append(inherited, pc)
		}
	}
	unit.Inherited = inherited // already sorted ascending by IRI
	return unit, nil
}
