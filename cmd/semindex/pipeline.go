package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semindex/config"
	"github.com/c360studio/semindex/focus"
	"github.com/c360studio/semindex/graph"
	"github.com/c360studio/semindex/index"
	"github.com/c360studio/semindex/inherit"
	"github.com/c360studio/semindex/metrics"
	"github.com/c360studio/semindex/ontology"
	"github.com/c360studio/semindex/parser"
	"github.com/c360studio/semindex/publish"
)

// instruments bundles the Prometheus registry with the collectors the
// pipeline records into.
type instruments struct {
	registry   *prometheus.Registry
	resolver   *metrics.Resolver
	enrichment *metrics.Enrichment
}

func newInstruments() *instruments {
	reg := prometheus.NewRegistry()
	return &instruments{
		registry:   reg,
		resolver:   metrics.NewResolver(reg),
		enrichment: metrics.NewEnrichment(reg),
	}
}

// resolution is the outcome of one full pipeline run.
type resolution struct {
	runID   string
	files   []string
	graph   *graph.Directed
	context *ontology.Context
	service *inherit.Service

	// index is the enriched index after focus pruning.
	index *index.Index

	// full is the enriched index before pruning; identical to index when
	// the strategy is full or no focus nodes are configured.
	full *index.Index

	reduction *focus.Reduction
}

// resolve runs the whole pipeline: expand globs, parse, build, enrich, and
// prune.
func resolve(ctx context.Context, cfg *config.Config, inst *instruments) (*resolution, error) {
	start := time.Now()
	runID := uuid.NewString()

	files, err := cfg.ExpandPaths(".")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no ontology files match %v", cfg.Ontology.Paths)
	}

	g, octx, err := parser.New().ParseFiles(files)
	if err != nil {
		return nil, err
	}

	svc := inherit.New(g, octx, inherit.WithMetrics(inst.resolver))

	raw, err := index.Build(g, octx)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	enriched, err := index.Enrich(ctx, raw, svc, index.EnrichOptions{
		Concurrency: cfg.Resolve.Concurrency,
		Metrics:     inst.enrichment,
	})
	if err != nil {
		return nil, fmt.Errorf("enrich index: %w", err)
	}

	res := &resolution{
		runID:   runID,
		files:   files,
		graph:   g,
		context: octx,
		service: svc,
		index:   enriched,
		full:    enriched,
	}

	strategy, err := focus.ParseStrategy(cfg.Focus.Strategy)
	if err != nil {
		return nil, err
	}
	if strategy != focus.StrategyFull && len(cfg.Focus.Nodes) > 0 {
		nodes := make([]ontology.NodeID, len(cfg.Focus.Nodes))
		for i, n := range cfg.Focus.Nodes {
			nodes[i] = ontology.NodeID(n)
		}
		res.index = focus.Select(enriched, nodes, strategy, svc)
		r := focus.AnalyzeReduction(enriched, res.index)
		res.reduction = &r
	}

	slog.Info("Resolution complete",
		"run_id", runID,
		"files", len(files),
		"classes", res.index.Len(),
		"strategy", strategy,
		"elapsed", time.Since(start))
	return res, nil
}

// publishResolution pushes the resolved units to NATS when publishing is
// enabled.
func publishResolution(ctx context.Context, cfg *config.Config, res *resolution) error {
	if !cfg.Publish.Enabled {
		return nil
	}
	nc, err := publish.Connect(cfg.Publish.URL)
	if err != nil {
		return err
	}
	defer nc.Close()

	pub := publish.New(nc, publish.WithSubject(cfg.Publish.Subject))
	if err := pub.PublishIndex(ctx, res.index); err != nil {
		return err
	}
	slog.Info("Published index", "subject", cfg.Publish.Subject, "units", res.index.Len())
	return nil
}
