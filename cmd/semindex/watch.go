package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/semindex/config"
	"github.com/c360studio/semindex/publish"
	"github.com/c360studio/semindex/watch"
)

func watchCmd(opts *rootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve the ontology whenever its source files change",
		Long: `Watch monitors the directories containing the configured ontology
files and re-runs the resolution pipeline after each debounced batch of
changes. When publishing is enabled, every successful resolution is pushed
to NATS; when a metrics listen address is configured, resolver counters are
served on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Delay before re-resolving after a change")
	return cmd
}

func runWatch(parent context.Context, cfg *config.Config, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inst := newInstruments()
	if cfg.Metrics.Listen != "" {
		startMetricsListener(cfg.Metrics.Listen, inst)
	}

	var pub *publish.Publisher
	if cfg.Publish.Enabled {
		nc, err := publish.Connect(cfg.Publish.URL)
		if err != nil {
			return err
		}
		defer func() {
			_ = nc.Drain()
			nc.Close()
		}()
		pub = publish.New(nc, publish.WithSubject(cfg.Publish.Subject))
	} else {
		pub = publish.New(nil)
	}

	runOnce := func() {
		res, err := resolve(ctx, cfg, inst)
		if err != nil {
			slog.Error("Resolution failed", "error", err)
			return
		}
		if err := pub.PublishIndex(ctx, res.index); err != nil {
			slog.Error("Publish failed", "error", err)
		}
	}
	runOnce()

	roots, err := watchRoots(cfg)
	if err != nil {
		return err
	}
	w, err := watch.New(watch.Config{DebounceDelay: debounce}, roots, slog.Default())
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			slog.Info("Ontology changed", "files", len(ev.Paths))
			runOnce()
		}
	}
}

// watchRoots derives the directories to watch from the currently matching
// ontology files, falling back to the working directory so files created
// later are still picked up.
func watchRoots(cfg *config.Config) ([]string, error) {
	files, err := cfg.ExpandPaths(".")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var roots []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	sort.Strings(roots)
	return roots, nil
}

func startMetricsListener(addr string, inst *instruments) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(inst.registry, promhttp.HandlerOpts{}))

	go func() {
		slog.Info("Metrics listener started", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Metrics listener failed", "error", err)
		}
	}()
}
