// Package watch monitors ontology source directories and emits debounced
// change batches so callers can re-resolve once per burst of edits.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// eventChannelBuffer is the size of the batch event channel.
	eventChannelBuffer = 16

	// DefaultDebounce is how long to wait for more changes before
	// emitting a batch.
	DefaultDebounce = 500 * time.Millisecond
)

// Config configures ontology file watching.
type Config struct {
	// DebounceDelay is how long to wait for more changes before emitting.
	DebounceDelay time.Duration

	// Extensions lists file extensions to watch. Defaults to .ttl.
	Extensions []string

	// ExcludeDirs lists directory names to skip.
	ExcludeDirs []string
}

// Event is one debounced batch of changed ontology files.
type Event struct {
	// Paths are the changed files, sorted.
	Paths []string
}

// Watcher watches directories for ontology file changes.
type Watcher struct {
	config     Config
	roots      []string
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	// Debouncing: collect changes before emitting.
	pendingMu sync.Mutex
	pending   map[string]bool

	events chan Event
}

// New creates a watcher over the given root directories.
func New(config Config, roots []string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultDebounce
	}

	extensions := make(map[string]bool)
	if len(config.Extensions) == 0 {
		extensions[".ttl"] = true
	} else {
		for _, ext := range config.Extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			extensions[ext] = true
		}
	}

	excludes := make(map[string]bool)
	for _, dir := range config.ExcludeDirs {
		excludes[dir] = true
	}

	return &Watcher{
		config:     config,
		roots:      roots,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]bool),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced change batches. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds watches recursively and begins event processing.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.addWatchesRecursive(root); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("Ontology watcher started",
		"roots", w.roots,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher. The events channel is closed by processEvents
// when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to all directories under root.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && base != "." && path != root) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	// Newly created directories need their own watch.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addWatchesRecursive(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.extensions[filepath.Ext(event.Name)] {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = true
	w.pendingMu.Unlock()
}

// flushPending emits the collected changes as one batch.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	sort.Strings(paths)
	select {
	case w.events <- Event{Paths: paths}:
	case <-ctx.Done():
	default:
		w.logger.Warn("Dropping change batch, consumer too slow", "files", len(paths))
	}
}
