package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semindex/watch"
)

func startWatcher(t *testing.T, dir string) *watch.Watcher {
	t.Helper()
	w, err := watch.New(watch.Config{DebounceDelay: 50 * time.Millisecond}, []string{dir}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func waitForEvent(t *testing.T, w *watch.Watcher) watch.Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		require.True(t, ok, "events channel closed unexpectedly")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return watch.Event{}
	}
}

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	// Two quick writes should land in one debounced batch.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ttl"), []byte("# a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.ttl"), []byte("# b"), 0o644))

	ev := waitForEvent(t, w)
	assert.Contains(t, ev.Paths, filepath.Join(dir, "a.ttl"))
	assert.Contains(t, ev.Paths, filepath.Join(dir, "b.ttl"))
	assert.IsIncreasing(t, ev.Paths)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "onto.ttl"), []byte("# onto"), 0o644))

	ev := waitForEvent(t, w)
	assert.Equal(t, []string{filepath.Join(dir, "onto.ttl")}, ev.Paths)
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	sub := filepath.Join(dir, "core")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.ttl"), []byte("# new"), 0o644))

	ev := waitForEvent(t, w)
	assert.Contains(t, ev.Paths, filepath.Join(sub, "new.ttl"))
}

func TestWatcherStopClosesEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(watch.Config{DebounceDelay: 50 * time.Millisecond}, []string{dir}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "events channel should close after Stop")
	case <-time.After(5 * time.Second):
		t.Fatal("events channel did not close")
	}
}
