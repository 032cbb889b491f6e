package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventFor(dir, name, kind string) fsnotify.Event {
	var op fsnotify.Op
	switch kind {
	case "create":
		op = fsnotify.Create
	case "modify":
		op = fsnotify.Write
	case "delete":
		op = fsnotify.Remove
	}
	return fsnotify.Event{Name: filepath.Join(dir, name), Op: op}
}

func TestIsStateFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/shared/" + FileFractalParams, true},
		{"/shared/" + FileExplorerStatus, true},
		{"/shared/" + FileFractalAnalysis, true},
		{"/shared/" + FileRecommendations, true},
		{"/shared/" + FileMutatorCommands, false},
		{"/shared/" + FileExplorerCommands, false},
		{"/shared/" + FileEcosystemReport, false},
		{"/shared/random.txt", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isStateFile(tt.path), "path %s", tt.path)
	}
}

func TestStateWatcherLifecycle(t *testing.T) {
	dir := t.TempDir()

	sw, err := NewStateWatcher(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	assert.False(t, sw.IsWatching())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, sw.Start(ctx))
	assert.True(t, sw.IsWatching())

	// Starting twice is a no-op
	require.NoError(t, sw.Start(ctx))

	sw.Stop()
	assert.False(t, sw.IsWatching())

	// Stopping twice is safe
	sw.Stop()
}

func TestStateWatcherDefaultDebounce(t *testing.T) {
	sw, err := NewStateWatcher(t.TempDir(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, sw.debounceDur)
	require.NoError(t, sw.watcher.Close())
}

func TestStateWatcherSettledCallback(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 8)
	sw, err := NewStateWatcher(dir, 50*time.Millisecond, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, sw.Start(ctx))
	defer sw.Stop()

	// A state file write must settle into exactly one callback,
	// an unrelated file must not.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileFractalParams), []byte("{}"), 0644))

	select {
	case path := <-changed:
		assert.Equal(t, FileFractalParams, filepath.Base(path))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for settled callback")
	}

	stats := sw.GetStats()
	assert.GreaterOrEqual(t, stats.Settled, 1)
	assert.Equal(t, FileFractalParams, filepath.Base(stats.LastEventPath))
}

func TestStateWatcherStats(t *testing.T) {
	sw, err := NewStateWatcher(t.TempDir(), 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer sw.watcher.Close()

	sw.handleEvent(eventFor(sw.dir, FileFractalParams, "create"))
	sw.handleEvent(eventFor(sw.dir, FileFractalParams, "modify"))
	sw.handleEvent(eventFor(sw.dir, FileExplorerStatus, "modify"))
	sw.handleEvent(eventFor(sw.dir, FileRecommendations, "delete"))
	sw.handleEvent(eventFor(sw.dir, "other.json", "modify")) // ignored

	stats := sw.GetStats()
	assert.Equal(t, 1, stats.FilesCreated)
	assert.Equal(t, 2, stats.FilesModified)
	assert.Equal(t, 1, stats.FilesDeleted)
	assert.Equal(t, "delete", stats.LastEventType)

	sw.ResetStats()
	assert.Equal(t, StateWatcherStats{}, sw.GetStats())
}
