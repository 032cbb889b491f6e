package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"fractalis/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// StateWatcher watches the shared directory for component state changes and
// invokes a callback once writes settle past the debounce window. Components
// write state in bursts, so per-event reactions would mostly see half-written
// files.
type StateWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	onChange    func(path string)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	// Stats for stress testing
	stats StateWatcherStats
}

// StateWatcherStats tracks watcher activity for stress testing and debugging.
type StateWatcherStats struct {
	FilesCreated  int
	FilesModified int
	FilesDeleted  int
	Settled       int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventType string
}

// NewStateWatcher creates a watcher over the shared directory. onChange fires
// once per settled state file; a nil onChange only collects stats.
func NewStateWatcher(dir string, debounce time.Duration, onChange func(path string)) (*StateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	sw := &StateWatcher{
		watcher:     watcher,
		dir:         dir,
		onChange:    onChange,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	return sw, nil
}

// Start begins watching the shared directory for changes.
// This method is non-blocking; it starts the watcher in a goroutine.
func (sw *StateWatcher) Start(ctx context.Context) error {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return nil // Already running
	}
	sw.running = true
	sw.mu.Unlock()

	if err := sw.watcher.Add(sw.dir); err != nil {
		logging.WatcherWarn("StateWatcher: initial watch failed (dir may not exist): %v", err)
	} else {
		logging.Watcher("StateWatcher: watching directory: %s", sw.dir)
	}

	go sw.run(ctx)

	return nil
}

// Stop stops the watcher and waits for cleanup.
func (sw *StateWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.doneCh

	if err := sw.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatcher).Error("StateWatcher: error closing watcher: %v", err)
	}
	logging.Watcher("StateWatcher: stopped")
}

// run is the main event loop for the watcher.
func (sw *StateWatcher) run(ctx context.Context) {
	defer close(sw.doneCh)

	// Debounce timer for batching rapid changes
	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watcher("StateWatcher: context cancelled")
			return

		case <-sw.stopCh:
			logging.Watcher("StateWatcher: stop signal received")
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				logging.Watcher("StateWatcher: event channel closed")
				return
			}
			sw.handleEvent(event)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				logging.Watcher("StateWatcher: error channel closed")
				return
			}
			logging.Get(logging.CategoryWatcher).Error("StateWatcher error: %v", err)
			sw.mu.Lock()
			sw.stats.Errors++
			sw.mu.Unlock()

		case <-debounceTicker.C:
			sw.processDebouncedEvents()
		}
	}
}

// isStateFile reports whether a path is one of the component state files.
// Command files are written by the coordinator itself, so reacting to them
// would loop.
func isStateFile(path string) bool {
	switch filepath.Base(path) {
	case FileFractalParams, FileExplorerStatus, FileFractalAnalysis, FileRecommendations:
		return true
	}
	return false
}

// handleEvent processes a single filesystem event.
func (sw *StateWatcher) handleEvent(event fsnotify.Event) {
	if !isStateFile(event.Name) {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Remove != 0:
		eventType = "delete"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return // Ignore chmod, etc.
	}

	logging.WatcherDebug("StateWatcher: %s event for %s", eventType, event.Name)

	sw.mu.Lock()
	sw.stats.LastEventTime = time.Now()
	sw.stats.LastEventPath = event.Name
	sw.stats.LastEventType = eventType

	switch eventType {
	case "create":
		sw.stats.FilesCreated++
	case "modify":
		sw.stats.FilesModified++
	case "delete", "rename":
		sw.stats.FilesDeleted++
	}

	// Debounce: record the event for later processing
	sw.debounceMap[event.Name] = time.Now()
	sw.mu.Unlock()
}

// processDebouncedEvents fires the callback for events that have settled
// past the debounce window.
func (sw *StateWatcher) processDebouncedEvents() {
	sw.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)

	for path, eventTime := range sw.debounceMap {
		if now.Sub(eventTime) >= sw.debounceDur {
			toProcess = append(toProcess, path)
			delete(sw.debounceMap, path)
		}
	}
	sw.stats.Settled += len(toProcess)
	onChange := sw.onChange
	sw.mu.Unlock()

	if onChange == nil {
		return
	}
	for _, path := range toProcess {
		logging.WatcherDebug("StateWatcher: settled change: %s", path)
		onChange(path)
	}
}

// GetStats returns the current watcher statistics.
func (sw *StateWatcher) GetStats() StateWatcherStats {
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	return sw.stats
}

// ResetStats resets the watcher statistics.
func (sw *StateWatcher) ResetStats() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.stats = StateWatcherStats{}
}

// IsWatching returns true if the watcher is currently running.
func (sw *StateWatcher) IsWatching() bool {
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	return sw.running
}
