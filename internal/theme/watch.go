package theme

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a theme file while the animation runs. It watches the
// file's directory because most editors replace files on save, and debounces
// rapid write bursts before reloading. A reload that fails validation keeps
// the previous theme active.
type Watcher struct {
	mu          sync.RWMutex
	fsw         *fsnotify.Watcher
	path        string
	onChange    func(*Theme)
	log         *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for the stats readout and debugging.
type WatcherStats struct {
	Reloads       int
	InvalidEdits  int
	Errors        int
	LastEventTime time.Time
}

// NewWatcher creates a watcher for the given theme file. The onChange
// callback receives each successfully reloaded theme.
func NewWatcher(path string, onChange func(*Theme), log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		fsw:         fsw,
		path:        filepath.Clean(path),
		onChange:    onChange,
		log:         log,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // settle window for rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		// The event loop never starts on this path, so the fsnotify handle
		// must be released here.
		if cerr := w.fsw.Close(); cerr != nil {
			w.log.Warn("theme watcher close failed", zap.Error(cerr))
		}
		return err
	}
	w.log.Debug("theme watcher started", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop halts the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.log.Warn("theme watcher close failed", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("theme watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	// Create covers editors that write a temp file and rename over the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.stats.LastEventTime = time.Now()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	ready := false
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.debounceMap, path)
			ready = true
		}
	}
	w.mu.Unlock()

	if !ready {
		return
	}
	w.reload()
}

func (w *Watcher) reload() {
	th, err := Load(w.path)
	if err != nil {
		w.log.Warn("theme reload rejected, keeping previous theme",
			zap.String("path", w.path), zap.Error(err))
		w.mu.Lock()
		w.stats.InvalidEdits++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()

	w.log.Info("theme reloaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(th)
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
