// Package watch reports new calibrations as they are written to a setup.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"

	"calman/internal/fsutil"
	"calman/internal/snapshot"
	"calman/internal/store"
	"calman/pkg/logging"
)

// Event describes a calibration that has been written.
type Event struct {
	// Component is the component directory name.
	Component string
	// Timestamp is the Unix time naming the calibration directory.
	Timestamp int64
	// Dir is the calibration directory.
	Dir string
}

// Watcher watches a setup directory for new calibrations.
type Watcher struct {
	root string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	seen    map[string]bool
	started chan struct{}
}

// New returns a watcher for the setup rooted at root.
func New(root string) *Watcher {
	return &Watcher{
		root:    filepath.Clean(root),
		seen:    make(map[string]bool),
		started: make(chan struct{}),
	}
}

// Started is closed once the initial watches are in place.
func (w *Watcher) Started() <-chan struct{} {
	return w.started
}

// Run watches until ctx is cancelled, sending one Event per calibration
// directory whose calibration document appears after Run was called.
// Calibrations present at startup are not reported.
func (w *Watcher) Run(ctx context.Context, events chan<- Event) error {
	if !fsutil.IsDir(w.root) {
		return fmt.Errorf("setup %s is not a directory", w.root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()

	if err := watcher.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchComponent(ctx, filepath.Join(w.root, e.Name()), false, events)
		}
	}
	close(w.started)
	logging.Info("Watch", "watching %s for new calibrations", w.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			w.handle(ctx, event, events)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			logging.Error("Watch", err, "filesystem watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event, events chan<- Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := filepath.Clean(event.Name)
	parent := filepath.Dir(path)

	switch {
	case parent == w.root:
		if fsutil.IsDir(path) {
			w.watchComponent(ctx, path, true, events)
		}
	case filepath.Dir(parent) == w.root:
		if store.IsTimestamp(filepath.Base(path)) && fsutil.IsDir(path) {
			w.watchCalibration(ctx, path, true, events)
		}
	case filepath.Base(path) == snapshot.CalibrationDocument:
		w.emit(ctx, parent, events)
	}
}

// watchComponent watches a component directory and the calibration
// directories already inside it. With report set, calibrations found
// complete are emitted, which covers directories created between the
// component appearing and the watch being added.
func (w *Watcher) watchComponent(ctx context.Context, dir string, report bool, events chan<- Event) {
	if err := w.watcher.Add(dir); err != nil {
		logging.Warn("Watch", "failed to watch %s: %v", dir, err)
		return
	}
	logging.Debug("Watch", "watching component %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Warn("Watch", "failed to list %s: %v", dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() && store.IsTimestamp(e.Name()) {
			w.watchCalibration(ctx, filepath.Join(dir, e.Name()), report, events)
		}
	}
}

func (w *Watcher) watchCalibration(ctx context.Context, dir string, report bool, events chan<- Event) {
	if err := w.watcher.Add(dir); err != nil {
		logging.Warn("Watch", "failed to watch %s: %v", dir, err)
		return
	}
	if !report {
		w.mu.Lock()
		w.seen[dir] = fsutil.IsFile(filepath.Join(dir, snapshot.CalibrationDocument))
		w.mu.Unlock()
		return
	}
	if fsutil.IsFile(filepath.Join(dir, snapshot.CalibrationDocument)) {
		w.emit(ctx, dir, events)
	}
}

func (w *Watcher) emit(ctx context.Context, dir string, events chan<- Event) {
	base := filepath.Base(dir)
	if !store.IsTimestamp(base) || filepath.Dir(filepath.Dir(dir)) != w.root {
		return
	}

	w.mu.Lock()
	if w.seen[dir] {
		w.mu.Unlock()
		return
	}
	w.seen[dir] = true
	w.mu.Unlock()

	ts, err := strconv.ParseInt(base, 10, 64)
	if err != nil {
		return
	}
	ev := Event{
		Component: filepath.Base(filepath.Dir(dir)),
		Timestamp: ts,
		Dir:       dir,
	}
	logging.Debug("Watch", "new calibration %s", dir)

	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
