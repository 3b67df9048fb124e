package supply

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher tracks recently-changed candidate files in a workspace so
// verification can target exactly the files the assistant just touched.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *slog.Logger

	mu      sync.Mutex
	changed map[string]time.Time
}

// NewWatcher starts watching root and its subdirectories. Directories added
// later are picked up from create events.
func NewWatcher(root string, ignoreDirs []string, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		log:     log,
		changed: make(map[string]time.Time),
	}

	ignored := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignored[d] = true
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if ignored[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run consumes filesystem events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("watch error", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	// New directories need explicit registration.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if err := w.watcher.Add(event.Name); err != nil && w.log != nil {
			w.log.Warn("watch add failed", "path", event.Name, "error", err)
		}
		return
	}

	if _, ok := KindForPath(event.Name); !ok {
		return
	}

	w.mu.Lock()
	w.changed[event.Name] = time.Now()
	w.mu.Unlock()

	if w.log != nil {
		w.log.Debug("file changed", "path", event.Name)
	}
}

// ChangedSince returns paths that changed within the window, most recent
// last. An empty result means the caller should fall back to a full walk.
func (w *Watcher) ChangedSince(window time.Duration) []string {
	cutoff := time.Now().Add(-window)

	w.mu.Lock()
	defer w.mu.Unlock()

	type entry struct {
		path string
		at   time.Time
	}
	var entries []entry
	for path, at := range w.changed {
		if at.After(cutoff) {
			entries = append(entries, entry{path, at})
		} else {
			delete(w.changed, path)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths
}

// Close releases the underlying filesystem watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
