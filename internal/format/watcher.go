package format

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher monitors source trees and reports files that changed.
type Watcher struct {
	roots    []string
	accept   func(path string) bool
	logger   *slog.Logger
	debounce time.Duration
	Ready    chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher over roots. Directories are watched
// recursively; for a file, its parent directory is watched. Only paths for
// which accept returns true are reported.
func NewWatcher(roots []string, accept func(path string) bool, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		roots:      roots,
		accept:     accept,
		logger:     logger.With("component", "watcher"),
		debounce:   defaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled. Changes arriving within the debounce
// window are batched, and callback is called with the sorted set of changed
// paths on the Watch goroutine, so invocations never overlap.
func (w *Watcher) Watch(ctx context.Context, callback func(paths []string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range w.roots {
		if err := w.addRoot(watcher, root); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "roots", w.roots)
	if w.Ready != nil {
		close(w.Ready)
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(watcher, event)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			callback(paths)
		}
	}
}

// handleEvent returns the path of a relevant changed file, or "" if the event
// should be ignored. New directories are added to the watch.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		return ""
	}

	if w.accept != nil && !w.accept(event.Name) {
		return ""
	}
	return event.Name
}

func (w *Watcher) addRoot(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return w.addRecursive(watcher, root)
}

// addRecursive adds root and its non-hidden subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
