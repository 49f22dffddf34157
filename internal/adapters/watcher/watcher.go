// Package watcher implements file system watching for regeneration on source changes.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/compdb/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent

	// roots are the requested directories, present or not.
	roots map[string]struct{}
	// parents are watched only to see roots appear or disappear.
	parents map[string]struct{}
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		roots:     make(map[string]struct{}),
		parents:   make(map[string]struct{}),
	}, nil
}

// Start begins watching the given directories recursively. The parent of
// each directory is watched as well, without recursion, so a directory that
// is missing now is picked up once it is created.
func (w *Watcher) Start(ctx context.Context, dirs []string) error {
	for _, root := range dirs {
		w.roots[root] = struct{}{}

		parent := filepath.Dir(root)
		if _, ok := w.parents[parent]; !ok {
			if info, err := os.Stat(parent); err == nil && info.IsDir() {
				if err := w.fsWatcher.Add(parent); err != nil {
					return err
				}
				w.parents[parent] = struct{}{}
			}
		}

		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		for dir := range w.watchRecursively(root) {
			if err := w.fsWatcher.Add(dir); err != nil {
				return err
			}
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if d.IsDir() {
				if path != root && shouldSkip(d.Name()) {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// shouldSkip reports whether a directory is hidden and therefore never scanned.
func shouldSkip(name string) bool {
	return strings.HasPrefix(name, ".")
}

// processEvents processes raw fsnotify events and converts them to ports.WatchEvent.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || !w.inScope(event.Name) {
				continue
			}

			// New directories may hold sources, so they are watched before
			// the event is passed on.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkip(info.Name()) {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

// inScope reports whether path lies in a requested directory or is one.
// Siblings seen through a parent watch are dropped.
func (w *Watcher) inScope(path string) bool {
	if _, ok := w.roots[path]; ok {
		return true
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if _, ok := w.roots[dir]; ok {
			return true
		}
		if next := filepath.Dir(dir); next == dir {
			return false
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	default:
		return ports.WatchEvent{}, false
	}
}
