package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before a
// batch of changes is imported.
const DefaultDebounce = 2 * time.Second

// Watcher imports media as it appears below a root directory.
type Watcher struct {
	pipeline *Pipeline
	root     string
	debounce time.Duration
	onFlush  func(imported, removed int)
	logger   *slog.Logger

	fsw     *fsnotify.Watcher
	changed map[string]bool
	removed map[string]bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets the quiet period before changes are imported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d <= 0 {
			return fmt.Errorf("debounce must be positive, got %v", d)
		}
		w.debounce = d
		return nil
	}
}

// WithFlushHook is called after each batch of changes is applied.
func WithFlushHook(fn func(imported, removed int)) WatcherOption {
	return func(w *Watcher) error {
		w.onFlush = fn
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher for root. Nothing is watched until Run.
func NewWatcher(pipeline *Pipeline, root string, opts ...WatcherOption) (*Watcher, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	w := &Watcher{
		pipeline: pipeline,
		root:     abs,
		debounce: DefaultDebounce,
		logger:   slog.Default().With("component", "watcher"),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Run watches until ctx is cancelled. Pending changes are applied before
// it returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	w.fsw = fsw
	w.changed = make(map[string]bool)
	w.removed = make(map[string]bool)
	if err := w.addTree(w.root, false); err != nil {
		return err
	}
	w.logger.Info("watching", "root", w.root)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.debounce)
				flush = timer.C
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-flush:
			flush = nil
			w.flush(ctx)
		}
	}
}

// addTree watches dir and every non-hidden directory below it. When
// collect is set, media files already present are queued for import.
func (w *Watcher) addTree(dir string, collect bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("walk error", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if collect && w.matches(path) {
			w.changed[path] = true
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return w.pipeline.scanner.Matches(filepath.ToSlash(rel))
}

// handle records an event and reports whether it queued any work.
func (w *Watcher) handle(event fsnotify.Event) bool {
	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return false
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) {
				if err := w.addTree(event.Name, true); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "err", err)
				}
			}
			return true
		}
		if !w.matches(event.Name) {
			return false
		}
		w.changed[event.Name] = true
		delete(w.removed, event.Name)
		return true

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if !w.matches(event.Name) {
			return false
		}
		w.removed[event.Name] = true
		delete(w.changed, event.Name)
		return true
	}
	return false
}

// flush applies queued changes and schedules a build when anything changed.
func (w *Watcher) flush(ctx context.Context) {
	if len(w.changed) == 0 && len(w.removed) == 0 {
		return
	}
	changed := slices.Sorted(maps.Keys(w.changed))
	removed := slices.Sorted(maps.Keys(w.removed))
	clear(w.changed)
	clear(w.removed)

	imported, err := w.pipeline.ImportFiles(ctx, changed...)
	if err != nil {
		w.logger.Error("failed to import changes", "err", err)
	}
	deleted, err := w.pipeline.RemoveFiles(ctx, removed...)
	if err != nil {
		w.logger.Error("failed to remove deleted files", "err", err)
	}
	w.logger.Info("applied changes", "imported", imported, "removed", deleted)

	if imported+deleted > 0 {
		if err := w.pipeline.Schedule(); err != nil {
			w.logger.Warn("failed to schedule build", "err", err)
		}
	}
	if w.onFlush != nil {
		w.onFlush(imported, deleted)
	}
}
