package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"stubconv/internal/errs"
	"stubconv/internal/logger"
)

// ChangeCallback runs after a debounced batch of source changes.
type ChangeCallback func(ctx context.Context, changed []string)

// Watcher reports changes to stub files below a root directory.
type Watcher struct {
	root           string
	walker         *Walker
	watcher        *fsnotify.Watcher
	debouncePeriod time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
}

// NewWatcher watches root and every non-excluded directory below it.
func NewWatcher(root string, walker *Walker, debounce time.Duration) (*Watcher, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		root:           root,
		walker:         walker,
		watcher:        fw,
		debouncePeriod: debounce,
		pending:        make(map[string]struct{}),
	}
	if err := w.addDirs(); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDirs() error {
	return w.addTree(w.root, nil)
}

// addTree watches dir and every non-excluded directory below it. Matching
// files found on the way are passed to found.
func (w *Watcher) addTree(dir string, found func(path string)) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !info.IsDir() {
			if found != nil && w.walker.Matches(rel) {
				found(path)
			}
			return nil
		}
		if rel != "." && w.walker.shouldExclude(rel+"/") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errs.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange once per debounced batch.
func (w *Watcher) Run(ctx context.Context, onChange ChangeCallback) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.isDir(event.Name) {
				w.addCreatedDir(ctx, event.Name, onChange)
				continue
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debugw("Stub file changed", "file", event.Name, "op", event.Op.String())
			w.schedule(ctx, event.Name, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addCreatedDir starts watching a directory created after startup. Files
// written into it before the watch was in place are reported as changed.
func (w *Watcher) addCreatedDir(ctx context.Context, dir string, onChange ChangeCallback) {
	err := w.addTree(dir, func(path string) {
		w.schedule(ctx, path, onChange)
	})
	if err != nil {
		logger.Warnw("Failed to watch new directory", "dir", dir, "error", err)
		return
	}
	logger.Debugw("Watching new directory", "dir", dir)
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	return w.walker.Matches(filepath.ToSlash(rel))
}

// schedule debounces rapid saves into a single callback.
func (w *Watcher) schedule(ctx context.Context, path string, onChange ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debouncePeriod, func() {
		w.mu.Lock()
		changed := make([]string, 0, len(w.pending))
		for p := range w.pending {
			changed = append(changed, p)
		}
		w.pending = make(map[string]struct{})
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		onChange(ctx, changed)
	})
}
