// Package watcher ingests documents dropped into watched directories, with
// fsnotify events debounced so half-written files are not indexed.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches directory roots and invokes callbacks for file changes.
type Watcher struct {
	onIngest func(path string)
	onRemove func(path string)
	debounce time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	roots      []string
	extensions []string
	recursive  bool
	fsw        *fsnotify.Watcher
	pending    map[string]*time.Timer
	watched    map[string][]string // root -> directories registered with fsnotify
	started    bool

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for watch events.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher over roots. Files matching extensions (empty = all)
// trigger onIngest after debouncing; deletions trigger onRemove.
func New(roots, extensions []string, recursive bool, onIngest, onRemove func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		onIngest:   onIngest,
		onRemove:   onRemove,
		debounce:   defaultDebounce,
		logger:     zap.NewNop(),
		roots:      roots,
		extensions: extensions,
		recursive:  recursive,
		pending:    make(map[string]*time.Timer),
		watched:    make(map[string][]string),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers all roots and begins processing events until ctx is
// cancelled or Stop is called. Missing roots are created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.fsw = fsw
	w.started = true
	for _, root := range w.roots {
		if err := w.watchRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()

	w.logger.Info("watcher started",
		zap.Strings("roots", w.Directories()),
		zap.Strings("extensions", w.extensions),
		zap.Bool("recursive", w.recursive))
	go w.loop(ctx, fsw)
	return nil
}

// loop uses the captured fsnotify watcher: Stop nils w.fsw, but closing it
// just closes these channels.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.watchNewDirectory(path)
			return
		}
		if w.matches(path) {
			w.scheduleIngest(path)
		}
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.cancelPending(path)
		if w.matches(path) && w.onRemove != nil {
			w.onRemove(path)
		}
	}
}

// watchNewDirectory registers a directory created inside a watched root and
// ingests any files that arrived with it.
func (w *Watcher) watchNewDirectory(dir string) {
	w.mu.Lock()
	fsw, recursive := w.fsw, w.recursive
	w.mu.Unlock()
	if fsw == nil || !recursive {
		return
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				w.logger.Debug("failed to watch directory", zap.String("path", path), zap.Error(err))
			}
		} else if w.matches(path) {
			w.scheduleIngest(path)
		}
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	w.mu.Lock()
	exts := w.extensions
	w.mu.Unlock()
	return matchExtension(path, exts)
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// scheduleIngest resets the debounce timer for path so rapid successive
// writes produce a single ingest.
func (w *Watcher) scheduleIngest(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Debug("ingesting file", zap.String("path", path))
		if w.onIngest != nil {
			w.onIngest(path)
		}
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) watchRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var dirs []string
	if w.recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.fsw.Add(path); err != nil {
				return err
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		dirs = append(dirs, root)
	}
	w.watched[root] = dirs
	return nil
}

// AddDirectory adds a new root at runtime, optionally ingesting files already
// present.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return nil
	}
	for _, r := range w.roots {
		if filepath.Clean(r) == filepath.Clean(abs) {
			w.mu.Unlock()
			return nil
		}
	}
	if err := w.watchRootLocked(abs); err != nil {
		w.mu.Unlock()
		return err
	}
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	if syncExisting {
		go w.syncRoot(abs)
	}
	return nil
}

// RemoveDirectory stops watching root. Indexed documents are not removed.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	idx := -1
	for i, r := range w.roots {
		if filepath.Clean(r) == abs {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for _, dir := range w.watched[abs] {
		_ = w.fsw.Remove(dir)
	}
	delete(w.watched, abs)
	w.roots = append(w.roots[:idx], w.roots[idx+1:]...)
	return nil
}

// Directories returns the currently watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// SyncExistingFiles ingests every matching file already present under the
// watched roots. Call after Start to pick up files that predate the watcher.
func (w *Watcher) SyncExistingFiles() {
	for _, root := range w.Directories() {
		w.syncRoot(root)
	}
}

func (w *Watcher) syncRoot(root string) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if w.matches(path) && w.onIngest != nil {
			w.onIngest(path)
		}
		return nil
	})
}

// Stop stops event processing and releases the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.fsw == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fsw.Close()
	w.fsw = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
