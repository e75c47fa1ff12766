package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher pushes staleness invalidation the moment a source file under a
// watched root changes, rather than waiting for the next time-gated scan
// (§4.1's gate becomes a fallback instead of the only mechanism). It is the
// rebuild, on a real dependency, of the teacher's
// mcpbridge/watcher/watcher.go, which wraps gopls's internal filewatcher
// package — unavailable here since we don't vendor gopls (SPEC_FULL.md §0).
type Watcher struct {
	fw *fsnotify.Watcher

	mu    sync.Mutex
	roots map[string]func() // root -> dirty callback
}

func newWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fw: fw, roots: map[string]func(){}}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal: the time-gated scan in
			// manager.go still catches staleness on the next acquire.
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !relevant(ev.Name) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for root, cb := range w.roots {
		if strings.HasPrefix(ev.Name, root) {
			cb()
		}
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.fw.Add(ev.Name)
		}
	}
}

func relevant(name string) bool {
	return strings.HasSuffix(name, ".go") || strings.HasSuffix(name, ".mod") || strings.HasSuffix(name, ".sum")
}

// Watch registers root for dirty notifications, recursively adding every
// subdirectory (fsnotify has no recursive mode).
func (w *Watcher) Watch(root string, onDirty func()) error {
	w.mu.Lock()
	w.roots[root] = onDirty
	w.mu.Unlock()

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: a permission error here falls back to the time-gated scan
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != "." && (strings.HasPrefix(name, ".") || name == "testdata" || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

// Unwatch removes root's dirty callback. It does not remove the underlying
// fsnotify directory watches, which are cheap to leave in place and will be
// reused if the same root is acquired again.
func (w *Watcher) Unwatch(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.roots, root)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
