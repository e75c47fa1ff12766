// Package workspace is C2, the workspace manager: it owns SolutionHandle
// lifetime, serializes cache mutations behind a single mutex, and detects
// on-disk staleness (§4.1).
package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codelens-dev/codelens-mcp/internal/core"
	"github.com/codelens-dev/codelens-mcp/internal/semantic"
)

// StaleWindow is the fixed time-gate window (§4.1): a fresh entry whose
// last staleness-check is within this window is considered fresh without a
// filesystem scan.
const StaleWindow = 5 * time.Second

// PostAction runs under Apply's exclusive grant, before the handle is
// evicted — the refactor handlers use it to write their changed files and,
// for rename (§4.5.1 step 6), to move a file on disk.
type PostAction func() error

type entry struct {
	sol     *semantic.Solution
	dirty   bool // set by an fsnotify callback (internal/workspace/watch.go)
}

// Manager is the single process-wide workspace cache (§3.2: at most one
// SolutionHandle per normalized solution path).
type Manager struct {
	mu      sync.Mutex
	byRoot  map[string]*entry
	watcher *Watcher // optional, nil when fsnotify could not be established
}

// NewManager constructs an empty cache. The fsnotify watcher is created on
// the first Acquire; if it cannot be created, staleness falls back to the
// pure time-gated filesystem scan (§2 DOMAIN STACK).
func NewManager() *Manager {
	return &Manager{byRoot: map[string]*entry{}}
}

// Acquire implements the spec's acquire(path) → SolutionHandle (§4.1).
func (m *Manager) Acquire(ctx context.Context, root string) (*semantic.Solution, *core.Error) {
	norm, err := core.NormalizePath(root, root)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.byRoot[norm]; ok {
		if m.isFresh(e) {
			return e.sol, nil
		}
	}
	sol, lerr := semantic.Load(ctx, norm)
	if lerr != nil {
		return nil, lerr
	}
	sol.LastStaleScan = time.Now()
	sol.LoadedAt = sol.LastStaleScan
	e := &entry{sol: sol}
	m.byRoot[norm] = e

	if m.watcher == nil {
		if w, werr := newWatcher(); werr == nil {
			m.watcher = w
		}
	}
	if m.watcher != nil {
		root := norm
		_ = m.watcher.Watch(root, func() { m.markDirty(root) })
	}
	return sol, nil
}

func (m *Manager) markDirty(root string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byRoot[root]; ok {
		e.dirty = true
	}
}

// isFresh must be called with m.mu held.
func (m *Manager) isFresh(e *entry) bool {
	if e.dirty {
		return false
	}
	if time.Since(e.sol.LastStaleScan) < StaleWindow {
		return true
	}
	stale, err := scanForNewer(e.sol)
	e.sol.LastStaleScan = time.Now()
	if err != nil {
		// Conservative: scan errors force a reload (§4.1).
		return false
	}
	return !stale
}

// scanForNewer walks every source file under sol.Root and compares mtimes
// against the handle's load timestamp.
func scanForNewer(sol *semantic.Solution) (stale bool, err error) {
	err = filepath.WalkDir(sol.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && (strings.HasPrefix(name, ".") || name == "testdata" || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, ".mod") && !strings.HasSuffix(path, ".sum") {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return ierr
		}
		if info.ModTime().After(sol.LoadedAt) {
			stale = true
		}
		return nil
	})
	return stale, err
}

// Compilation implements compilation(path, projectName?) → Compilation
// (§4.1) — here, a *semantic.Project, since the Go analogue of a
// "compilation" is a single type-checked package.
func (m *Manager) Compilation(ctx context.Context, root, projectName string) (*semantic.Solution, *semantic.Project, *core.Error) {
	sol, err := m.Acquire(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	proj, err := sol.LookupProject(projectName)
	if err != nil {
		return nil, nil, err
	}
	return sol, proj, nil
}

// Project implements project(path, projectName) → Project (§4.1).
func (m *Manager) Project(ctx context.Context, root, projectName string) (*semantic.Project, *core.Error) {
	_, proj, err := m.Compilation(ctx, root, projectName)
	return proj, err
}

// Apply implements apply(path, newSolution, postAction?) (§4.1): run
// postAction under the exclusive window, then evict so the next read
// reloads from disk. No new solution is published here.
func (m *Manager) Apply(ctx context.Context, root string, postAction PostAction) *core.Error {
	norm, nerr := core.NormalizePath(root, root)
	if nerr != nil {
		return nerr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if postAction != nil {
		if err := postAction(); err != nil {
			return core.Wrap(core.ConflictFailed, "workspace.Apply", err, "post-apply action failed")
		}
	}
	delete(m.byRoot, norm)
	if m.watcher != nil {
		m.watcher.Unwatch(norm)
	}
	return nil
}

// Invalidate implements invalidate(path) (§4.1): dispose and evict.
func (m *Manager) Invalidate(root string) *core.Error {
	norm, err := core.NormalizePath(root, root)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byRoot, norm)
	if m.watcher != nil {
		m.watcher.Unwatch(norm)
	}
	return nil
}

// Close releases the watcher, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
