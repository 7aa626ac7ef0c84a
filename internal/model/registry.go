package model

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

const (
	DefaultID = "minicpm-2.5"
	Int4ID    = "minicpm-2.5-int4"
)

// DefaultPaths returns the stock identifier to path mapping rooted at dir.
func DefaultPaths(dir string) map[string]string {
	return map[string]string{
		DefaultID: filepath.Join(dir, "MiniCPM-Llama3-V-2_5"),
		Int4ID:    filepath.Join(dir, "MiniCPM-Llama3-V-2_5-int4"),
	}
}

// Registry holds at most one loaded model. Requests for the loaded model share
// it; a request for a different model waits until every lease on the current
// one is released, closes it and loads the replacement.
type Registry struct {
	paths  map[string]string
	loader Loader
	logger *slog.Logger

	mu       sync.Mutex
	changed  chan struct{}
	active   Model
	activeID string
	leases   int
	swapping bool
	pending  int
	closed   bool
}

func NewRegistry(paths map[string]string, loader Loader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	p := make(map[string]string, len(paths))
	for id, path := range paths {
		p[id] = path
	}
	return &Registry{
		paths:   p,
		loader:  loader,
		logger:  logger,
		changed: make(chan struct{}),
	}
}

// Handle is a lease on the loaded model. Release must be called once the
// caller is done with it.
type Handle struct {
	id    string
	model Model
	once  sync.Once
	r     *Registry
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Model() Model {
	return h.model
}

func (h *Handle) Release() {
	h.once.Do(func() {
		h.r.mu.Lock()
		h.r.leases--
		h.r.notifyLocked()
		h.r.mu.Unlock()
	})
}

func (r *Registry) Known() []string {
	ids := make([]string, 0, len(r.paths))
	for id := range r.paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Path(id string) (string, bool) {
	p, ok := r.paths[id]
	return p, ok
}

func (r *Registry) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID, r.active != nil
}

// EnsureLoaded returns a lease on the model named id, loading it first if a
// different model (or none) is active.
func (r *Registry) EnsureLoaded(ctx context.Context, id string) (*Handle, error) {
	path, ok := r.paths[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownModel, id)
	}

	r.mu.Lock()
	for {
		if r.closed {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: registry closed", shared.ErrModelUnavailable)
		}
		matches := r.active != nil && r.activeID == id
		if matches && !r.swapping && r.pending == 0 {
			r.leases++
			r.mu.Unlock()
			return &Handle{id: id, model: r.active, r: r}, nil
		}
		if !matches && !r.swapping && r.leases == 0 {
			break
		}

		// Swap requests queue ahead of new leases on the current model.
		if !matches {
			r.pending++
		}
		ch := r.changed
		r.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			r.mu.Lock()
			if !matches {
				r.pending--
				r.notifyLocked()
			}
			r.mu.Unlock()
			return nil, ctx.Err()
		}
		r.mu.Lock()
		if !matches {
			r.pending--
			// Same-model waiters held back by the queue must re-check.
			if r.pending == 0 {
				r.notifyLocked()
			}
		}
	}

	r.swapping = true
	old, oldID := r.active, r.activeID
	r.active, r.activeID = nil, ""
	r.mu.Unlock()

	if old != nil {
		r.logger.Info("releasing model", "model", oldID)
		if err := old.Close(); err != nil {
			r.logger.Warn("release model failed", "model", oldID, "error", err)
		}
	}

	r.logger.Info("loading model", "model", id, "path", path)
	m, err := r.loader.Load(ctx, path)

	r.mu.Lock()
	r.swapping = false
	r.notifyLocked()
	if err != nil {
		r.mu.Unlock()
		r.logger.Error("load model failed", "model", id, "error", err)
		return nil, fmt.Errorf("%w: load %s: %v", shared.ErrModelUnavailable, id, err)
	}
	if r.closed {
		r.mu.Unlock()
		r.logger.Info("registry closed during load, releasing model", "model", id)
		if cerr := m.Close(); cerr != nil {
			r.logger.Warn("release model failed", "model", id, "error", cerr)
		}
		return nil, fmt.Errorf("%w: registry closed", shared.ErrModelUnavailable)
	}
	r.active, r.activeID = m, id
	r.leases++
	r.mu.Unlock()
	return &Handle{id: id, model: m, r: r}, nil
}

// Close releases the active model and refuses further loads. A load still in
// flight releases its model when it completes. Callers must ensure no leases
// are outstanding.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.notifyLocked()
	if r.active == nil {
		return nil
	}
	err := r.active.Close()
	r.active, r.activeID = nil, ""
	r.notifyLocked()
	return err
}

func (r *Registry) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}
