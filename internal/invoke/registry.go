package invoke

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Func is an invocable implementation. The returned value must be JSON
// serializable.
type Func func(ctx context.Context, args Args) (any, error)

// Registry maps implementation ids to their functions.
type Registry struct {
	mu    sync.RWMutex
	impls map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]Func)}
}

// Default is filled by the init functions of implementation packages.
var Default = NewRegistry()

// Register adds fn under id.
func (r *Registry) Register(id string, fn Func) error {
	if id == "" {
		return fmt.Errorf("register implementation: empty id")
	}
	if fn == nil {
		return fmt.Errorf("register implementation %q: nil func", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.impls[id]; exists {
		return fmt.Errorf("register implementation %q: already registered", id)
	}
	r.impls[id] = fn
	return nil
}

// MustRegister is Register that panics on error, for use from init.
func (r *Registry) MustRegister(id string, fn Func) {
	if err := r.Register(id, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under id.
func (r *Registry) Lookup(id string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.impls[id]
	return fn, ok
}

// IDs returns the registered ids sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.impls))
	for id := range r.impls {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register adds fn to the Default registry.
func Register(id string, fn Func) {
	Default.MustRegister(id, fn)
}
