package runner

import (
	"fmt"
	"sync"
)

// ErrRunNotFound is returned when a run id is not registered.
var ErrRunNotFound = fmt.Errorf("run not found")

// Registry is an insert-only, concurrency-safe index of run runtimes. Runs
// are never evicted; a terminal run stays queryable for its lifetime.
type Registry struct {
	mu   sync.RWMutex
	runs map[string]*RunRuntime
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runs: map[string]*RunRuntime{}}
}

// Add registers a runtime under its id. Duplicate ids are an error.
func (r *Registry) Add(rt *RunRuntime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[rt.ID()]; ok {
		return fmt.Errorf("run %q already registered", rt.ID())
	}
	r.runs[rt.ID()] = rt
	return nil
}

// Get returns the runtime for the id or ErrRunNotFound.
func (r *Registry) Get(id string) (*RunRuntime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return rt, nil
}

// Len reports the number of registered runs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}

// Running counts runs that have not reached a terminal status.
func (r *Registry) Running() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rt := range r.runs {
		if !rt.Terminal() {
			n++
		}
	}
	return n
}
