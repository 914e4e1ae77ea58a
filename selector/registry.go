package selector

import (
	"slices"
	"sync"
)

// Registry maps target names to frozen models. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*TargetModel
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*TargetModel)}
}

// Register stores m under its target, replacing any earlier model.
func (r *Registry) Register(m *TargetModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Target()] = m
}

// Get returns the model for target.
func (r *Registry) Get(target string) (*TargetModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[target]
	return m, ok
}

// Targets returns the registered targets in sorted order.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.models))
	for t := range r.models {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
