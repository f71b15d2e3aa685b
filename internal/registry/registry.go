// Package registry holds named test cases in registration order.
package registry

import (
	"errors"
	"iter"
	"sync"

	"caserun/internal/domain"
)

// Registry stores test cases in insertion order
type Registry struct {
	mu    sync.RWMutex
	cases []domain.TestCase
	index map[string]struct{}
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Register adds a case under a unique name. A duplicate name returns a
// *domain.DuplicateNameError and leaves the registry unchanged.
func (r *Registry) Register(name string, body domain.Body) error {
	if name == "" {
		return errors.New("test case name must not be empty")
	}
	if body == nil {
		return errors.New("test case body must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[name]; ok {
		return &domain.DuplicateNameError{Name: name}
	}
	r.index[name] = struct{}{}
	r.cases = append(r.cases, domain.TestCase{Name: name, Body: body})
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(name string, body domain.Body) {
	if err := r.Register(name, body); err != nil {
		panic(err)
	}
}

// All returns the registered cases in insertion order. The sequence is lazy
// and can be iterated any number of times.
func (r *Registry) All() iter.Seq[domain.TestCase] {
	return func(yield func(domain.TestCase) bool) {
		for i := 0; ; i++ {
			r.mu.RLock()
			if i >= len(r.cases) {
				r.mu.RUnlock()
				return
			}
			tc := r.cases[i]
			r.mu.RUnlock()

			if !yield(tc) {
				return
			}
		}
	}
}

// Len returns the number of registered cases
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases)
}

// Names returns the registered case names in insertion order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.cases))
	for i, tc := range r.cases {
		names[i] = tc.Name
	}
	return names
}
