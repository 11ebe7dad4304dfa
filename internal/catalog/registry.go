// Package catalog selects the characterization cases a run executes: built-in suites
// registered in code and declarative case files discovered on disk.
package catalog

import (
	"fmt"
	"sync"

	"ctp/internal/harness"
)

// Registry holds characterization cases by ID
type Registry struct {
	mu    sync.RWMutex
	cases []harness.Case
	index map[string]int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add validates and registers cases. Duplicate IDs are rejected.
func (r *Registry) Add(cases ...harness.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range cases {
		if err := c.Validate(); err != nil {
			return err
		}
		if prev, ok := r.index[c.ID()]; ok {
			existing := r.cases[prev]
			return fmt.Errorf("duplicate case %s (already registered from %s)", c.ID(), sourceName(existing))
		}
		r.index[c.ID()] = len(r.cases)
		r.cases = append(r.cases, c)
	}
	return nil
}

// Cases returns every registered case in registration order
func (r *Registry) Cases() []harness.Case {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]harness.Case, len(r.cases))
	copy(out, r.cases)
	return out
}

func sourceName(c harness.Case) string {
	if c.Source == "" {
		return "built-in suite"
	}
	return c.Source
}
