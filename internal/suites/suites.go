// Package suites holds the built-in characterization suites. Each suite characterizes one
// library at its input partitions and contributes error classification rules and
// operations that case files can call.
package suites

import (
	"fmt"
	"sort"
	"sync"

	"ctp/internal/catalog"
	"ctp/internal/harness"
)

// Suite is a named group of cases over one library
type Suite struct {
	Name       string
	Library    string
	Cases      func() []harness.Case
	Rules      []harness.Rule
	Operations []catalog.Operation
}

var (
	registered []Suite
	setupOnce  sync.Once
	setupErr   error
)

func register(s Suite) {
	registered = append(registered, s)
}

// All returns every built-in suite sorted by name
func All() []Suite {
	out := make([]Suite, len(registered))
	copy(out, registered)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Setup installs the classification rules and case file operations of every suite.
// It is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		for _, s := range All() {
			for _, rule := range s.Rules {
				harness.RegisterRule(rule)
			}
			for _, op := range s.Operations {
				if err := catalog.RegisterOperation(op); err != nil {
					setupErr = fmt.Errorf("suite %s: %w", s.Name, err)
					return
				}
			}
		}
	})
	return setupErr
}

// RegisterAll adds the cases of every built-in suite to r
func RegisterAll(r *catalog.Registry) error {
	if err := Setup(); err != nil {
		return err
	}
	for _, s := range All() {
		if err := r.Add(s.Cases()...); err != nil {
			return fmt.Errorf("suite %s: %w", s.Name, err)
		}
	}
	return nil
}
