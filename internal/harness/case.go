// Package harness implements characterization cases: select an operation and an input
// partition, build a fresh fixture, invoke the operation and verify the observed outcome.
package harness

import (
	"errors"
	"fmt"
	"time"

	"ctp/internal/domain"
)

// DefaultTimeout bounds a case that does not set its own timeout
const DefaultTimeout = 4 * time.Second

// Case is one characterization check of one operation with one input partition
type Case struct {
	Suite     string
	Name      string
	Partition domain.Partition

	// Fixture builds the object the operation is invoked on. It runs once per attempt,
	// so fixtures are never shared between attempts or cases. Optional.
	Fixture func() (any, error)

	// Invoke calls the operation under test with the fixture built for this attempt
	Invoke func(fixture any) (any, error)

	Expect Outcome

	// Repeat runs the case this many times; every attempt must match. Zero means once.
	Repeat int

	// Timeout bounds all attempts together. Zero means DefaultTimeout.
	Timeout time.Duration

	// Source is the case file the case came from, empty for built-in cases
	Source string
}

// ID returns the case identifier, unique within a registry
func (c Case) ID() string {
	return c.Suite + "/" + c.Name
}

// Validate checks the case is runnable
func (c Case) Validate() error {
	switch {
	case c.Suite == "":
		return errors.New("case has no suite")
	case c.Name == "":
		return fmt.Errorf("case in suite %s has no name", c.Suite)
	case c.Invoke == nil:
		return fmt.Errorf("case %s has no operation", c.ID())
	case c.Expect == nil:
		return fmt.Errorf("case %s has no expected outcome", c.ID())
	case c.Repeat < 0:
		return fmt.Errorf("case %s has negative repeat %d", c.ID(), c.Repeat)
	}
	return nil
}

func (c Case) attempts() int {
	if c.Repeat <= 0 {
		return 1
	}
	return c.Repeat
}

func (c Case) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Fresh adapts a typed fixture constructor
func Fresh[F any](build func() F) func() (any, error) {
	return func() (any, error) {
		return build(), nil
	}
}

// FreshErr adapts a typed fixture constructor that can fail
func FreshErr[F any](build func() (F, error)) func() (any, error) {
	return func() (any, error) {
		return build()
	}
}

// Call adapts an operation that takes no fixture
func Call[R any](op func() (R, error)) func(any) (any, error) {
	return func(any) (any, error) {
		return op()
	}
}

// CallValue adapts an operation that takes no fixture and cannot fail
func CallValue[R any](op func() R) func(any) (any, error) {
	return func(any) (any, error) {
		return op(), nil
	}
}

// CallErr adapts an operation that only reports an error
func CallErr(op func() error) func(any) (any, error) {
	return func(any) (any, error) {
		return nil, op()
	}
}

// On adapts an operation invoked on a typed fixture
func On[F, R any](op func(fixture F) (R, error)) func(any) (any, error) {
	return func(fixture any) (any, error) {
		f, ok := fixture.(F)
		if !ok {
			var zero F
			return nil, fmt.Errorf("fixture is %T, operation wants %T", fixture, zero)
		}
		return op(f)
	}
}

// OnValue adapts an operation invoked on a typed fixture that cannot fail
func OnValue[F, R any](op func(fixture F) R) func(any) (any, error) {
	return On(func(f F) (R, error) {
		return op(f), nil
	})
}

// Typed builds a case over a typed fixture constructor and a typed operation
func Typed[F, R any](suite, name string, partition domain.Partition, build func() F, op func(F) (R, error), expect Outcome) Case {
	return Case{
		Suite:     suite,
		Name:      name,
		Partition: partition,
		Fixture:   Fresh(build),
		Invoke:    On(op),
		Expect:    expect,
	}
}
