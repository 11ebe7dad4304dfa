package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stretchr/testify/assert"
)

// Observation is everything captured from one fixture build and invocation
type Observation struct {
	Fixture any
	Value   any
	Err     error
	Panic   *PanicValue
}

// PanicValue is a panic recovered from the operation under test
type PanicValue struct {
	Value any
	Stack string
}

// Message returns the panic value rendered as text
func (p *PanicValue) Message() string {
	if err, ok := p.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(p.Value)
}

// Outcome describes what a case expects to observe.
// Match returns nil when the observation satisfies the outcome and a *MismatchError otherwise.
type Outcome interface {
	Match(obs Observation) error
	String() string
}

// MismatchError names the expected and the observed outcome
type MismatchError struct {
	Expected string
	Actual   string
	Reason   string
}

func (e *MismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("expected %s, got %s (%s)", e.Expected, e.Actual, e.Reason)
	}
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func mismatch(o Outcome, obs Observation, reason string) error {
	return &MismatchError{Expected: o.String(), Actual: Describe(obs), Reason: reason}
}

// Describe renders an observation in the same vocabulary outcomes use
func Describe(obs Observation) string {
	switch {
	case obs.Panic != nil:
		return fmt.Sprintf("panic %s %q", ClassifyPanic(obs.Panic.Value), obs.Panic.Message())
	case obs.Err != nil:
		return fmt.Sprintf("error %s %q", Classify(obs.Err), obs.Err.Error())
	default:
		return "value " + short(obs.Value)
	}
}

func short(v any) string {
	if v == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("%#v", v)
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}

// Returns expects the operation to return want, compared with ObjectsAreEqual semantics
func Returns(want any) Outcome {
	return valueOutcome{want: want}
}

type valueOutcome struct {
	want any
}

func (o valueOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err != nil {
		return mismatch(o, obs, "")
	}
	if !assert.ObjectsAreEqual(o.want, obs.Value) {
		return mismatch(o, obs, "values differ")
	}
	return nil
}

func (o valueOutcome) String() string {
	return "value " + short(o.want)
}

// Renders expects the returned value to print as text with fmt.Sprint.
// Case files use it because decoded literals rarely share the operation's concrete type.
func Renders(text string) Outcome {
	return rendersOutcome{text: text}
}

type rendersOutcome struct {
	text string
}

func (o rendersOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err != nil {
		return mismatch(o, obs, "")
	}
	if got := fmt.Sprint(obs.Value); got != o.text {
		return mismatch(o, obs, fmt.Sprintf("prints as %q", got))
	}
	return nil
}

func (o rendersOutcome) String() string {
	return fmt.Sprintf("value printing as %q", o.text)
}

// Succeeds expects the operation to return without error or panic, whatever the value
func Succeeds() Outcome {
	return succeedsOutcome{}
}

type succeedsOutcome struct{}

func (o succeedsOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err != nil {
		return mismatch(o, obs, "")
	}
	return nil
}

func (o succeedsOutcome) String() string {
	return "success"
}

// ReturnsSame expects the returned reference to be identical to the fixture
func ReturnsSame() Outcome {
	return sameOutcome{}
}

type sameOutcome struct{}

func (o sameOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err != nil {
		return mismatch(o, obs, "")
	}
	if !Identical(obs.Fixture, obs.Value) {
		return mismatch(o, obs, "result is not the fixture instance")
	}
	return nil
}

func (o sameOutcome) String() string {
	return "the fixture instance"
}

// Identical reports whether a and b refer to the same instance.
// Slices are identical when they share the backing array start and length.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	return false
}

// Satisfies expects the returned value to satisfy pred
func Satisfies(desc string, pred func(v any) bool) Outcome {
	return predicateOutcome{desc: desc, pred: pred}
}

// Check is the typed form of Satisfies
func Check[R any](desc string, pred func(v R) bool) Outcome {
	return predicateOutcome{desc: desc, pred: func(v any) bool {
		r, ok := v.(R)
		return ok && pred(r)
	}}
}

type predicateOutcome struct {
	desc string
	pred func(any) bool
}

func (o predicateOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err != nil {
		return mismatch(o, obs, "")
	}
	if !o.pred(obs.Value) {
		return mismatch(o, obs, "predicate not satisfied")
	}
	return nil
}

func (o predicateOutcome) String() string {
	return "value where " + o.desc
}

// Fails expects a returned error of the given kind whose message contains fragment
func Fails(kind Kind, fragment string) Outcome {
	return errorOutcome{kind: kind, fragment: fragment}
}

type errorOutcome struct {
	kind     Kind
	fragment string
}

func (o errorOutcome) Match(obs Observation) error {
	if obs.Panic != nil || obs.Err == nil {
		return mismatch(o, obs, "")
	}
	if observed := Classify(obs.Err); !o.kind.Matches(observed) {
		return mismatch(o, obs, "kind differs")
	}
	if !strings.Contains(obs.Err.Error(), o.fragment) {
		return mismatch(o, obs, "message differs")
	}
	return nil
}

func (o errorOutcome) String() string {
	if o.fragment == "" {
		return "error " + o.kind.String()
	}
	return fmt.Sprintf("error %s containing %q", o.kind, o.fragment)
}

// Panics expects a panic of the given kind whose message contains fragment
func Panics(kind Kind, fragment string) Outcome {
	return panicOutcome{kind: kind, fragment: fragment}
}

type panicOutcome struct {
	kind     Kind
	fragment string
}

func (o panicOutcome) Match(obs Observation) error {
	if obs.Panic == nil {
		return mismatch(o, obs, "")
	}
	if observed := ClassifyPanic(obs.Panic.Value); !o.kind.Matches(observed) {
		return mismatch(o, obs, "kind differs")
	}
	if !strings.Contains(obs.Panic.Message(), o.fragment) {
		return mismatch(o, obs, "message differs")
	}
	return nil
}

func (o panicOutcome) String() string {
	if o.fragment == "" {
		return "panic " + o.kind.String()
	}
	return fmt.Sprintf("panic %s containing %q", o.kind, o.fragment)
}

// All expects every outcome to match
func All(outcomes ...Outcome) Outcome {
	return allOutcome(outcomes)
}

type allOutcome []Outcome

func (o allOutcome) Match(obs Observation) error {
	for _, part := range o {
		if err := part.Match(obs); err != nil {
			return err
		}
	}
	return nil
}

func (o allOutcome) String() string {
	parts := make([]string, len(o))
	for i, part := range o {
		parts[i] = part.String()
	}
	return strings.Join(parts, " and ")
}
