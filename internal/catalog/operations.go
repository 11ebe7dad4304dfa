package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// ErrArgument reports case file arguments an operation cannot accept
var ErrArgument = errors.New("bad operation argument")

// Invocation calls the library under test with arguments already converted
type Invocation func() (any, error)

// Operation is a named operation that case files can invoke.
// Bind converts the decoded YAML arguments of one attempt; it must not call the library,
// so a badly typed argument fails the case instead of passing as an observed error.
type Operation struct {
	Name  string
	Arity int
	Bind  func(args []any) (Invocation, error)
}

var (
	opsMu      sync.RWMutex
	operations = make(map[string]Operation)
)

// RegisterOperation makes an operation available to case files. Re-registering a name fails.
func RegisterOperation(op Operation) error {
	if op.Name == "" || op.Bind == nil {
		return fmt.Errorf("operation %q is incomplete", op.Name)
	}
	opsMu.Lock()
	defer opsMu.Unlock()
	if _, ok := operations[op.Name]; ok {
		return fmt.Errorf("operation %s already registered", op.Name)
	}
	operations[op.Name] = op
	return nil
}

// LookupOperation returns the operation registered under name
func LookupOperation(name string) (Operation, bool) {
	opsMu.RLock()
	defer opsMu.RUnlock()
	op, ok := operations[name]
	return op, ok
}

// OperationNames returns the sorted names of every registered operation
func OperationNames() []string {
	opsMu.RLock()
	defer opsMu.RUnlock()
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unary adapts a single argument function into an Operation
func Unary[A, R any](name string, arg func(args []any, i int) (A, error), fn func(A) (R, error)) Operation {
	return Operation{
		Name:  name,
		Arity: 1,
		Bind: func(args []any) (Invocation, error) {
			a, err := arg(args, 0)
			if err != nil {
				return nil, err
			}
			return func() (any, error) { return fn(a) }, nil
		},
	}
}

// StringArg returns argument i as a string. A YAML null is the empty string.
func StringArg(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: missing argument %d", ErrArgument, i)
	}
	switch v := args[i].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	return "", fmt.Errorf("%w: argument %d is %T, want string", ErrArgument, i, args[i])
}

// BytesArg returns argument i as bytes. A YAML null is a nil slice.
func BytesArg(args []any, i int) ([]byte, error) {
	if i < len(args) && args[i] == nil {
		return nil, nil
	}
	s, err := StringArg(args, i)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// IntArg returns argument i as an int64. Integral floats are accepted.
func IntArg(args []any, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrArgument, i)
	}
	switch v := args[i].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: argument %d overflows int64", ErrArgument, i)
		}
		return int64(v), nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("%w: argument %d is %T, want integer", ErrArgument, i, args[i])
}

// FloatArg returns argument i as a float64
func FloatArg(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrArgument, i)
	}
	switch v := args[i].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("%w: argument %d is %T, want number", ErrArgument, i, args[i])
}
