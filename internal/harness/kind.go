package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Kind is a stable category for an error or panic observed from an operation under test.
// Cases assert on the Kind rather than on concrete error types so that expectations stay
// readable and survive changes to how a library wraps its errors.
type Kind string

const (
	KindAny             Kind = ""
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindOutOfRange      Kind = "OUT_OF_RANGE"
	KindSyntax          Kind = "SYNTAX"
	KindEOF             Kind = "EOF"
	KindNotFound        Kind = "NOT_FOUND"
	KindIO              Kind = "IO"
	KindNilDereference  Kind = "NIL_DEREFERENCE"
	KindArithmetic      Kind = "ARITHMETIC"
	KindTimeout         Kind = "TIMEOUT"
	KindUnknown         Kind = "UNKNOWN"
)

var kinds = []Kind{
	KindInvalidArgument,
	KindOutOfRange,
	KindSyntax,
	KindEOF,
	KindNotFound,
	KindIO,
	KindNilDereference,
	KindArithmetic,
	KindTimeout,
	KindUnknown,
}

// ParseKind converts a case file value into a Kind. The empty string and "any" yield KindAny.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if k == "" || k == "ANY" {
		return KindAny, nil
	}
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown error kind %q", s)
}

// Matches reports whether an observed kind satisfies the expected one
func (k Kind) Matches(observed Kind) bool {
	return k == KindAny || k == observed
}

func (k Kind) String() string {
	if k == KindAny {
		return "ANY"
	}
	return string(k)
}

// Rule maps an error to a Kind. ok reports whether the rule recognised the error.
type Rule func(err error) (kind Kind, ok bool)

var (
	rulesMu    sync.RWMutex
	extraRules []Rule
)

// RegisterRule adds a library specific classification rule.
// Registered rules are consulted in registration order, after the EOF and timeout
// sentinels and before the remaining built-in rules.
func RegisterRule(r Rule) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	extraRules = append(extraRules, r)
}

// SentinelRule classifies any error wrapping one of the targets as kind
func SentinelRule(kind Kind, targets ...error) Rule {
	return func(err error) (Kind, bool) {
		for _, target := range targets {
			if errors.Is(err, target) {
				return kind, true
			}
		}
		return "", false
	}
}

// PrefixRule classifies errors whose message starts with prefix as kind
func PrefixRule(kind Kind, prefix string) Rule {
	return func(err error) (Kind, bool) {
		if strings.HasPrefix(err.Error(), prefix) {
			return kind, true
		}
		return "", false
	}
}

// sentinelRules win over registered rules: a library error wrapping EOF or a deadline
// keeps that kind whatever its outer type.
var sentinelRules = []Rule{
	SentinelRule(KindEOF, io.EOF, io.ErrUnexpectedEOF),
	SentinelRule(KindTimeout, context.DeadlineExceeded, os.ErrDeadlineExceeded),
}

var builtinRules = []Rule{
	SentinelRule(KindOutOfRange, strconv.ErrRange),
	SentinelRule(KindSyntax, strconv.ErrSyntax),
	SentinelRule(KindNotFound, fs.ErrNotExist),
	SentinelRule(KindInvalidArgument, fs.ErrInvalid),
	func(err error) (Kind, bool) {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return KindSyntax, true
		}
		return "", false
	},
	func(err error) (Kind, bool) {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return KindIO, true
		}
		return "", false
	},
}

// Classify maps an error to its Kind. A nil error has no kind.
func Classify(err error) Kind {
	if err == nil {
		return KindAny
	}

	rulesMu.RLock()
	registered := extraRules
	rulesMu.RUnlock()

	for _, rules := range [][]Rule{sentinelRules, registered, builtinRules} {
		for _, rule := range rules {
			if kind, ok := rule(err); ok {
				return kind
			}
		}
	}
	return KindUnknown
}

// ClassifyPanic maps a recovered panic value to its Kind
func ClassifyPanic(v any) Kind {
	if rtErr, ok := v.(runtime.Error); ok {
		msg := rtErr.Error()
		switch {
		case strings.Contains(msg, "index out of range"),
			strings.Contains(msg, "slice bounds out of range"):
			return KindOutOfRange
		case strings.Contains(msg, "nil pointer dereference"),
			strings.Contains(msg, "nil map"):
			return KindNilDereference
		case strings.Contains(msg, "divide by zero"):
			return KindArithmetic
		}
		return KindUnknown
	}
	switch p := v.(type) {
	case error:
		return Classify(p)
	case string:
		// Libraries that panic with a formatted message are classified by its text
		return Classify(errors.New(p))
	}
	return KindUnknown
}
