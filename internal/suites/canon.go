package suites

import (
	"bytes"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "canon",
		Library: "github.com/cyberphone/json-canonicalization",
		Cases:   canonCases,
		Rules: []harness.Rule{
			harness.PrefixRule(harness.KindEOF, "Unexpected EOF reached"),
			harness.PrefixRule(harness.KindSyntax, "Expected '"),
			harness.PrefixRule(harness.KindSyntax, "Improperly terminated JSON"),
			harness.PrefixRule(harness.KindSyntax, "Unexpected non-ASCII character"),
			harness.PrefixRule(harness.KindInvalidArgument, "Duplicate key"),
		},
		Operations: []catalog.Operation{
			catalog.Unary("jcs.Transform", catalog.BytesArg, func(in []byte) (string, error) {
				out, err := jsoncanonicalizer.Transform(in)
				return string(out), err
			}),
		},
	})
}

func transform(in string) func(any) (any, error) {
	return harness.Call(func() ([]byte, error) {
		return jsoncanonicalizer.Transform([]byte(in))
	})
}

func canonCases() []harness.Case {
	const suite = "canon"
	return []harness.Case{
		{
			Suite: suite, Name: "sorts-object-keys", Partition: domain.PartitionHappy,
			Invoke: transform(`{"b":1,"a":2}`),
			Expect: harness.Returns([]byte(`{"a":2,"b":1}`)),
		},
		{
			Suite: suite, Name: "strips-whitespace", Partition: domain.PartitionHappy,
			Invoke: transform("{ \"a\" : [ 1 , 2 ] }\n"),
			Expect: harness.Returns([]byte(`{"a":[1,2]}`)),
		},
		{
			Suite: suite, Name: "es6-number-formatting", Partition: domain.PartitionBoundary,
			Invoke: transform(`[1.0,1e2,-0,1e21]`),
			Expect: harness.Returns([]byte(`[1,100,0,1e+21]`)),
		},
		{
			Suite: suite, Name: "idempotent", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (bool, error) {
				once, err := jsoncanonicalizer.Transform([]byte(`{"z":{"y":[true,null],"x":"é"},"a":0.5}`))
				if err != nil {
					return false, err
				}
				twice, err := jsoncanonicalizer.Transform(once)
				if err != nil {
					return false, err
				}
				return bytes.Equal(once, twice), nil
			}),
			Expect: harness.Returns(true),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "empty-input", Partition: domain.PartitionEmpty,
			Invoke: transform(""),
			Expect: harness.Fails(harness.KindEOF, "Unexpected EOF reached"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "empty-object", Partition: domain.PartitionEmpty,
			Invoke: transform(" {} "),
			Expect: harness.Returns([]byte(`{}`)),
		},
		{
			Suite: suite, Name: "scalar-top-level", Partition: domain.PartitionMalformed,
			Invoke: transform(`"x"`),
			Expect: harness.Fails(harness.KindSyntax, "Expected '{'"),
		},
		{
			Suite: suite, Name: "truncated-object", Partition: domain.PartitionMalformed,
			Invoke: transform(`{"a":`),
			Expect: harness.Fails(harness.KindEOF, ""),
		},
		{
			Suite: suite, Name: "duplicate-key", Partition: domain.PartitionMalformed,
			Invoke: transform(`{"a":1,"a":2}`),
			Expect: harness.Fails(harness.KindInvalidArgument, "Duplicate key: a"),
		},
		{
			Suite: suite, Name: "trailing-garbage", Partition: domain.PartitionMalformed,
			Invoke: transform(`{} x`),
			Expect: harness.Fails(harness.KindSyntax, "Improperly terminated"),
		},
		{
			Suite: suite, Name: "number-overflows-float64", Partition: domain.PartitionOverflow,
			Invoke: transform(`[1e400]`),
			Expect: harness.Fails(harness.KindOutOfRange, "value out of range"),
		},
	}
}
