package suites

import (
	"math"
	"math/bits"
	"strconv"
	"time"

	"fortio.org/safecast"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "numeric",
		Library: "fortio.org/safecast, strconv",
		Cases:   numericCases,
		Rules: []harness.Rule{
			harness.SentinelRule(harness.KindOutOfRange, safecast.ErrOutOfRange),
			// MustConv and friends panic with a formatted string
			harness.PrefixRule(harness.KindOutOfRange, "safecast: out of range"),
			harness.PrefixRule(harness.KindInvalidArgument, "time: invalid duration"),
			harness.PrefixRule(harness.KindInvalidArgument, "time: missing unit"),
			harness.PrefixRule(harness.KindInvalidArgument, "time: unknown unit"),
		},
		Operations: []catalog.Operation{
			catalog.Unary("strconv.Atoi", catalog.StringArg, strconv.Atoi),
			catalog.Unary("strconv.ParseBool", catalog.StringArg, strconv.ParseBool),
			{
				Name:  "strconv.ParseInt",
				Arity: 3,
				Bind: func(args []any) (catalog.Invocation, error) {
					s, err := catalog.StringArg(args, 0)
					if err != nil {
						return nil, err
					}
					base, err := catalog.IntArg(args, 1)
					if err != nil {
						return nil, err
					}
					bitSize, err := catalog.IntArg(args, 2)
					if err != nil {
						return nil, err
					}
					return func() (any, error) { return strconv.ParseInt(s, int(base), int(bitSize)) }, nil
				},
			},
			catalog.Unary("strconv.ParseFloat", catalog.StringArg, func(s string) (float64, error) {
				return strconv.ParseFloat(s, 64)
			}),
			catalog.Unary("safecast.ToInt8", catalog.IntArg, safecast.Conv[int8, int64]),
			catalog.Unary("safecast.ToUint8", catalog.IntArg, safecast.Conv[uint8, int64]),
			catalog.Unary("safecast.ToInt32", catalog.IntArg, safecast.Conv[int32, int64]),
			catalog.Unary("safecast.ToUint", catalog.IntArg, safecast.Conv[uint, int64]),
			catalog.Unary("time.ParseDuration", catalog.StringArg, time.ParseDuration),
		},
	})
}

func numericCases() []harness.Case {
	const suite = "numeric"
	return []harness.Case{
		{
			Suite: suite, Name: "conv-int8-overflow", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (int8, error) { return safecast.Conv[int8](128) }),
			Expect: harness.Fails(harness.KindOutOfRange, "out of range"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "conv-int8-max", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (int8, error) { return safecast.Conv[int8](127) }),
			Expect: harness.Returns(int8(127)),
		},
		{
			Suite: suite, Name: "conv-int8-min", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (int8, error) { return safecast.Conv[int8](-128) }),
			Expect: harness.Returns(int8(-128)),
		},
		{
			Suite: suite, Name: "conv-uint-negative", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (uint, error) { return safecast.Conv[uint](-1) }),
			Expect: harness.Fails(harness.KindOutOfRange, "out of range"),
		},
		{
			Suite: suite, Name: "conv-int32-past-max", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (int32, error) { return safecast.Conv[int32](int64(math.MaxInt32) + 1) }),
			Expect: harness.Fails(harness.KindOutOfRange, ""),
		},
		{
			Suite: suite, Name: "mustconv-panics", Partition: domain.PartitionOverflow,
			Invoke: harness.CallValue(func() int8 { return safecast.MustConv[int8](300) }),
			Expect: harness.Panics(harness.KindOutOfRange, "300 (int) to int8"),
			Repeat: 2,
		},
		{
			Suite: suite, Name: "convert-float32-loses-precision", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (float32, error) { return safecast.Convert[float32](16777217) }),
			Expect: harness.Fails(harness.KindOutOfRange, ""),
		},
		{
			Suite: suite, Name: "round-half-away-from-zero", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (int, error) { return safecast.Round[int](2.5) }),
			Expect: harness.Returns(3),
		},
		{
			Suite: suite, Name: "truncate-nan", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() (int, error) { return safecast.Truncate[int](math.NaN()) }),
			Expect: harness.Fails(harness.KindOutOfRange, ""),
		},
		{
			Suite: suite, Name: "atoi-empty", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() (int, error) { return strconv.Atoi("") }),
			Expect: harness.Fails(harness.KindSyntax, "invalid syntax"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "atoi-happy", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (int, error) { return strconv.Atoi("-42") }),
			Expect: harness.Returns(-42),
		},
		{
			Suite: suite, Name: "parseint-int64-overflow", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (int64, error) { return strconv.ParseInt("9223372036854775808", 10, 64) }),
			Expect: harness.Fails(harness.KindOutOfRange, "value out of range"),
		},
		{
			Suite: suite, Name: "parseint-int8-min", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (int64, error) { return strconv.ParseInt("-128", 10, 8) }),
			Expect: harness.Returns(int64(-128)),
		},
		{
			Suite: suite, Name: "parsefloat-dangling-exponent", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() (float64, error) { return strconv.ParseFloat("1e", 64) }),
			Expect: harness.Fails(harness.KindSyntax, `parsing "1e"`),
		},
		{
			Suite: suite, Name: "mul64-carries-into-high-word", Partition: domain.PartitionOverflow,
			Invoke: harness.CallValue(func() [2]uint64 {
				hi, lo := bits.Mul64(math.MaxUint64, 2)
				return [2]uint64{hi, lo}
			}),
			Expect: harness.Returns([2]uint64{1, math.MaxUint64 - 1}),
		},
		{
			Suite: suite, Name: "duration-multiplication-wraps", Partition: domain.PartitionOverflow,
			Invoke: harness.CallValue(func() bool {
				d := time.Duration(math.MaxInt64)
				return d*2 < 0
			}),
			Expect: harness.Returns(true),
		},
		{
			Suite: suite, Name: "parseduration-overflow", Partition: domain.PartitionOverflow,
			Invoke: harness.Call(func() (time.Duration, error) { return time.ParseDuration("9223372036854775808ns") }),
			Expect: harness.Fails(harness.KindInvalidArgument, "invalid duration"),
		},
	}
}
