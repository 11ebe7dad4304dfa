package suites

import (
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

// protobuf randomizes the separator after its "proto:" prefix, so messages are matched by content
func classifyWellKnownTypeError(err error) (harness.Kind, bool) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "proto:") {
		return "", false
	}
	switch {
	case strings.Contains(msg, "invalid nil"):
		return harness.KindNilDereference, true
	case strings.Contains(msg, "exceeds"),
		strings.Contains(msg, "out-of-range"),
		strings.Contains(msg, "before 0001-01-01"),
		strings.Contains(msg, "after 9999-12-31"):
		return harness.KindOutOfRange, true
	case strings.Contains(msg, "different signs"):
		return harness.KindInvalidArgument, true
	}
	return "", false
}

func init() {
	register(Suite{
		Name:    "protowkt",
		Library: "google.golang.org/protobuf/types/known",
		Cases:   protowktCases,
		Rules:   []harness.Rule{classifyWellKnownTypeError},
		Operations: []catalog.Operation{
			{
				Name:  "durationpb.CheckValid",
				Arity: 2,
				Bind: func(args []any) (catalog.Invocation, error) {
					d, err := durationArg(args)
					if err != nil {
						return nil, err
					}
					return func() (any, error) { return nil, d.CheckValid() }, nil
				},
			},
			{
				Name:  "durationpb.AsDuration",
				Arity: 2,
				Bind: func(args []any) (catalog.Invocation, error) {
					d, err := durationArg(args)
					if err != nil {
						return nil, err
					}
					return func() (any, error) { return d.AsDuration(), nil }, nil
				},
			},
		},
	})
}

func durationArg(args []any) (*durationpb.Duration, error) {
	secs, err := catalog.IntArg(args, 0)
	if err != nil {
		return nil, err
	}
	nanos, err := catalog.IntArg(args, 1)
	if err != nil {
		return nil, err
	}
	if nanos < math.MinInt32 || nanos > math.MaxInt32 {
		return nil, fmt.Errorf("%w: nanos %d overflows int32", catalog.ErrArgument, nanos)
	}
	return &durationpb.Duration{Seconds: secs, Nanos: int32(nanos)}, nil
}

func protowktCases() []harness.Case {
	const suite = "protowkt"
	checkValid := harness.On(func(d *durationpb.Duration) (any, error) { return nil, d.CheckValid() })
	asDuration := harness.OnValue(func(d *durationpb.Duration) time.Duration { return d.AsDuration() })
	return []harness.Case{
		{
			Suite: suite, Name: "duration-round-trip", Partition: domain.PartitionHappy,
			Fixture: harness.Fresh(func() *durationpb.Duration { return durationpb.New(90*time.Second + 5*time.Millisecond) }),
			Invoke:  asDuration,
			Expect:  harness.Returns(90*time.Second + 5*time.Millisecond),
		},
		{
			Suite: suite, Name: "duration-nil-check", Partition: domain.PartitionNull,
			Fixture: harness.Fresh(func() *durationpb.Duration { return nil }),
			Invoke:  checkValid,
			Expect:  harness.Fails(harness.KindNilDereference, "invalid nil Duration"),
		},
		{
			Suite: suite, Name: "duration-nil-as-zero", Partition: domain.PartitionNull,
			Fixture: harness.Fresh(func() *durationpb.Duration { return nil }),
			Invoke:  asDuration,
			Expect:  harness.Returns(time.Duration(0)),
		},
		{
			Suite: suite, Name: "duration-max-seconds", Partition: domain.PartitionBoundary,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: 315576000000} }),
			Invoke:  checkValid,
			Expect:  harness.Succeeds(),
		},
		{
			Suite: suite, Name: "duration-past-ten-thousand-years", Partition: domain.PartitionOverflow,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: 315576000001} }),
			Invoke:  checkValid,
			Expect:  harness.Fails(harness.KindOutOfRange, "exceeds +10000 years"),
		},
		{
			Suite: suite, Name: "duration-nanos-out-of-range", Partition: domain.PartitionOverflow,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: 1, Nanos: 1e9} }),
			Invoke:  checkValid,
			Expect:  harness.Fails(harness.KindOutOfRange, "out-of-range nanos"),
		},
		{
			Suite: suite, Name: "duration-mixed-signs", Partition: domain.PartitionMalformed,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: 1, Nanos: -1} }),
			Invoke:  checkValid,
			Expect:  harness.Fails(harness.KindInvalidArgument, "different signs"),
		},
		{
			Suite: suite, Name: "duration-saturates-on-overflow", Partition: domain.PartitionOverflow,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: 1 << 62} }),
			Invoke:  asDuration,
			Expect:  harness.Returns(time.Duration(math.MaxInt64)),
			Repeat:  2,
		},
		{
			Suite: suite, Name: "duration-saturates-negative", Partition: domain.PartitionOverflow,
			Fixture: harness.Fresh(func() *durationpb.Duration { return &durationpb.Duration{Seconds: -(1 << 62)} }),
			Invoke:  asDuration,
			Expect:  harness.Returns(time.Duration(math.MinInt64)),
		},
		{
			Suite: suite, Name: "timestamp-round-trip", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() bool {
				t := time.Date(2024, 2, 29, 12, 30, 0, 123456789, time.UTC)
				return timestamppb.New(t).AsTime().Equal(t)
			}),
			Expect: harness.Returns(true),
		},
		{
			Suite: suite, Name: "timestamp-year-one", Partition: domain.PartitionBoundary,
			Invoke: harness.CallErr(func() error {
				return timestamppb.New(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)).CheckValid()
			}),
			Expect: harness.Succeeds(),
		},
		{
			Suite: suite, Name: "timestamp-before-year-one", Partition: domain.PartitionOverflow,
			Invoke: harness.CallErr(func() error {
				return timestamppb.New(time.Date(0, 12, 31, 23, 59, 59, 0, time.UTC)).CheckValid()
			}),
			Expect: harness.Fails(harness.KindOutOfRange, "before 0001-01-01"),
		},
		{
			Suite: suite, Name: "timestamp-nil-check", Partition: domain.PartitionNull,
			Invoke: harness.CallErr(func() error {
				var ts *timestamppb.Timestamp
				return ts.CheckValid()
			}),
			Expect: harness.Fails(harness.KindNilDereference, "invalid nil Timestamp"),
		},
	}
}
