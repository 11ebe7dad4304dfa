package suites

import (
	"math"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "codec",
		Library: "github.com/vmihailenco/msgpack/v5, github.com/json-iterator/go",
		Cases:   codecCases,
		Rules: []harness.Rule{
			harness.PrefixRule(harness.KindInvalidArgument, "unsupported value"),
		},
		Operations: []catalog.Operation{
			catalog.Unary("jsoniter.Valid", catalog.BytesArg, func(in []byte) (bool, error) {
				return jsoniter.ConfigFastest.Valid(in), nil
			}),
		},
	})
}

type codecRecord struct {
	ID   int               `msgpack:"id"`
	Name string            `msgpack:"name"`
	Tags []string          `msgpack:"tags"`
	Meta map[string]string `msgpack:"meta"`
}

func codecCases() []harness.Case {
	const suite = "codec"
	std := jsoniter.ConfigCompatibleWithStandardLibrary
	return []harness.Case{
		harness.Typed(suite, "msgpack-round-trip", domain.PartitionHappy,
			func() codecRecord {
				return codecRecord{ID: 7, Name: "widget", Tags: []string{"a", "b"}, Meta: map[string]string{"k": "v"}}
			},
			func(in codecRecord) (bool, error) {
				data, err := msgpack.Marshal(in)
				if err != nil {
					return false, err
				}
				var out codecRecord
				if err := msgpack.Unmarshal(data, &out); err != nil {
					return false, err
				}
				return reflect.DeepEqual(in, out), nil
			},
			harness.Returns(true),
		),
		{
			Suite: suite, Name: "msgpack-unmarshal-empty", Partition: domain.PartitionEmpty,
			Invoke: harness.CallErr(func() error {
				var v any
				return msgpack.Unmarshal(nil, &v)
			}),
			Expect: harness.Fails(harness.KindEOF, "EOF"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "msgpack-unmarshal-truncated", Partition: domain.PartitionMalformed,
			Invoke: harness.CallErr(func() error {
				data, err := msgpack.Marshal("hello")
				if err != nil {
					return err
				}
				var s string
				return msgpack.Unmarshal(data[:len(data)-1], &s)
			}),
			Expect: harness.Fails(harness.KindEOF, ""),
		},
		{
			Suite: suite, Name: "msgpack-nil-slice", Partition: domain.PartitionNull,
			Invoke: harness.Call(func() ([]byte, error) { return msgpack.Marshal([]int(nil)) }),
			Expect: harness.Returns([]byte{0xc0}),
		},
		{
			Suite: suite, Name: "msgpack-empty-map", Partition: domain.PartitionEmpty,
			Invoke: harness.Call(func() ([]byte, error) { return msgpack.Marshal(map[string]int{}) }),
			Expect: harness.Returns([]byte{0x80}),
		},
		{
			Suite: suite, Name: "jsoniter-sorts-map-keys", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (string, error) {
				return std.MarshalToString(map[string]int{"b": 1, "a": 2})
			}),
			Expect: harness.Returns(`{"a":2,"b":1}`),
		},
		{
			Suite: suite, Name: "jsoniter-marshal-nan", Partition: domain.PartitionMalformed,
			Invoke: harness.Call(func() ([]byte, error) { return std.Marshal(math.NaN()) }),
			Expect: harness.Fails(harness.KindInvalidArgument, "unsupported value: NaN"),
		},
		{
			Suite: suite, Name: "jsoniter-valid-truncated", Partition: domain.PartitionMalformed,
			Invoke: harness.CallValue(func() bool { return jsoniter.ConfigFastest.Valid([]byte(`{"a":`)) }),
			Expect: harness.Returns(false),
		},
		{
			Suite: suite, Name: "jsoniter-valid-array", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() bool { return jsoniter.ConfigFastest.Valid([]byte(`[1,2]`)) }),
			Expect: harness.Returns(true),
		},
		{
			Suite: suite, Name: "jsoniter-unmarshal-nil-slice", Partition: domain.PartitionNull,
			Invoke: harness.Call(func() ([]int, error) {
				out := []int{1}
				err := std.Unmarshal([]byte(`null`), &out)
				return out, err
			}),
			Expect: harness.Returns([]int(nil)),
		},
	}
}
