package suites

import (
	"hash"
	"hash/crc32"
	"hash/fnv"

	"github.com/cespare/xxhash/v2"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "hashing",
		Library: "hash/fnv, hash/crc32, github.com/cespare/xxhash/v2",
		Cases:   hashingCases,
		Operations: []catalog.Operation{
			catalog.Unary("fnv.Sum64a", catalog.BytesArg, func(in []byte) (uint64, error) {
				return sum64(fnv.New64a(), in), nil
			}),
			catalog.Unary("fnv.Sum32a", catalog.BytesArg, func(in []byte) (uint32, error) {
				h := fnv.New32a()
				_, _ = h.Write(in)
				return h.Sum32(), nil
			}),
			catalog.Unary("crc32.ChecksumIEEE", catalog.BytesArg, func(in []byte) (uint32, error) {
				return crc32.ChecksumIEEE(in), nil
			}),
			catalog.Unary("xxhash.Sum64", catalog.BytesArg, func(in []byte) (uint64, error) {
				return xxhash.Sum64(in), nil
			}),
		},
	})
}

func sum64(h hash.Hash64, in []byte) uint64 {
	_, _ = h.Write(in)
	return h.Sum64()
}

func hashingCases() []harness.Case {
	const suite = "hashing"
	return []harness.Case{
		harness.Typed(suite, "fnv64a-empty-is-offset-basis", domain.PartitionEmpty,
			func() hash.Hash64 { return fnv.New64a() },
			func(h hash.Hash64) (uint64, error) { return h.Sum64(), nil },
			harness.Returns(uint64(14695981039346656037)),
		),
		harness.Typed(suite, "fnv64a-nil-write", domain.PartitionNull,
			func() hash.Hash64 { return fnv.New64a() },
			func(h hash.Hash64) (uint64, error) { return sum64(h, nil), nil },
			harness.Returns(uint64(14695981039346656037)),
		),
		{
			Suite: suite, Name: "fnv64a-single-byte", Partition: domain.PartitionHappy,
			Fixture: harness.Fresh(func() hash.Hash64 { return fnv.New64a() }),
			Invoke:  harness.OnValue(func(h hash.Hash64) uint64 { return sum64(h, []byte("a")) }),
			Expect:  harness.Returns(uint64(0xaf63dc4c8601ec8c)),
			Repeat:  3,
		},
		harness.Typed(suite, "fnv32a-empty-is-offset-basis", domain.PartitionEmpty,
			func() hash.Hash32 { return fnv.New32a() },
			func(h hash.Hash32) (uint32, error) { return h.Sum32(), nil },
			harness.Returns(uint32(2166136261)),
		),
		harness.Typed(suite, "fnv-reset-restores-basis", domain.PartitionBoundary,
			func() hash.Hash64 {
				h := fnv.New64a()
				_, _ = h.Write([]byte("dirty"))
				return h
			},
			func(h hash.Hash64) (uint64, error) {
				h.Reset()
				return h.Sum64(), nil
			},
			harness.Returns(uint64(14695981039346656037)),
		),
		harness.Typed(suite, "sum-appends-to-prefix", domain.PartitionBoundary,
			func() hash.Hash32 { return fnv.New32a() },
			func(h hash.Hash32) ([]byte, error) { return h.Sum([]byte{0xff}), nil },
			harness.Returns([]byte{0xff, 0x81, 0x1c, 0x9d, 0xc5}),
		),
		{
			Suite: suite, Name: "crc32-empty", Partition: domain.PartitionEmpty,
			Invoke: harness.CallValue(func() uint32 { return crc32.ChecksumIEEE(nil) }),
			Expect: harness.Returns(uint32(0)),
		},
		{
			Suite: suite, Name: "crc32-check-value", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() uint32 { return crc32.ChecksumIEEE([]byte("123456789")) }),
			Expect: harness.Returns(uint32(0xcbf43926)),
		},
		{
			Suite: suite, Name: "crc32-update-matches-oneshot", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() bool {
				partial := crc32.ChecksumIEEE([]byte("1234"))
				return crc32.Update(partial, crc32.IEEETable, []byte("56789")) == crc32.ChecksumIEEE([]byte("123456789"))
			}),
			Expect: harness.Returns(true),
		},
		{
			Suite: suite, Name: "xxhash-empty", Partition: domain.PartitionEmpty,
			Invoke: harness.CallValue(func() uint64 { return xxhash.Sum64(nil) }),
			Expect: harness.Returns(uint64(0xef46db3751d8e999)),
			Repeat: 2,
		},
		harness.Typed(suite, "xxhash-digest-matches-oneshot", domain.PartitionHappy,
			func() *xxhash.Digest { return xxhash.New() },
			func(d *xxhash.Digest) (bool, error) {
				_, _ = d.WriteString("characterization")
				return d.Sum64() == xxhash.Sum64String("characterization"), nil
			},
			harness.Returns(true),
		),
	}
}
