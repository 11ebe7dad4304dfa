package suites

import (
	"github.com/google/uuid"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

const dnsNamespace = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func init() {
	register(Suite{
		Name:    "identity",
		Library: "github.com/google/uuid",
		Cases:   identityCases,
		Rules: []harness.Rule{
			func(err error) (harness.Kind, bool) {
				if uuid.IsInvalidLengthError(err) {
					return harness.KindInvalidArgument, true
				}
				return "", false
			},
			harness.PrefixRule(harness.KindSyntax, "invalid UUID format"),
			harness.PrefixRule(harness.KindSyntax, "invalid urn prefix"),
			harness.PrefixRule(harness.KindInvalidArgument, "invalid UUID (got"),
			harness.PrefixRule(harness.KindInvalidArgument, "uuid: Parse("),
		},
		Operations: []catalog.Operation{
			catalog.Unary("uuid.Parse", catalog.StringArg, uuid.Parse),
			catalog.Unary("uuid.Validate", catalog.StringArg, func(s string) (any, error) {
				return nil, uuid.Validate(s)
			}),
			catalog.Unary("uuid.FromBytes", catalog.BytesArg, uuid.FromBytes),
		},
	})
}

func parseUUID(s string) func(any) (any, error) {
	return harness.Call(func() (uuid.UUID, error) { return uuid.Parse(s) })
}

func identityCases() []harness.Case {
	const suite = "identity"
	return []harness.Case{
		{
			Suite: suite, Name: "parse-empty", Partition: domain.PartitionEmpty,
			Invoke: parseUUID(""),
			Expect: harness.Fails(harness.KindInvalidArgument, "invalid UUID length: 0"),
			Repeat: 3,
		},
		{
			Suite: suite, Name: "parse-short", Partition: domain.PartitionMalformed,
			Invoke: parseUUID("abc"),
			Expect: harness.Fails(harness.KindInvalidArgument, "invalid UUID length: 3"),
		},
		{
			Suite: suite, Name: "parse-bad-hex", Partition: domain.PartitionMalformed,
			Invoke: parseUUID("6ba7b810-9dad-11d1-80b4-00c04fd430cg"),
			Expect: harness.Fails(harness.KindSyntax, "invalid UUID format"),
		},
		{
			Suite: suite, Name: "parse-misplaced-dash", Partition: domain.PartitionMalformed,
			Invoke: parseUUID("6ba7b8109-dad-11d1-80b4-00c04fd430c8"),
			Expect: harness.Fails(harness.KindSyntax, "invalid UUID format"),
		},
		{
			Suite: suite, Name: "parse-uppercase-canonicalizes", Partition: domain.PartitionHappy,
			Invoke: harness.Call(func() (string, error) {
				u, err := uuid.Parse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
				return u.String(), err
			}),
			Expect: harness.Returns(dnsNamespace),
		},
		{
			Suite: suite, Name: "parse-urn-prefix", Partition: domain.PartitionBoundary,
			Invoke: parseUUID("urn:uuid:" + dnsNamespace),
			Expect: harness.Returns(uuid.NameSpaceDNS),
		},
		{
			Suite: suite, Name: "parse-braced", Partition: domain.PartitionBoundary,
			Invoke: parseUUID("{" + dnsNamespace + "}"),
			Expect: harness.Returns(uuid.NameSpaceDNS),
		},
		{
			Suite: suite, Name: "nil-uuid-string", Partition: domain.PartitionNull,
			Invoke: harness.CallValue(func() string { return uuid.Nil.String() }),
			Expect: harness.Returns("00000000-0000-0000-0000-000000000000"),
		},
		{
			Suite: suite, Name: "from-bytes-short", Partition: domain.PartitionBoundary,
			Invoke: harness.Call(func() (uuid.UUID, error) { return uuid.FromBytes([]byte{1, 2, 3}) }),
			Expect: harness.Fails(harness.KindInvalidArgument, "got 3 bytes"),
		},
		{
			Suite: suite, Name: "mustparse-panics", Partition: domain.PartitionMalformed,
			Invoke: harness.CallValue(func() uuid.UUID { return uuid.MustParse("x") }),
			Expect: harness.Panics(harness.KindInvalidArgument, "invalid UUID length: 1"),
		},
		{
			Suite: suite, Name: "sha1-is-deterministic", Partition: domain.PartitionHappy,
			Invoke: harness.CallValue(func() uuid.UUID { return uuid.NewSHA1(uuid.NameSpaceDNS, []byte("example.com")) }),
			Expect: harness.Check("a version 5 RFC 4122 UUID", func(u uuid.UUID) bool {
				return u.Version() == 5 && u.Variant() == uuid.RFC4122 &&
					u == uuid.NewSHA1(uuid.NameSpaceDNS, []byte("example.com"))
			}),
			Repeat: 3,
		},
		harness.Typed(suite, "string-round-trip", domain.PartitionHappy,
			func() uuid.UUID { return uuid.NewMD5(uuid.NameSpaceURL, []byte("https://example.com")) },
			func(u uuid.UUID) (bool, error) {
				back, err := uuid.Parse(u.String())
				return back == u, err
			},
			harness.Returns(true),
		),
	}
}
