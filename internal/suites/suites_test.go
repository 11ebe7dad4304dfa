package suites

import (
	"context"
	"errors"
	"io"
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"ctp/internal/catalog"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

// call binds args and invokes op; a binding error is returned as is
func call(op catalog.Operation, args ...any) (any, error) {
	invoke, err := op.Bind(args)
	if err != nil {
		return nil, err
	}
	return invoke()
}

func TestBuiltinSuitesPass(t *testing.T) {
	r := catalog.NewRegistry()
	require.NoError(t, RegisterAll(r))

	for _, c := range r.Cases() {
		t.Run(c.ID(), func(t *testing.T) {
			result := harness.Run(context.Background(), c)
			assert.True(t, result.Passed, "expected %s\nactual %s\n%s", result.Expected, result.Actual, result.Detail)
		})
	}
}

func TestEverySuiteCoversBeyondHappyPath(t *testing.T) {
	for _, s := range All() {
		cases := s.Cases()
		require.NotEmpty(t, cases, s.Name)

		var other bool
		for _, c := range cases {
			assert.Equal(t, s.Name, c.Suite, "case %s registered under the wrong suite", c.Name)
			if c.Partition != domain.PartitionHappy {
				other = true
			}
		}
		assert.True(t, other, "suite %s only covers the happy path", s.Name)
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	require.NoError(t, Setup())
	require.NoError(t, Setup())

	for _, name := range []string{"strconv.Atoi", "uuid.Parse", "jcs.Transform", "fnv.Sum64a", "io.ReadFull"} {
		_, ok := catalog.LookupOperation(name)
		assert.True(t, ok, "operation %s not registered", name)
	}
}

func TestCaseFiles(t *testing.T) {
	require.NoError(t, Setup())

	cases, err := catalog.NewLoader(catalog.NewScanner(nil)).Load("../../cases")
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	builtin := catalog.NewRegistry()
	require.NoError(t, RegisterAll(builtin))
	builtinIDs := make(map[string]bool)
	for _, c := range builtin.Cases() {
		builtinIDs[c.ID()] = true
	}
	for _, c := range cases {
		// case file suites must not shadow built-in case IDs
		assert.False(t, builtinIDs[c.ID()], "%s collides with a built-in case", c.ID())

		result := harness.Run(context.Background(), c)
		assert.True(t, result.Passed, "%s: expected %s, actual %s", c.ID(), result.Expected, result.Actual)
	}
}

func TestClassifyLibraryErrors(t *testing.T) {
	require.NoError(t, Setup())

	op, ok := catalog.LookupOperation("strconv.Atoi")
	require.True(t, ok)
	_, err := call(op, "x")
	assert.Equal(t, harness.KindSyntax, harness.Classify(err))

	op, ok = catalog.LookupOperation("uuid.Parse")
	require.True(t, ok)
	_, err = call(op, "abc")
	assert.Equal(t, harness.KindInvalidArgument, harness.Classify(err))

	op, ok = catalog.LookupOperation("durationpb.CheckValid")
	require.True(t, ok)
	_, err = call(op, 1, -1)
	assert.Equal(t, harness.KindInvalidArgument, harness.Classify(err))
}

func TestClassifyURLErrorKeepsWrappedSentinel(t *testing.T) {
	require.NoError(t, Setup())

	assert.Equal(t, harness.KindSyntax, harness.Classify(&url.Error{Op: "parse", URL: "postgres://%", Err: errors.New("invalid URL escape")}))
	assert.Equal(t, harness.KindEOF, harness.Classify(&url.Error{Op: "Get", URL: "http://db", Err: io.EOF}))
	assert.Equal(t, harness.KindTimeout, harness.Classify(&url.Error{Op: "Get", URL: "http://db", Err: context.DeadlineExceeded}))
}

func TestProperty_InPlaceMutatorsReturnReceiver(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		xs := rapid.SliceOfDistinct(rapid.Int(), rapid.ID[int]).Draw(t, "xs")
		name := rapid.SampledFrom([]string{"clip", "compact", "delete-empty", "insert-none", "grow-zero", "sort"}).Draw(t, "op")
		op := inPlaceMutators[name]

		c := harness.Typed("property", name, domain.PartitionHappy,
			func() []int { return slices.Clone(xs) },
			func(s []int) ([]int, error) { return op(s), nil },
			harness.ReturnsSame(),
		)
		if result := harness.Run(context.Background(), c); !result.Passed {
			t.Fatalf("%s on %v: %s", name, xs, result.Detail)
		}
	})
}

func TestProperty_HashOperationsAreDeterministic(t *testing.T) {
	require.NoError(t, Setup())
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "in")
		name := rapid.SampledFrom([]string{"fnv.Sum64a", "fnv.Sum32a", "crc32.ChecksumIEEE", "xxhash.Sum64"}).Draw(t, "op")
		op, ok := catalog.LookupOperation(name)
		if !ok {
			t.Fatalf("operation %s missing", name)
		}
		first, err := call(op, in)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := call(op, in)
		if first != second {
			t.Fatalf("%s(%q) returned %v then %v", name, in, first, second)
		}
	})
}
