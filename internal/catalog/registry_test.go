package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

func testCase(suite, name string, p domain.Partition) harness.Case {
	return harness.Case{
		Suite:     suite,
		Name:      name,
		Partition: p,
		Invoke:    harness.CallValue(func() int { return 1 }),
		Expect:    harness.Returns(1),
	}
}

func TestRegistry_Add(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(
		testCase("numeric", "a", domain.PartitionHappy),
		testCase("codec", "b", domain.PartitionEmpty),
	))

	cases := r.Cases()
	require.Len(t, cases, 2)
	assert.Equal(t, "numeric/a", cases[0].ID())
	assert.Equal(t, "codec/b", cases[1].ID())
	assert.Equal(t, domain.PartitionEmpty, cases[1].Partition)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(testCase("numeric", "a", domain.PartitionHappy)))

	dup := testCase("numeric", "a", domain.PartitionOverflow)
	dup.Source = "cases/numeric.cases.yaml"
	err := r.Add(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate case numeric/a")
	assert.Contains(t, err.Error(), "built-in suite")
	assert.Len(t, r.Cases(), 1)
}

func TestRegistry_RejectsInvalidCases(t *testing.T) {
	r := NewRegistry()
	invalid := testCase("numeric", "a", domain.PartitionHappy)
	invalid.Expect = nil
	assert.Error(t, r.Add(invalid))
	assert.Empty(t, r.Cases())
}

func TestRegistry_CasesIsACopy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(testCase("numeric", "a", domain.PartitionHappy)))

	cases := r.Cases()
	cases[0].Name = "changed"
	assert.Equal(t, "a", r.Cases()[0].Name)
}
