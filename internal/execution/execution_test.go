package execution

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctp/internal/config"
	"ctp/internal/domain"
	"ctp/internal/harness"
)

func TestRoundRobinScheduler_Schedule(t *testing.T) {
	tests := []struct {
		name        string
		items       []string
		workerCount int
		expected    [][]string
	}{
		{
			name:        "even split",
			items:       []string{"a", "b", "c", "d"},
			workerCount: 2,
			expected:    [][]string{{"a", "c"}, {"b", "d"}},
		},
		{
			name:        "more workers than items",
			items:       []string{"a"},
			workerCount: 3,
			expected:    [][]string{{"a"}, {}, {}},
		},
		{
			name:        "zero workers falls back to one",
			items:       []string{"a", "b"},
			workerCount: 0,
			expected:    [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRoundRobinScheduler[string]().Schedule(tt.items, tt.workerCount)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShard(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	s := NewRoundRobinScheduler[int]()

	assert.Equal(t, items, Shard[int](s, items, config.Shard{Index: 1, Total: 1}))
	assert.Equal(t, []int{2, 5}, Shard[int](s, items, config.Shard{Index: 2, Total: 3}))

	// every item lands in exactly one shard
	var all []int
	for i := 1; i <= 3; i++ {
		all = append(all, Shard[int](s, items, config.Shard{Index: i, Total: 3})...)
	}
	assert.ElementsMatch(t, items, all)
}

func testConfig(processors int) *config.Config {
	cfg := config.New()
	cfg.Processors = processors
	return cfg
}

func valueCase(name string, pass bool) harness.Case {
	want := 1
	if !pass {
		want = 2
	}
	return harness.Case{
		Suite:     "pool",
		Name:      name,
		Partition: domain.PartitionHappy,
		Invoke:    harness.CallValue(func() int { return 1 }),
		Expect:    harness.Returns(want),
	}
}

func TestRunner_Prepare(t *testing.T) {
	cfg := testConfig(1)
	cfg.Timeout = time.Second
	cfg.Flags.Repeat = 3
	r := NewRunner(cfg)

	c := r.Prepare(valueCase("a", true))
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, 3, c.Repeat)

	own := valueCase("b", true)
	own.Timeout = 50 * time.Millisecond
	own.Repeat = 5
	c = r.Prepare(own)
	assert.Equal(t, 50*time.Millisecond, c.Timeout)
	assert.Equal(t, 5, c.Repeat)
}

func TestWorkerPool_ExecuteKeepsOrder(t *testing.T) {
	cfg := testConfig(4)
	pool := NewWorkerPool(cfg, NewRunner(cfg))

	var cases []harness.Case
	for i := 0; i < 20; i++ {
		cases = append(cases, valueCase(fmt.Sprintf("case-%02d", i), i%5 != 0))
	}

	results, _, err := pool.Execute(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, results, len(cases))
	for i, r := range results {
		assert.Equal(t, cases[i].ID(), r.ID)
		assert.Equal(t, i%5 != 0, r.Passed, r.ID)
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	cfg := testConfig(2)
	results, d, err := NewWorkerPool(cfg, NewRunner(cfg)).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, d)
}

func TestWorkerPool_FailFastStopsScheduling(t *testing.T) {
	cfg := testConfig(1)
	pool := NewWorkerPool(cfg, NewRunner(cfg))

	var ran atomic.Int32
	counted := func(name string, pass bool) harness.Case {
		c := valueCase(name, pass)
		invoke := c.Invoke
		c.Invoke = func(f any) (any, error) {
			ran.Add(1)
			return invoke(f)
		}
		return c
	}
	cases := []harness.Case{
		counted("first", true),
		counted("second", false),
		counted("third", true),
		counted("fourth", true),
	}

	results, _, err := pool.ExecuteWithOptions(context.Background(), cases, true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	// the producer may hand one more case to the worker before it sees the cancellation
	assert.LessOrEqual(t, ran.Load(), int32(3))
}

func TestWorkerPool_FailFastAllPass(t *testing.T) {
	cfg := testConfig(3)
	cfg.Flags.FailFast = true
	pool := NewWorkerPool(cfg, NewRunner(cfg))

	cases := []harness.Case{valueCase("a", true), valueCase("b", true), valueCase("c", true)}
	results, _, err := pool.Execute(context.Background(), cases)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestWorkerPool_CanceledContext(t *testing.T) {
	cfg := testConfig(2)
	pool := NewWorkerPool(cfg, NewRunner(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, _, err := pool.Execute(ctx, []harness.Case{valueCase("a", true)})
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}
