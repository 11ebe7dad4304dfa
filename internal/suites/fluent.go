package suites

import (
	"slices"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

func init() {
	register(Suite{
		Name:    "fluent",
		Library: "slices",
		Cases:   fluentCases,
		Rules: []harness.Rule{
			harness.PrefixRule(harness.KindInvalidArgument, "cannot be negative"),
		},
	})
}

// sortShorts sorts in place and hands back its argument so chained calls see the same slice
func sortShorts(s []int16) []int16 {
	slices.Sort(s)
	return s
}

// inPlaceMutators are the slices functions that return their argument unchanged in identity
// when they have nothing to add. Tests drive them over arbitrary lengths.
var inPlaceMutators = map[string]func([]int) []int{
	"clip":         slices.Clip[[]int],
	"compact":      slices.Compact[[]int],
	"delete-empty": func(s []int) []int { return slices.Delete(s, 0, 0) },
	"insert-none":  func(s []int) []int { return slices.Insert(s, len(s)) },
	"grow-zero":    func(s []int) []int { return slices.Grow(s, 0) },
	"sort":         func(s []int) []int { slices.Sort(s); return s },
}

func fluentCases() []harness.Case {
	const suite = "fluent"
	lengths := map[domain.Partition]func() []int{
		domain.PartitionNull:  func() []int { return nil },
		domain.PartitionEmpty: func() []int { return []int{} },
		domain.PartitionHappy: func() []int { return []int{3, 1, 2} },
	}

	var cases []harness.Case
	for _, name := range []string{"clip", "delete-empty", "insert-none", "grow-zero", "sort"} {
		op := inPlaceMutators[name]
		for _, p := range []domain.Partition{domain.PartitionNull, domain.PartitionEmpty, domain.PartitionHappy} {
			cases = append(cases, harness.Typed(suite, name+"-returns-receiver-"+string(p), p,
				lengths[p],
				func(s []int) ([]int, error) { return op(s), nil },
				harness.ReturnsSame(),
			))
		}
	}

	return append(cases,
		harness.Typed(suite, "sort-shorts-in-place", domain.PartitionHappy,
			func() []int16 { return []int16{5, 2, 8, 1} },
			func(s []int16) ([]int16, error) { return sortShorts(s), nil },
			harness.All(harness.ReturnsSame(), harness.Returns([]int16{1, 2, 5, 8})),
		),
		harness.Typed(suite, "sort-shorts-single", domain.PartitionBoundary,
			func() []int16 { return []int16{7} },
			func(s []int16) ([]int16, error) { return sortShorts(s), nil },
			harness.All(harness.ReturnsSame(), harness.Returns([]int16{7})),
		),
		harness.Typed(suite, "compact-already-unique", domain.PartitionHappy,
			func() []int { return []int{1, 2, 3} },
			func(s []int) ([]int, error) { return slices.Compact(s), nil },
			harness.ReturnsSame(),
		),
		harness.Typed(suite, "compact-shortens-and-zeroes-tail", domain.PartitionBoundary,
			func() []int { return []int{1, 1, 2} },
			func(s []int) ([]int, error) {
				_ = slices.Compact(s)
				return s, nil
			},
			harness.Returns([]int{1, 2, 0}),
		),
		harness.Typed(suite, "grow-negative", domain.PartitionMalformed,
			func() []int { return []int{1} },
			func(s []int) ([]int, error) { return slices.Grow(s, -1), nil },
			harness.Panics(harness.KindInvalidArgument, "cannot be negative"),
		),
		harness.Typed(suite, "grow-reallocates", domain.PartitionOverflow,
			func() []int { return make([]int, 2) },
			func(s []int) ([]int, error) { return slices.Grow(s, 1), nil },
			harness.Check("capacity grew", func(s []int) bool { return len(s) == 2 && cap(s) >= 3 }),
		),
		harness.Typed(suite, "delete-out-of-range", domain.PartitionOverflow,
			func() []int { return []int{1, 2} },
			func(s []int) ([]int, error) { return slices.Delete(s, 1, 3), nil },
			harness.Panics(harness.KindOutOfRange, "out of range"),
		),
		harness.Typed(suite, "insert-past-end", domain.PartitionOverflow,
			func() []int { return []int{1} },
			func(s []int) ([]int, error) { return slices.Insert(s, 2, 9), nil },
			harness.Panics(harness.KindOutOfRange, "out of range"),
		),
	)
}
