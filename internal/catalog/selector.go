package catalog

import (
	"path"
	"strings"

	"ctp/internal/domain"
	"ctp/internal/harness"
)

// Selector picks the cases a run executes. Empty fields select everything.
type Selector struct {
	Suites      []string
	Partitions  []domain.Partition
	NamePattern string
	IDs         []string
}

// Select returns the cases matching every criterion, preserving order
func (s Selector) Select(cases []harness.Case) []harness.Case {
	suites := toSet(s.Suites)
	ids := toSet(s.IDs)
	partitions := make(map[domain.Partition]bool, len(s.Partitions))
	for _, p := range s.Partitions {
		partitions[p] = true
	}

	var selected []harness.Case
	for _, c := range cases {
		if len(suites) > 0 && !suites[c.Suite] {
			continue
		}
		if len(partitions) > 0 && !partitions[c.Partition] {
			continue
		}
		if len(ids) > 0 && !ids[c.ID()] {
			continue
		}
		if !MatchName(s.NamePattern, c) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}

// MatchName matches a case against a name pattern using wildcard matching.
// Supports patterns like "numeric/*" or "*overflow*"; the pattern is tried against the case ID
// and against the bare case name.
func MatchName(pattern string, c harness.Case) bool {
	if pattern == "" {
		return true
	}

	for _, name := range []string{c.ID(), c.Name} {
		// path.Match supports * and ? wildcards
		matched, err := path.Match(pattern, name)
		if err == nil && matched {
			return true
		}

		// For patterns like "*overflow*" fall back to checking every non-empty part is present
		if strings.Contains(pattern, "*") {
			hasNonEmptyPart := false
			allPartsMatch := true
			for _, part := range strings.Split(pattern, "*") {
				if part == "" {
					continue
				}
				hasNonEmptyPart = true
				if !strings.Contains(name, part) {
					allPartsMatch = false
					break
				}
			}
			if hasNonEmptyPart && allPartsMatch {
				return true
			}
		}

		// If no wildcards, do a simple contains check
		if !strings.ContainsAny(pattern, "*?") && strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}
