package domain

import (
	"fmt"
	"strings"
	"time"
)

// Partition is the input class a characterization case exercises
type Partition string

const (
	PartitionNull      Partition = "null"
	PartitionEmpty     Partition = "empty"
	PartitionBoundary  Partition = "boundary"
	PartitionOverflow  Partition = "overflow"
	PartitionMalformed Partition = "malformed"
	PartitionHappy     Partition = "happy"
)

// Partitions lists every known partition in display order
var Partitions = []Partition{
	PartitionNull,
	PartitionEmpty,
	PartitionBoundary,
	PartitionOverflow,
	PartitionMalformed,
	PartitionHappy,
}

// ParsePartition converts a flag or case file value into a Partition
func ParsePartition(s string) (Partition, error) {
	p := Partition(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PartitionHappy, nil
	}
	for _, known := range Partitions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown partition %q", s)
}

// CaseResult is the outcome of running one characterization case
type CaseResult struct {
	ID        string        // suite/name
	Suite     string        // Suite the case belongs to
	Name      string        // Case name within the suite
	Partition Partition     // Input partition the case exercises
	Source    string        // Case file the case was loaded from, empty for built-in cases
	Passed    bool          // Whether every attempt matched the expected outcome
	TimedOut  bool          // Whether the case exceeded its timeout
	Expected  string        // Expected outcome descriptor
	Actual    string        // Observed outcome of the last attempt
	Detail    string        // Expanded rendering of the observation on failure
	Attempts  int           // Number of invocations performed
	Duration  time.Duration // Time taken across all attempts
}
