// Package report turns case results into the persisted failure list, run summaries and JUnit XML
package report

import (
	"sort"
	"time"

	"ctp/internal/domain"
)

// Counts summarizes results per case and per suite
type Counts struct {
	Passed       int
	Failed       int
	Suites       int
	FailedSuites int
}

// Count tallies results
func Count(results []domain.CaseResult) Counts {
	var c Counts
	suites := make(map[string]bool)
	for _, r := range results {
		if r.Passed {
			c.Passed++
		} else {
			c.Failed++
		}
		failed := suites[r.Suite]
		suites[r.Suite] = failed || !r.Passed
	}
	c.Suites = len(suites)
	for _, failed := range suites {
		if failed {
			c.FailedSuites++
		}
	}
	return c
}

// Failure converts a failed result into its persisted form
func Failure(r domain.CaseResult) domain.CaseFailure {
	return domain.CaseFailure{
		ID:        r.ID,
		Suite:     r.Suite,
		Name:      r.Name,
		Partition: string(r.Partition),
		Source:    r.Source,
		Expected:  r.Expected,
		Actual:    r.Actual,
		Detail:    r.Detail,
		Attempts:  r.Attempts,
		TimedOut:  r.TimedOut,
	}
}

// Failures returns the failed results in persisted form, ordered by case ID
func Failures(results []domain.CaseResult) []domain.CaseFailure {
	failures := []domain.CaseFailure{}
	for _, r := range results {
		if !r.Passed {
			failures = append(failures, Failure(r))
		}
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].ID < failures[j].ID })
	return failures
}

// Run describes one execution of the selected cases
type Run struct {
	ID       string
	Results  []domain.CaseResult
	Duration time.Duration
	Workers  int
	Finished time.Time
}

// Output builds the JSON output of a run
func Output(run Run) *domain.ResultsOutput {
	counts := Count(run.Results)
	return &domain.ResultsOutput{
		Meta: domain.ResultsMeta{
			RunID:           run.ID,
			TotalCases:      len(run.Results),
			PassedCases:     counts.Passed,
			FailedCases:     counts.Failed,
			TotalSuites:     counts.Suites,
			FailedSuites:    counts.FailedSuites,
			Duration:        run.Duration.String(),
			DurationSeconds: run.Duration.Seconds(),
			Workers:         run.Workers,
			Timestamp:       run.Finished.Format(time.RFC3339),
		},
		Details: Failures(run.Results),
	}
}

// HistoryEntry summarizes a run output for the journal
func HistoryEntry(output *domain.ResultsOutput) domain.HistoryEntry {
	return domain.HistoryEntry{
		RunID:     output.Meta.RunID,
		Timestamp: output.Meta.Timestamp,
		Passed:    output.Meta.PassedCases,
		Failed:    output.Meta.FailedCases,
		Workers:   output.Meta.Workers,
		Seconds:   output.Meta.DurationSeconds,
		FailedIDs: output.FailedIDs(),
	}
}
