package domain

// ResultsMeta contains metadata about a run
type ResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	FailedCases     int     `json:"failed_cases"`
	TotalSuites     int     `json:"total_suites"`
	FailedSuites    int     `json:"failed_suites"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// ResultsOutput is the complete output structure for a run
type ResultsOutput struct {
	Meta    ResultsMeta   `json:"meta"`
	Details []CaseFailure `json:"details"`
}

// FailedIDs returns the IDs of every failure in the output
func (o *ResultsOutput) FailedIDs() []string {
	ids := make([]string, 0, len(o.Details))
	for _, d := range o.Details {
		ids = append(ids, d.ID)
	}
	return ids
}
