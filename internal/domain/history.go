package domain

// HistoryEntry summarizes one run in the history journal
type HistoryEntry struct {
	RunID     string   `msgpack:"run_id"`
	Timestamp string   `msgpack:"timestamp"`
	Passed    int      `msgpack:"passed"`
	Failed    int      `msgpack:"failed"`
	Workers   int      `msgpack:"workers"`
	Seconds   float64  `msgpack:"seconds"`
	FailedIDs []string `msgpack:"failed_ids"`
}
