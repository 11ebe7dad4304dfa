package domain

// CaseFailure represents a failed characterization case as persisted for the viewer
type CaseFailure struct {
	ID        string `json:"id"`
	Suite     string `json:"suite"`
	Name      string `json:"name"`
	Partition string `json:"partition"`
	Source    string `json:"source,omitempty"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Detail    string `json:"detail,omitempty"`
	Attempts  int    `json:"attempts"`
	TimedOut  bool   `json:"timed_out,omitempty"`
	Resolved  bool   `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}
