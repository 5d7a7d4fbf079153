package pipeline

// Outcome records the terminal result of one conversion request. Per-file
// failures become Outcomes; they never abort sibling files in the batch.
type Outcome struct {
	Input      string
	Succeeded  bool
	OutputPath string // empty on failure; a page pattern for multi-output
	Reason     string // human-readable failure reason, empty on success
}

// Summary aggregates outcomes across a batch run. Failed holds display
// names (not full paths) in input order.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      []string
	InputBytes  int64
	OutputBytes int64
}

// AllSucceeded distinguishes a clean batch from a partial one.
func (s *Summary) AllSucceeded() bool {
	return s.Total > 0 && s.Succeeded == s.Total
}
