package poll

import "fmt"

// MissingColumnError is the one structural failure the pipeline
// surfaces: an input table lacking a required column. Per-record
// problems (bad dates, bad tallies, unmatched keys) are absorbed as
// missing values instead.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: missing required column %q", e.Table, e.Column)
}
