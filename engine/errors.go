package engine

import "fmt"

// EmptyInputError is returned when a statistic is requested over zero
// usable values. Callers choose the fallback (placeholder, zero, skip).
type EmptyInputError struct {
	Op      string // operation that needed data, e.g. "summary stats"
	Measure string
}

func (e *EmptyInputError) Error() string {
	if e.Measure == "" {
		return fmt.Sprintf("%s: no matching rows", e.Op)
	}
	return fmt.Sprintf("%s: no values for %q", e.Op, e.Measure)
}

// InvalidBinConfigError is returned for a non-positive bin count or a
// column with no numeric values to bin.
type InvalidBinConfigError struct {
	Reason string
}

func (e *InvalidBinConfigError) Error() string {
	return "invalid bin configuration: " + e.Reason
}
