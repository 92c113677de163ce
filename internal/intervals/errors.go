package intervals

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn marks a recording whose columns do not satisfy the
	// expected naming contract. Match with errors.Is; inspect the concrete
	// *MissingColumnError for the offending column family.
	ErrMissingColumn = errors.New("required signal column not found")

	// ErrInvalidInput marks a top-level input that is neither a single
	// recording nor a named collection of recordings.
	ErrInvalidInput = errors.New("input must be a recording or a collection of recordings")

	// ErrRRV marks a failed variability computation: the collaborator
	// returned an error, omitted a required metric, or produced a
	// non-numeric value. No partial merge is attempted.
	ErrRRV = errors.New("rrv computation failed")
)

// MissingColumnError reports that a recording has no usable column for the
// expected name fragment. Matches is the number of column names containing
// the fragment: 0 means absent, >1 means ambiguous (the single-recording
// path treats ambiguity as absence rather than picking one).
type MissingColumnError struct {
	Fragment string
	Matches  int
}

func (e *MissingColumnError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("found %d columns matching %q, expected exactly one", e.Matches, e.Fragment)
	}
	return fmt.Sprintf("no column matching %q; make sure the recording was produced by a respiratory processing pipeline", e.Fragment)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
