package results

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant marks data or model corruption: an impossible class id,
	// an out-of-range feature, a duplicate test id. Always fatal.
	ErrInvariant = errors.New("invariant violation")

	// ErrBatchMismatch is returned when batch files disagree on their test ids.
	ErrBatchMismatch = errors.New("batch result mismatch")

	// ErrMalformed is returned for unreadable result lines.
	ErrMalformed = errors.New("malformed result record")

	// ErrManifestMismatch is returned when a resumed run was planned differently.
	ErrManifestMismatch = errors.New("run manifest mismatch")
)

// MismatchError describes a batch whose test-id set differs from batch 0.
type MismatchError struct {
	Batch    int
	Want     uint64 // ids in batch 0
	Got      uint64 // ids in Batch
	Missing  uint64 // ids of batch 0 absent from Batch
	Extra    uint64 // ids of Batch absent from batch 0
	FirstBad int    // smallest offending id, or -1
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("batch %d: %d test ids, want %d (missing %d, extra %d, first %d)",
		e.Batch, e.Got, e.Want, e.Missing, e.Extra, e.FirstBad)
}

// Unwrap returns ErrBatchMismatch.
func (e *MismatchError) Unwrap() error { return ErrBatchMismatch }
