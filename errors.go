package geoclass

import (
	"errors"
	"fmt"

	"github.com/hupe1980/geoclass/internal/resource"
	"github.com/hupe1980/geoclass/nb"
	"github.com/hupe1980/geoclass/results"
)

var (
	// ErrConfig is returned by New when the parameters break their contract.
	ErrConfig = errors.New("invalid configuration")

	// ErrInvariant marks data or model corruption detected mid-run.
	ErrInvariant = results.ErrInvariant

	// ErrBatchMismatch is returned when batch result files disagree on their
	// test ids.
	ErrBatchMismatch = results.ErrBatchMismatch

	// ErrManifestMismatch is returned when batch files on disk were produced
	// by a differently planned run.
	ErrManifestMismatch = results.ErrManifestMismatch

	// ErrEmptyCorpus is returned when no training item survives parsing.
	ErrEmptyCorpus = nb.ErrEmptyCorpus

	// ErrMemoryLimitExceeded is returned when a batch table does not fit the
	// memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// BatchError wraps the failure of one batch.
//
// The original error can be accessed via errors.Unwrap.
type BatchError struct {
	Batch int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d failed: %v", e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
