package nb

import "errors"

var (
	// ErrConsumed is returned when a CountTable is used after its conversion
	// to probabilities.
	ErrConsumed = errors.New("nb: count table already converted")

	// ErrEmptyCorpus is returned when no training item was processed.
	ErrEmptyCorpus = errors.New("nb: no training items")

	// ErrInvalidSmoothing is returned for unknown methods or out-of-range
	// parameters.
	ErrInvalidSmoothing = errors.New("nb: invalid smoothing")

	// ErrInvalidPrior is returned for unknown prior modes or weights.
	ErrInvalidPrior = errors.New("nb: invalid prior")
)
