package classmap

import "errors"

var (
	// ErrNoMedoids is returned when an assigner is built from an empty medoid set.
	ErrNoMedoids = errors.New("classmap: no medoids")

	// ErrDuplicateMedoid is returned by WithRejectDuplicates when two medoids
	// share a position.
	ErrDuplicateMedoid = errors.New("classmap: duplicate medoid")

	// ErrInvalidMedoid is returned for coordinates outside the lat/lon domain.
	ErrInvalidMedoid = errors.New("classmap: invalid medoid coordinate")
)
