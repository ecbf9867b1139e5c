package dataset

import "errors"

var (
	// ErrParse marks a line that could not be parsed. Such lines are counted
	// and skipped.
	ErrParse = errors.New("dataset: parse error")

	// ErrFiltered marks a training line without any retained feature.
	ErrFiltered = errors.New("dataset: no retained features")

	// ErrUnknownFormat is returned by ParseFormat.
	ErrUnknownFormat = errors.New("dataset: unknown format")

	// ErrNoVocabulary is returned when an item format is read without a
	// vocabulary.
	ErrNoVocabulary = errors.New("dataset: vocabulary required")
)
