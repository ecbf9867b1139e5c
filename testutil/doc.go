// Package testutil provides testing utilities for geoclass.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source for coordinates and tags,
// and fixture writers for every input format the pipeline consumes.
//
// # Random Data
//
//	rng := testutil.NewRNG(4711)
//	medoids := rng.Points(16)
//	p := rng.Near(medoids[0], 0.5)
//
// # Fixtures
//
//	dir := t.TempDir()
//	corpus := testutil.WriteCorpus(t, dir, "train.txt", []testutil.Item{
//	    {Point: testutil.At(0, 0), Tags: []string{"beach", "sun"}},
//	})
//	vocab := testutil.WriteVocab(t, dir, "vocab.txt", "beach", "sun")
package testutil
