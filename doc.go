// Package geoclass geotags media items from their textual tags.
//
// A training corpus of tagged items with known coordinates is mapped onto a
// fixed set of medoids (the classes). A multinomial Naive Bayes model is
// trained over the classes and every test item is assigned the class with
// the highest posterior score. The medoid of that class is its predicted
// location.
//
// # Batches
//
// The class×feature table of a large run does not fit in memory. The
// classes are therefore split into batches of equal size; each batch streams
// the whole corpus once, keeps only the counts of its own classes and scores
// every test item against them. The per-batch results are merged into one
// arg-max record per test item:
//
//	params := geoclass.Params{
//	    TrainingFile:       "train.txt.gz",
//	    TestFile:           "test.txt",
//	    TestFormat:         dataset.FormatTest,
//	    MedoidFile:         "medoids.txt",
//	    VocabularyFile:     "features.txt",
//	    ClassificationFile: "classification.txt",
//	    Smoothing:          nb.DirichletSmoothing(15000),
//	    Prior:              nb.Prior{Mode: nb.MaxLikelihood},
//	    MemoryBytes:        nb.MemoryFromGiB(8),
//	}
//	c, err := geoclass.New(ctx, params)
//	if err != nil { ... }
//	defer c.Close()
//	report, err := c.Run(ctx)
//
// The batch size is planned from the memory budget unless set explicitly.
// When no budget is given the physical memory of the host is used.
//
// # Resuming
//
// Every batch writes "<classification>.<index>" atomically. A run that finds
// the file of a batch skips it, so a failed run resumes at the first missing
// batch. The plan of a run is recorded in "<classification>.manifest.json";
// resuming with a different batch size, class count or feature count fails
// with ErrManifestMismatch since the batch files could not be merged.
//
// # Output
//
// The classification file holds "id\tclass\tscore\tfeatureCount" lines
// sorted by test id, where id is the 1-based line number of the item in the
// test file. Package reference turns it into coordinates.
package geoclass
