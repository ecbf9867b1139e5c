// Package results handles prediction records and their files.
//
// Every batch writes "id<TAB>localClass<TAB>score<TAB>featureCount" lines to
// "<classification>.<batch>". A [Merger] reads all batch files, checks that
// they cover the same test ids, keeps the best scoring record per id and
// writes the merged classification with global class ids.
//
//	m := results.NewMerger(batchSize, classCount, results.WithLogger(logger))
//	stats, err := m.Merge(ctx, paths, classification)
//
// A [Manifest] next to the classification file pins the batch plan so an
// interrupted run can only be resumed with the same plan.
package results
