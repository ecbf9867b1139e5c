// Package classmap assigns coordinates to the class of their nearest medoid.
//
// An [Assigner] is built once from the ordered medoid set of a run. Classes
// get dense ids 0..K-1 in input order. Lookups go through a KD-tree over the
// medoids' 3-D sphere embedding ([geo.Point.Cartesian]), giving expected
// O(log K) queries that are safe to issue from any number of goroutines.
//
//	a, err := classmap.New(medoids)
//	if err != nil {
//	    return err
//	}
//	class := a.Assign(geo.Point{Lat: 51.05, Lon: 3.72})
//
// # Duplicates
//
// Medoids sharing a position with an earlier medoid are shadowed: they keep
// their id, so K still matches the medoid file, but they are never assigned.
// [WithRejectDuplicates] turns this into a construction error.
package classmap
