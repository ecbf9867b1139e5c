// Package geo provides the coordinate primitive used by the classifier.
//
// A [Point] is a latitude/longitude pair in degrees. Distances are reported in
// kilometres on a sphere with radius [EarthRadiusKm].
//
// # Distances
//
//   - Distance: great-circle distance (atan2 form), the authoritative measure
//   - Haversine: haversine formulation of the same distance
//
// # Embedding
//
// [Point.Cartesian] maps a point onto the 3-D sphere of radius EarthRadiusKm.
// The embedding is only meant as a spatial index key: chord length is
// monotonic in great-circle distance, so nearest neighbours agree, and points
// on either side of the dateline stay close.
//
//	p := geo.Point{Lat: 51.05, Lon: 3.72}
//	km := p.Distance(geo.Point{Lat: 50.85, Lon: 4.35})
package geo
