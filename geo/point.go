package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius in kilometres.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether p lies within the latitude/longitude domain.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the great-circle distance between p and q in kilometres.
func (p Point) Distance(q Point) float64 {
	phi1 := radians(p.Lat)
	phi2 := radians(q.Lat)
	dLambda := radians(q.Lon - p.Lon)

	v1 := math.Cos(phi2) * math.Sin(dLambda)
	v2 := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	v3 := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	return math.Atan2(math.Sqrt(v1*v1+v2*v2), v3) * EarthRadiusKm
}

// Haversine returns the haversine distance between p and q in kilometres.
func (p Point) Haversine(q Point) float64 {
	dLat := radians(q.Lat - p.Lat)
	dLon := radians(q.Lon - p.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(p.Lat))*math.Cos(radians(q.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Cartesian returns the 3-D embedding of p on a sphere of radius EarthRadiusKm.
func (p Point) Cartesian() [3]float64 {
	lat := radians(p.Lat)
	lon := radians(p.Lon)
	return [3]float64{
		EarthRadiusKm * math.Cos(lat) * math.Cos(lon),
		EarthRadiusKm * math.Cos(lat) * math.Sin(lon),
		EarthRadiusKm * math.Sin(lat),
	}
}

func (p Point) String() string {
	return fmt.Sprintf("[%g,%g]", p.Lat, p.Lon)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
