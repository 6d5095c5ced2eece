// Package geo computes great-circle distances between restaurant and
// delivery-partner coordinates.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used by the Haversine formula.
const EarthRadiusKM = 6371.0

type Point struct {
	Lat float64
	Lon float64
}

// DistanceKM returns the great-circle distance between two points in
// kilometers, via the Haversine formula.
func DistanceKM(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lon1 := radians(a.Lon)
	lat2 := radians(b.Lat)
	lon2 := radians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// WithinRadius reports whether b lies within radiusKM of a.
func WithinRadius(a, b Point, radiusKM float64) bool {
	return DistanceKM(a, b) <= radiusKM
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
