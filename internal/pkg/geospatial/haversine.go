// Package geospatial has small helpers for distances on the WGS 84 sphere.
package geospatial

import "math"

const (
	earthRadiusMeters = 6371000.0
	metersPerDegree   = 111320.0
)

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Box is a latitude/longitude rectangle.
type Box struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// BoundingBox returns a box that contains every point within radiusMeters
// of (lat, lon). It is a cheap prefilter before Haversine.
func BoundingBox(lat, lon, radiusMeters float64) Box {
	latDelta := radiusMeters / metersPerDegree
	lonDelta := 180.0
	if c := math.Cos(toRad(lat)); c > 1e-9 {
		lonDelta = math.Min(radiusMeters/(metersPerDegree*c), 180)
	}
	return Box{
		MinLat: lat - latDelta, MinLon: lon - lonDelta,
		MaxLat: lat + latDelta, MaxLon: lon + lonDelta,
	}
}

// Contains reports whether (lat, lon) lies inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
