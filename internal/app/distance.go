package app

import (
	"math"

	"tripzy/internal/domain"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two points in km.
// Pure: Haversine(p, p) == 0 exactly, and it is symmetric in its arguments.
func Haversine(a, b domain.GeoPoint) float64 {
	if a == b {
		return 0
	}
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 { return deg * (math.Pi / 180) }

// BuildMatrix computes the full pairwise distance table for points.
// Row/column i of the result corresponds to points[i]; the route optimizer
// relies on that alignment.
func BuildMatrix(points []domain.GeoPoint) domain.DistanceMatrix {
	n := len(points)
	m := make(domain.DistanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(points[i], points[j])
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}
