package app

import (
	"context"
	"fmt"

	"tripzy/internal/domain"
)

// Optimize orders matrix indices with the nearest-neighbor heuristic,
// starting from startIndex. Ties on distance break to the lowest index.
// The result is an open path visiting every index exactly once; it does
// not close the loop back to the start.
func Optimize(m domain.DistanceMatrix, startIndex int) (domain.Route, error) {
	n := m.Size()
	if n == 0 {
		return domain.Route{}, fmt.Errorf("optimize: %w: empty matrix", domain.ErrValidation)
	}
	if startIndex < 0 || startIndex >= n {
		return domain.Route{}, fmt.Errorf("optimize: %w: start index %d out of range [0,%d)", domain.ErrValidation, startIndex, n)
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	order = append(order, startIndex)
	visited[startIndex] = true

	current := startIndex
	var total float64
	for len(order) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			// strict < keeps the first (lowest) index on ties
			if next == -1 || m.At(current, j) < m.At(current, next) {
				next = j
			}
		}
		total += m.At(current, next)
		order = append(order, next)
		visited[next] = true
		current = next
	}

	return domain.Route{Order: order, TotalKm: total}, nil
}

// TripService turns a start location plus destinations into a resolved,
// distance-optimized visiting order.
type TripService struct {
	geo *GeoService
}

func NewTripService(geo *GeoService) *TripService { return &TripService{geo: geo} }

// PlanRoute resolves all locations, builds the pairwise distance matrix and
// optimizes the visiting order starting from the initial location (index 0).
func (s *TripService) PlanRoute(ctx context.Context, initial domain.LocationDescriptor, destinations []domain.LocationDescriptor) (domain.TripPlan, error) {
	all := make([]domain.LocationDescriptor, 0, len(destinations)+1)
	all = append(all, initial)
	all = append(all, destinations...)

	resolved, err := s.geo.ResolveAll(ctx, all)
	if err != nil {
		return domain.TripPlan{}, err
	}

	points := make([]domain.GeoPoint, len(resolved))
	for i, r := range resolved {
		points[i] = r.Point
	}

	route, err := Optimize(BuildMatrix(points), 0)
	if err != nil {
		return domain.TripPlan{}, err
	}

	ordered := make([]domain.ResolvedLocation, len(route.Order))
	for i, idx := range route.Order {
		ordered[i] = resolved[idx]
	}
	return domain.TripPlan{
		Locations: resolved,
		Order:     route.Order,
		Ordered:   ordered,
		TotalKm:   route.TotalKm,
	}, nil
}
