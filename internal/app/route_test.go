package app_test

import (
	"math"
	"testing"

	"tripzy/internal/app"
	"tripzy/internal/domain"
)

func TestOptimize_IsPermutationFromStart(t *testing.T) {
	m := domain.DistanceMatrix{
		{0, 5, 2, 9},
		{5, 0, 4, 1},
		{2, 4, 0, 7},
		{9, 1, 7, 0},
	}
	for start := 0; start < m.Size(); start++ {
		route, err := app.Optimize(m, start)
		if err != nil {
			t.Fatalf("start %d: %v", start, err)
		}
		if route.Order[0] != start {
			t.Fatalf("start %d: route begins at %d", start, route.Order[0])
		}
		seen := map[int]bool{}
		for _, idx := range route.Order {
			if seen[idx] {
				t.Fatalf("start %d: index %d visited twice in %v", start, idx, route.Order)
			}
			seen[idx] = true
		}
		if len(route.Order) != m.Size() {
			t.Fatalf("start %d: route length %d, want %d", start, len(route.Order), m.Size())
		}
	}
}

func TestOptimize_GreedyOrderAndTotal(t *testing.T) {
	m := domain.DistanceMatrix{
		{0, 5, 2, 9},
		{5, 0, 4, 1},
		{2, 4, 0, 7},
		{9, 1, 7, 0},
	}
	route, err := app.Optimize(m, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// 0 -> 2 (2), 2 -> 1 (4), 1 -> 3 (1)
	want := []int{0, 2, 1, 3}
	for i, idx := range want {
		if route.Order[i] != idx {
			t.Fatalf("order %v, want %v", route.Order, want)
		}
	}
	if math.Abs(route.TotalKm-7) > 1e-12 {
		t.Fatalf("total %v, want 7", route.TotalKm)
	}
}

func TestOptimize_SingleLocation(t *testing.T) {
	route, err := app.Optimize(domain.DistanceMatrix{{0}}, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(route.Order) != 1 || route.Order[0] != 0 || route.TotalKm != 0 {
		t.Fatalf("unexpected route: %+v", route)
	}
}

func TestOptimize_AllZeroMatrixKeepsInputOrder(t *testing.T) {
	m := domain.DistanceMatrix{
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	}
	route, err := app.Optimize(m, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []int{0, 1, 2}
	for i := range want {
		if route.Order[i] != want[i] {
			t.Fatalf("order %v, want %v", route.Order, want)
		}
	}
	if route.TotalKm != 0 {
		t.Fatalf("total %v, want 0", route.TotalKm)
	}
}

func TestOptimize_TieBreaksToLowestIndex(t *testing.T) {
	// from 0, indices 1 and 2 are equidistant; 1 must win
	m := domain.DistanceMatrix{
		{0, 3, 3},
		{3, 0, 1},
		{3, 1, 0},
	}
	route, err := app.Optimize(m, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []int{0, 1, 2}
	for i := range want {
		if route.Order[i] != want[i] {
			t.Fatalf("order %v, want %v", route.Order, want)
		}
	}
}

func TestOptimize_BadStartIndex(t *testing.T) {
	if _, err := app.Optimize(domain.DistanceMatrix{{0}}, 3); err == nil {
		t.Fatal("expected error for out-of-range start index")
	}
	if _, err := app.Optimize(domain.DistanceMatrix{}, 0); err == nil {
		t.Fatal("expected error for empty matrix")
	}
}
