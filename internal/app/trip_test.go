package app_test

import (
	"context"
	"math"
	"testing"

	"tripzy/internal/app"
	"tripzy/internal/domain"
)

func TestPlanRoute_ParisTokyoScenario(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	trip := app.NewTripService(app.NewGeoService(gw, 0))

	plan, err := trip.PlanRoute(context.Background(),
		domain.TextDescriptor("Paris"),
		[]domain.LocationDescriptor{domain.TextDescriptor("Tokyo")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if len(plan.Order) != 2 || plan.Order[0] != 0 || plan.Order[1] != 1 {
		t.Fatalf("order %v, want [0 1]", plan.Order)
	}
	if math.Abs(plan.TotalKm-9714) > 10 {
		t.Fatalf("total %v km, want 9714 +/- 10", plan.TotalKm)
	}
	if plan.Ordered[0].Name != "Paris" || plan.Ordered[1].Name != "Tokyo" {
		t.Fatalf("ordered locations wrong: %+v", plan.Ordered)
	}
	if len(plan.Locations) != 2 || plan.Locations[0].Name != "Paris" {
		t.Fatalf("original order must be preserved: %+v", plan.Locations)
	}
}

func TestPlanRoute_PicksNearestFirst(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	trip := app.NewTripService(app.NewGeoService(gw, 0))

	// from Paris, Rome (~1106 km) beats Tokyo (~9714 km)
	plan, err := trip.PlanRoute(context.Background(),
		domain.TextDescriptor("Paris"),
		[]domain.LocationDescriptor{
			domain.TextDescriptor("Tokyo"),
			domain.TextDescriptor("Rome"),
		})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	wantNames := []string{"Paris", "Rome", "Tokyo"}
	for i, n := range wantNames {
		if plan.Ordered[i].Name != n {
			t.Fatalf("ordered %v, want %v", plan.Ordered, wantNames)
		}
	}
}

func TestPlanRoute_PropagatesResolutionFailure(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	trip := app.NewTripService(app.NewGeoService(gw, 0))

	_, err := trip.PlanRoute(context.Background(),
		domain.TextDescriptor("Paris"),
		[]domain.LocationDescriptor{domain.TextDescriptor("Atlantis")})
	if err == nil {
		t.Fatal("expected resolution failure to abort planning")
	}
}
