package app_test

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"tripzy/internal/app"
	"tripzy/internal/domain"
)

func stubLocations() map[string]domain.ResolvedLocation {
	return map[string]domain.ResolvedLocation{
		"Paris": {Name: "Paris", Address: "Paris, France", Point: paris},
		"Tokyo": {Name: "Tokyo", Address: "Tokyo, Japan", Point: tokyo},
		"Rome":  {Name: "Rome", Address: "Rome, Italy", Point: rome},
	}
}

func TestResolve_PassThroughSkipsProvider(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	geo := app.NewGeoService(gw, 0)

	already := domain.ResolvedLocation{Name: "Home", Address: "Home St", Point: rome}
	got, err := geo.Resolve(context.Background(), domain.ResolvedDescriptor(already))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(got, already) {
		t.Fatalf("pass-through changed the location: %+v", got)
	}
	if n := atomic.LoadInt32(&gw.geocodeCalls); n != 0 {
		t.Fatalf("expected no provider calls, got %d", n)
	}
}

func TestResolve_NotFoundAndEmptyQuery(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	geo := app.NewGeoService(gw, 0)

	if _, err := geo.Resolve(context.Background(), domain.TextDescriptor("Atlantis")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := geo.Resolve(context.Background(), domain.TextDescriptor("")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestResolveAll_PreservesInputOrder(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	geo := app.NewGeoService(gw, 0)

	known := domain.ResolvedLocation{Name: "B", Address: "B St", Point: rome}
	in := []domain.LocationDescriptor{
		domain.TextDescriptor("Paris"),
		domain.ResolvedDescriptor(known),
		domain.TextDescriptor("Tokyo"),
	}
	out, err := geo.ResolveAll(context.Background(), in)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	if out[0].Point != paris || out[1].Point != rome || out[2].Point != tokyo {
		t.Fatalf("output order does not match input order: %+v", out)
	}
	if n := atomic.LoadInt32(&gw.geocodeCalls); n != 2 {
		t.Fatalf("expected 2 provider calls (pass-through excluded), got %d", n)
	}
}

func TestResolveAll_RateSpacing(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	const delay = 50 * time.Millisecond
	geo := app.NewGeoService(gw, delay)

	in := []domain.LocationDescriptor{
		domain.TextDescriptor("Paris"),
		domain.TextDescriptor("Tokyo"),
		domain.TextDescriptor("Rome"),
	}
	start := time.Now()
	if _, err := geo.ResolveAll(context.Background(), in); err != nil {
		t.Fatalf("err: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Fatalf("elapsed %v, want >= %v (rate-limit spacing)", elapsed, 2*delay)
	}
}

func TestResolveAll_FailFast(t *testing.T) {
	gw := &fakeGateway{
		geocode:  stubLocations(),
		geocodeE: map[string]error{"Tokyo": domain.ErrProvider},
	}
	geo := app.NewGeoService(gw, 0)

	in := []domain.LocationDescriptor{
		domain.TextDescriptor("Paris"),
		domain.TextDescriptor("Tokyo"),
		domain.TextDescriptor("Rome"),
	}
	out, err := geo.ResolveAll(context.Background(), in)
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("want ErrProvider, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial results, got %+v", out)
	}
	// Rome never attempted
	if n := atomic.LoadInt32(&gw.geocodeCalls); n != 2 {
		t.Fatalf("expected 2 provider calls before abort, got %d", n)
	}
}

func TestResolveAll_Cancellation(t *testing.T) {
	gw := &fakeGateway{geocode: stubLocations()}
	geo := app.NewGeoService(gw, time.Hour) // gate will block on the 2nd item

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	in := []domain.LocationDescriptor{
		domain.TextDescriptor("Paris"),
		domain.TextDescriptor("Tokyo"),
	}
	if _, err := geo.ResolveAll(ctx, in); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestSearchPlaces(t *testing.T) {
	gw := &fakeGateway{places: map[string][]domain.Place{
		"restaurants": {{Name: "Trattoria da Enzo", Point: rome, Type: "restaurant", Category: "amenity"}},
	}}
	geo := app.NewGeoService(gw, 0)

	got, err := geo.SearchPlaces(context.Background(), "restaurants", &rome, 5000)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Trattoria da Enzo" {
		t.Fatalf("unexpected places: %+v", got)
	}

	if _, err := geo.SearchPlaces(context.Background(), "", nil, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for empty query, got %v", err)
	}
	bad := domain.GeoPoint{Lat: 91}
	if _, err := geo.SearchPlaces(context.Background(), "restaurants", &bad, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for out-of-range center, got %v", err)
	}
}

func TestReverseResolve(t *testing.T) {
	gw := &fakeGateway{}
	geo := app.NewGeoService(gw, 0)

	addr, err := geo.ReverseResolve(context.Background(), rome)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if addr != "Somewhere, Earth" {
		t.Fatalf("unexpected address %q", addr)
	}
	if _, err := geo.ReverseResolve(context.Background(), domain.GeoPoint{Lat: 91}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation for out-of-range point, got %v", err)
	}
}
