package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"tripzy/internal/domain"
)

// GeoService resolves location descriptors through the provider gateway.
// A token-bucket gate (burst 1) spaces consecutive provider calls so batch
// resolution honors the geocoding provider's rate limit; descriptors that
// already carry coordinates bypass both the gate and the provider.
type GeoService struct {
	gw   domain.ProviderGateway
	gate *rate.Limiter
}

// NewGeoService builds a resolver whose provider calls are at least
// minDelay apart. minDelay <= 0 disables the gate (tests).
func NewGeoService(gw domain.ProviderGateway, minDelay time.Duration) *GeoService {
	g := rate.NewLimiter(rate.Inf, 1)
	if minDelay > 0 {
		g = rate.NewLimiter(rate.Every(minDelay), 1)
	}
	return &GeoService{gw: gw, gate: g}
}

// Resolve returns the canonical geocoded record for one descriptor.
// Already resolved descriptors are returned unchanged with no provider
// call. Failures carry the query that failed; no internal retry.
func (s *GeoService) Resolve(ctx context.Context, d domain.LocationDescriptor) (domain.ResolvedLocation, error) {
	if d.Kind == domain.KindResolved {
		return *d.Location, nil
	}
	q := d.Query()
	if q == "" {
		return domain.ResolvedLocation{}, fmt.Errorf("resolve: %w: empty query", domain.ErrValidation)
	}
	loc, err := s.gw.ForwardGeocode(ctx, q)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("resolve %q: %w", q, err)
	}
	// keep caller-supplied identity over provider naming
	if d.Kind == domain.KindPartial {
		loc.Name = d.Name
		if d.CityCode != nil {
			loc.CityCode = d.CityCode
		}
	}
	return loc, nil
}

// ReverseResolve maps coordinates back to a display address.
func (s *GeoService) ReverseResolve(ctx context.Context, pt domain.GeoPoint) (string, error) {
	if !pt.Valid() {
		return "", fmt.Errorf("reverse resolve: %w: coordinates out of range", domain.ErrValidation)
	}
	loc, err := s.gw.ReverseGeocode(ctx, pt)
	if err != nil {
		return "", fmt.Errorf("reverse resolve (%.4f,%.4f): %w", pt.Lat, pt.Lon, err)
	}
	return loc.Address, nil
}

// SearchPlaces finds points of interest matching a free-text query,
// optionally bounded to a radius (meters) around a center point.
func (s *GeoService) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, radiusM int) ([]domain.Place, error) {
	if query == "" {
		return nil, fmt.Errorf("search places: %w: query is required", domain.ErrValidation)
	}
	if near != nil && !near.Valid() {
		return nil, fmt.Errorf("search places: %w: coordinates out of range", domain.ErrValidation)
	}
	places, err := s.gw.SearchPlaces(ctx, query, near, radiusM)
	if err != nil {
		return nil, fmt.Errorf("search places %q: %w", query, err)
	}
	return places, nil
}

// ResolveAll resolves a batch in order, one output per input. Items already
// carrying coordinates pass through without waiting on the rate gate; all
// others wait, then hit the provider sequentially. Fail-fast: the first
// error aborts the batch with no partial results.
func (s *GeoService) ResolveAll(ctx context.Context, ds []domain.LocationDescriptor) ([]domain.ResolvedLocation, error) {
	out := make([]domain.ResolvedLocation, len(ds))
	for i, d := range ds {
		if d.Kind == domain.KindResolved {
			out[i] = *d.Location
			continue
		}
		if err := s.gate.Wait(ctx); err != nil {
			return nil, fmt.Errorf("resolve batch item %d: %w", i, err)
		}
		loc, err := s.Resolve(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("resolve batch item %d: %w", i, err)
		}
		out[i] = loc
	}
	return out, nil
}
