package app_test

import (
	"context"
	"sync"
	"sync/atomic"

	"tripzy/internal/domain"
)

// fakeGateway is a programmable ProviderGateway for service tests.
type fakeGateway struct {
	geocode  map[string]domain.ResolvedLocation
	geocodeE map[string]error
	places   map[string][]domain.Place
	hotels   map[string][]domain.Hotel
	hotelsE  map[string]error
	offers   []domain.HotelOffers

	mu            sync.Mutex
	geocodeCalls  int32
	searchedCodes []string
}

func (f *fakeGateway) GetToken(ctx context.Context) (string, error) { return "tok", nil }

func (f *fakeGateway) ForwardGeocode(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	atomic.AddInt32(&f.geocodeCalls, 1)
	if err, ok := f.geocodeE[query]; ok {
		return domain.ResolvedLocation{}, err
	}
	loc, ok := f.geocode[query]
	if !ok {
		return domain.ResolvedLocation{}, domain.ErrNotFound
	}
	return loc, nil
}

func (f *fakeGateway) ReverseGeocode(ctx context.Context, pt domain.GeoPoint) (domain.ResolvedLocation, error) {
	return domain.ResolvedLocation{Name: "reverse", Address: "Somewhere, Earth", Point: pt}, nil
}

func (f *fakeGateway) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, radiusM int) ([]domain.Place, error) {
	return f.places[query], nil
}

func (f *fakeGateway) SearchLodgingByCity(ctx context.Context, cityCode string, radiusKm int) ([]domain.Hotel, error) {
	f.mu.Lock()
	f.searchedCodes = append(f.searchedCodes, cityCode)
	f.mu.Unlock()
	if err, ok := f.hotelsE[cityCode]; ok {
		return nil, err
	}
	return f.hotels[cityCode], nil
}

func (f *fakeGateway) FetchLodgingOffers(ctx context.Context, hotelIDs []string, stay domain.StaySearch, roomQuantity int) ([]domain.HotelOffers, error) {
	return f.offers, nil
}

func pstr(s string) *string { return &s }
