package domain

import "context"

// ProviderGateway is the single seam to the external geocoding and lodging
// providers. The auth token it caches is the only cross-request mutable
// state in the system; refresh is single-flight.
type ProviderGateway interface {
	// GetToken returns a valid lodging-provider token, refreshing lazily.
	GetToken(ctx context.Context) (string, error)

	// ForwardGeocode resolves a query to its single best match.
	ForwardGeocode(ctx context.Context, query string) (ResolvedLocation, error)

	// ReverseGeocode resolves coordinates to a display address.
	ReverseGeocode(ctx context.Context, pt GeoPoint) (ResolvedLocation, error)

	// SearchPlaces finds points of interest matching a free-text query,
	// bounded to radiusM meters around near when near is non-nil.
	SearchPlaces(ctx context.Context, query string, near *GeoPoint, radiusM int) ([]Place, error)

	// SearchLodgingByCity lists hotels around a city center.
	SearchLodgingByCity(ctx context.Context, cityCode string, radiusKm int) ([]Hotel, error)

	// FetchLodgingOffers returns priced offers for the given hotel ids.
	FetchLodgingOffers(ctx context.Context, hotelIDs []string, stay StaySearch, roomQuantity int) ([]HotelOffers, error)
}

type ItineraryRepository interface {
	SaveItinerary(ctx context.Context, it Itinerary) (int64, error)
	GetItinerary(ctx context.Context, id int64) (Itinerary, error)
	ListItineraries(ctx context.Context, userID string, limit int) ([]Itinerary, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
