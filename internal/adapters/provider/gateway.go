// internal/adapters/provider/gateway.go
package provider

import (
	"context"

	"tripzy/internal/adapters/amadeus"
	"tripzy/internal/adapters/nominatim"
	"tripzy/internal/domain"
)

// Gateway composes the geocoding and lodging clients behind the single
// domain.ProviderGateway port.
type Gateway struct {
	geo     *nominatim.Client
	lodging *amadeus.Client
}

func New(geo *nominatim.Client, lodging *amadeus.Client) *Gateway {
	return &Gateway{geo: geo, lodging: lodging}
}

func (g *Gateway) GetToken(ctx context.Context) (string, error) {
	return g.lodging.Token(ctx)
}

func (g *Gateway) ForwardGeocode(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	return g.geo.Forward(ctx, query)
}

func (g *Gateway) ReverseGeocode(ctx context.Context, pt domain.GeoPoint) (domain.ResolvedLocation, error) {
	return g.geo.Reverse(ctx, pt)
}

func (g *Gateway) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, radiusM int) ([]domain.Place, error) {
	return g.geo.SearchPlaces(ctx, query, near, radiusM)
}

func (g *Gateway) SearchLodgingByCity(ctx context.Context, cityCode string, radiusKm int) ([]domain.Hotel, error) {
	return g.lodging.SearchByCity(ctx, cityCode, radiusKm)
}

func (g *Gateway) FetchLodgingOffers(ctx context.Context, hotelIDs []string, stay domain.StaySearch, roomQuantity int) ([]domain.HotelOffers, error) {
	return g.lodging.Offers(ctx, hotelIDs, stay, roomQuantity)
}
