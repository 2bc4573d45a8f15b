package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"tripzy/internal/domain"
)

const defaultSearchRadiusKm = 5

// LodgingService fans lodging-inventory queries out per destination.
type LodgingService struct {
	gw     domain.ProviderGateway
	fanout int64
	topN   int
}

func NewLodgingService(gw domain.ProviderGateway, fanout, topN int) *LodgingService {
	if fanout <= 0 {
		fanout = 4
	}
	if topN <= 0 {
		topN = 10
	}
	return &LodgingService{gw: gw, fanout: int64(fanout), topN: topN}
}

// Aggregate queries lodging inventory for each destination that carries a
// city code; destinations without one are skipped, not errored. Calls run
// in parallel up to the configured fan-out. Fail-soft: a destination whose
// provider call fails yields an entry with Err set while siblings keep
// their results. Output entries follow input order.
func (s *LodgingService) Aggregate(ctx context.Context, dests []domain.Destination, stay domain.StaySearch) ([]domain.LodgingResult, error) {
	sem := semaphore.NewWeighted(s.fanout)
	results := make([]*domain.LodgingResult, len(dests))
	var wg sync.WaitGroup

	for i, d := range dests {
		if d.CityCode == nil || *d.CityCode == "" {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("lodging aggregate: %w", err)
		}
		wg.Add(1)
		go func(i int, name, code string) {
			defer wg.Done()
			defer sem.Release(1)

			entry := domain.LodgingResult{Destination: name, CityCode: code}
			hotels, err := s.gw.SearchLodgingByCity(ctx, code, defaultSearchRadiusKm)
			if err != nil {
				entry.Err = fmt.Sprintf("lodging search %s: %v", code, err)
			} else {
				if len(hotels) > s.topN {
					hotels = hotels[:s.topN]
				}
				entry.Hotels = hotels
			}
			results[i] = &entry
		}(i, d.Name, *d.CityCode)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lodging aggregate: %w", err)
	}

	out := make([]domain.LodgingResult, 0, len(dests))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Offers fetches priced offers for explicit hotel ids. Thin pass-through
// with validation; pricing figures are returned verbatim.
func (s *LodgingService) Offers(ctx context.Context, hotelIDs []string, stay domain.StaySearch, roomQuantity int) ([]domain.HotelOffers, error) {
	if len(hotelIDs) == 0 {
		return nil, fmt.Errorf("lodging offers: %w: no hotel ids", domain.ErrValidation)
	}
	if roomQuantity <= 0 {
		roomQuantity = 1
	}
	offers, err := s.gw.FetchLodgingOffers(ctx, hotelIDs, stay, roomQuantity)
	if err != nil {
		return nil, fmt.Errorf("lodging offers: %w", err)
	}
	return offers, nil
}
