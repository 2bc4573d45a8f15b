package app

import (
	"context"
	"fmt"
	"time"

	"tripzy/internal/domain"
)

// ItineraryService wraps the repository with cache-aside reads.
type ItineraryService struct {
	repo     domain.ItineraryRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewItineraryService(r domain.ItineraryRepository, c domain.Cache, ttl time.Duration) *ItineraryService {
	return &ItineraryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *ItineraryService) Save(ctx context.Context, it domain.Itinerary) (int64, error) {
	if it.UserID == "" || it.Title == "" || it.Destination == "" {
		return 0, fmt.Errorf("save itinerary: %w: userId, title and destination are required", domain.ErrValidation)
	}
	id, err := s.repo.SaveItinerary(ctx, it)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, itineraryKey(id))
	}
	return id, nil
}

func (s *ItineraryService) Get(ctx context.Context, id int64) (domain.Itinerary, error) {
	key := itineraryKey(id)
	var it domain.Itinerary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &it); ok {
			return it, nil
		}
	}
	it, err := s.repo.GetItinerary(ctx, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, it, int(s.cacheTTL.Seconds()))
	}
	return it, nil
}

func (s *ItineraryService) List(ctx context.Context, userID string, limit int) ([]domain.Itinerary, error) {
	if userID == "" {
		return nil, fmt.Errorf("list itineraries: %w: userId is required", domain.ErrValidation)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListItineraries(ctx, userID, limit)
}

func itineraryKey(id int64) string { return fmt.Sprintf("itinerary:%d", id) }
