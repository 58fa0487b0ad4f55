package app

import (
	"context"
	"fmt"

	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
)

// SeedService writes the static catalog into a repository and evicts the
// cache entries that would otherwise serve the previous snapshot.
type SeedService struct {
	hotels      domain.HotelRepository
	restaurants domain.RestaurantRepository
	cache       domain.Cache
}

func NewSeedService(h domain.HotelRepository, r domain.RestaurantRepository, cache domain.Cache) *SeedService {
	return &SeedService{hotels: h, restaurants: r, cache: cache}
}

// SeedHotel upserts one hotel with its rooms, restaurants and tables.
// Parents go first so the foreign keys hold.
func (s *SeedService) SeedHotel(ctx context.Context, c shared.Catalog, hotelID int64) error {
	var hotel *domain.Hotel
	for i := range c.Hotels {
		if c.Hotels[i].ID == hotelID {
			hotel = &c.Hotels[i]
			break
		}
	}
	if hotel == nil {
		return fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}

	if err := s.hotels.UpsertHotel(ctx, *hotel); err != nil {
		return fmt.Errorf("upsert hotel %d: %w", hotelID, err)
	}
	for _, r := range c.Rooms {
		if r.HotelID != hotelID {
			continue
		}
		if err := s.hotels.UpsertRoom(ctx, r); err != nil {
			return fmt.Errorf("upsert room %d: %w", r.ID, err)
		}
	}
	s.evict(ctx, HotelKey(hotelID), RoomsKey(hotelID))

	for _, rest := range c.Restaurants {
		if rest.HotelID != hotelID {
			continue
		}
		if err := s.restaurants.UpsertRestaurant(ctx, rest); err != nil {
			return fmt.Errorf("upsert restaurant %d: %w", rest.ID, err)
		}
		for _, t := range c.Tables {
			if t.RestaurantID != rest.ID {
				continue
			}
			if err := s.restaurants.UpsertTable(ctx, t); err != nil {
				return fmt.Errorf("upsert table %d: %w", t.ID, err)
			}
		}
		s.evict(ctx, TablesKey(rest.ID))
	}
	hid := hotelID
	s.evict(ctx, RestaurantsKey(&hid))
	return nil
}

// EvictLists drops the unfiltered list keys once every hotel is seeded.
// Filtered hotel lists expire with the cache TTL.
func (s *SeedService) EvictLists(ctx context.Context) {
	s.evict(ctx, HotelsKey(domain.HotelsQuery{}), RestaurantsKey(nil))
}

func (s *SeedService) evict(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}
