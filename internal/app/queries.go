package app

import (
	"context"
	"fmt"
	"time"

	"hotel_reservation/internal/domain"
)

// CatalogService serves hotels, rooms, restaurants and tables through a read-through cache.
type CatalogService struct {
	hotels      domain.HotelRepository
	restaurants domain.RestaurantRepository
	cache       domain.Cache
	cacheTTL    time.Duration
	latency     Latency
}

func NewCatalogService(h domain.HotelRepository, r domain.RestaurantRepository, c domain.Cache, ttl time.Duration, l Latency) *CatalogService {
	if l == nil {
		l = NoLatency{}
	}
	return &CatalogService{hotels: h, restaurants: r, cache: c, cacheTTL: ttl, latency: l}
}

// Cache keys, shared with the seeder for invalidation.
func HotelKey(id int64) string           { return fmt.Sprintf("hotel:%d", id) }
func RoomsKey(hotelID int64) string      { return fmt.Sprintf("rooms:%d", hotelID) }
func TablesKey(restaurantID int64) string { return fmt.Sprintf("tables:%d", restaurantID) }

func RestaurantsKey(hotelID *int64) string {
	if hotelID == nil {
		return "restaurants:all"
	}
	return fmt.Sprintf("restaurants:%d", *hotelID)
}

func HotelsKey(q domain.HotelsQuery) string {
	key := "hotels"
	if q.City != nil {
		key += ":city=" + *q.City
	}
	if q.MinRating != nil {
		key += fmt.Sprintf(":min=%g", *q.MinRating)
	}
	if q.MaxPrice != nil {
		key += fmt.Sprintf(":max=%g", *q.MaxPrice)
	}
	return key
}

func (s *CatalogService) Hotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	if err := s.latency.Wait(ctx, OpHotels); err != nil {
		return nil, err
	}
	return cached(ctx, s, HotelsKey(q), func() ([]domain.Hotel, error) {
		return s.hotels.ListHotels(ctx, q)
	})
}

func (s *CatalogService) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	if err := s.latency.Wait(ctx, OpHotel); err != nil {
		return domain.Hotel{}, err
	}
	return cached(ctx, s, HotelKey(id), func() (domain.Hotel, error) {
		return s.hotels.GetHotel(ctx, id)
	})
}

func (s *CatalogService) Rooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	if err := s.latency.Wait(ctx, OpRooms); err != nil {
		return nil, err
	}
	return cached(ctx, s, RoomsKey(hotelID), func() ([]domain.Room, error) {
		if _, err := s.hotels.GetHotel(ctx, hotelID); err != nil {
			return nil, err
		}
		return s.hotels.ListRooms(ctx, hotelID)
	})
}

func (s *CatalogService) Restaurants(ctx context.Context, hotelID *int64) ([]domain.Restaurant, error) {
	if err := s.latency.Wait(ctx, OpRestaurants); err != nil {
		return nil, err
	}
	return cached(ctx, s, RestaurantsKey(hotelID), func() ([]domain.Restaurant, error) {
		return s.restaurants.ListRestaurants(ctx, hotelID)
	})
}

func (s *CatalogService) Tables(ctx context.Context, restaurantID int64) ([]domain.Table, error) {
	if err := s.latency.Wait(ctx, OpTables); err != nil {
		return nil, err
	}
	return cached(ctx, s, TablesKey(restaurantID), func() ([]domain.Table, error) {
		if _, err := s.restaurants.GetRestaurant(ctx, restaurantID); err != nil {
			return nil, err
		}
		return s.restaurants.ListTables(ctx, restaurantID)
	})
}

// cached returns the value under key, or loads and stores it. Cache errors are
// never fatal; a broken cache degrades to direct reads.
func cached[T any](ctx context.Context, s *CatalogService, key string, load func() (T, error)) (T, error) {
	var out T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}
