package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
)

type HotelRepo struct {
	mu     sync.RWMutex
	hotels map[int64]domain.Hotel
	rooms  map[int64]domain.Room
}

func NewHotelRepo() *HotelRepo {
	return &HotelRepo{hotels: map[int64]domain.Hotel{}, rooms: map[int64]domain.Room{}}
}

func (r *HotelRepo) UpsertHotel(_ context.Context, h domain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotels[h.ID] = h
	return nil
}

func (r *HotelRepo) UpsertRoom(_ context.Context, rm domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID] = rm
	return nil
}

func (r *HotelRepo) ListHotels(_ context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(r.hotels))
	for _, h := range r.hotels {
		if q.City != nil && !strings.Contains(strings.ToLower(h.City), strings.ToLower(*q.City)) {
			continue
		}
		if q.MinRating != nil && h.Rating < *q.MinRating {
			continue
		}
		if q.MaxPrice != nil && h.PricePerNight > *q.MaxPrice {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *HotelRepo) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (r *HotelRepo) ListRooms(_ context.Context, hotelID int64) ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Room{}
	for _, rm := range r.rooms {
		if rm.HotelID == hotelID {
			out = append(out, rm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *HotelRepo) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, nil
}

type RestaurantRepo struct {
	mu          sync.RWMutex
	restaurants map[int64]domain.Restaurant
	tables      map[int64]domain.Table
}

func NewRestaurantRepo() *RestaurantRepo {
	return &RestaurantRepo{restaurants: map[int64]domain.Restaurant{}, tables: map[int64]domain.Table{}}
}

func (r *RestaurantRepo) UpsertRestaurant(_ context.Context, rs domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restaurants[rs.ID] = rs
	return nil
}

func (r *RestaurantRepo) UpsertTable(_ context.Context, t domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.ID] = t
	return nil
}

func (r *RestaurantRepo) ListRestaurants(_ context.Context, hotelID *int64) ([]domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Restaurant{}
	for _, rs := range r.restaurants {
		if hotelID != nil && rs.HotelID != *hotelID {
			continue
		}
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RestaurantRepo) GetRestaurant(_ context.Context, id int64) (domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return rs, nil
}

func (r *RestaurantRepo) ListTables(_ context.Context, restaurantID int64) ([]domain.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Table{}
	for _, t := range r.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RestaurantRepo) GetTable(_ context.Context, id int64) (domain.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	return t, nil
}

// Seed loads a catalog into both repositories.
func Seed(ctx context.Context, c shared.Catalog, hotels domain.HotelRepository, restaurants domain.RestaurantRepository) error {
	for _, h := range c.Hotels {
		if err := hotels.UpsertHotel(ctx, h); err != nil {
			return err
		}
	}
	for _, rm := range c.Rooms {
		if err := hotels.UpsertRoom(ctx, rm); err != nil {
			return err
		}
	}
	for _, rs := range c.Restaurants {
		if err := restaurants.UpsertRestaurant(ctx, rs); err != nil {
			return err
		}
	}
	for _, t := range c.Tables {
		if err := restaurants.UpsertTable(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
