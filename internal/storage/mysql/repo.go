package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"hotel_reservation/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

// Repo is the catalog store: hotels, rooms, restaurants and tables.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// ---- writes ----

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	tags, err := valJSON(h.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID, h.Name, h.City, h.Country, h.Rating, h.PricePerNight, tags, valStr(h.Badge), h.Description)
	return err
}

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	amen, err := valJSON(rm.Amenities)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertRoomSQL,
		rm.ID, rm.HotelID, rm.RoomNumber, string(rm.Type), rm.Price, rm.Capacity, amen, rm.Available)
	return err
}

func (r *Repo) UpsertRestaurant(ctx context.Context, rs domain.Restaurant) error {
	_, err := r.db.ExecContext(ctx, upsertRestaurantSQL,
		rs.ID, rs.HotelID, rs.Name, rs.Cuisine, rs.Hours, rs.Description)
	return err
}

func (r *Repo) UpsertTable(ctx context.Context, t domain.Table) error {
	_, err := r.db.ExecContext(ctx, upsertTableSQL,
		t.ID, t.RestaurantID, t.Label, t.Capacity, t.PriceExtra, string(t.Category), t.Status)
	return err
}

// ---- hotels ----

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var tags []byte
	var badge sql.NullString
	if err := s.Scan(&h.ID, &h.Name, &h.City, &h.Country, &h.Rating, &h.PricePerNight, &tags, &badge, &h.Description); err != nil {
		return domain.Hotel{}, err
	}
	_ = json.Unmarshal(tags, &h.Tags)
	if badge.Valid {
		b := badge.String
		h.Badge = &b
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	var where []string
	var args []any
	if q.City != nil && strings.TrimSpace(*q.City) != "" {
		where = append(where, "LOWER(city) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*q.City))+"%")
	}
	if q.MinRating != nil {
		where = append(where, "rating >= ?")
		args = append(args, *q.MinRating)
	}
	if q.MaxPrice != nil {
		where = append(where, "price_per_night <= ?")
		args = append(args, *q.MaxPrice)
	}
	query := "SELECT " + hotelColumns + " FROM hotels"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, "SELECT "+hotelColumns+" FROM hotels WHERE id = ?", id))
	return h, notFound(err)
}

// ---- rooms ----

func scanRoom(s rowScanner) (domain.Room, error) {
	var rm domain.Room
	var typ string
	var amen []byte
	if err := s.Scan(&rm.ID, &rm.HotelID, &rm.RoomNumber, &typ, &rm.Price, &rm.Capacity, &amen, &rm.Available); err != nil {
		return domain.Room{}, err
	}
	rm.Type = domain.RoomType(typ)
	_ = json.Unmarshal(amen, &rm.Amenities)
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE hotel_id = ? ORDER BY id", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id))
	return rm, notFound(err)
}

// ---- restaurants ----

func scanRestaurant(s rowScanner) (domain.Restaurant, error) {
	var rs domain.Restaurant
	err := s.Scan(&rs.ID, &rs.HotelID, &rs.Name, &rs.Cuisine, &rs.Hours, &rs.Description)
	return rs, err
}

func (r *Repo) ListRestaurants(ctx context.Context, hotelID *int64) ([]domain.Restaurant, error) {
	query := "SELECT " + restaurantColumns + " FROM restaurants"
	var args []any
	if hotelID != nil {
		query += " WHERE hotel_id = ?"
		args = append(args, *hotelID)
	}
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Restaurant{}
	for rows.Next() {
		rs, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (r *Repo) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	rs, err := scanRestaurant(r.db.QueryRowContext(ctx, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id))
	return rs, notFound(err)
}

// ---- tables ----

func scanTable(s rowScanner) (domain.Table, error) {
	var t domain.Table
	var cat string
	if err := s.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &t.PriceExtra, &cat, &t.Status); err != nil {
		return domain.Table{}, err
	}
	t.Category = domain.TableCategory(cat)
	return t, nil
}

func (r *Repo) ListTables(ctx context.Context, restaurantID int64) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tableColumns+" FROM restaurant_tables WHERE restaurant_id = ? ORDER BY id", restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) GetTable(ctx context.Context, id int64) (domain.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx, "SELECT "+tableColumns+" FROM restaurant_tables WHERE id = ?", id))
	return t, notFound(err)
}
