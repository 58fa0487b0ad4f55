package domain

import "context"

type HotelRepository interface {
	// Write paths (seeding)
	UpsertHotel(ctx context.Context, h Hotel) error
	UpsertRoom(ctx context.Context, r Room) error

	// Read paths
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListRooms(ctx context.Context, hotelID int64) ([]Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
}

type RestaurantRepository interface {
	UpsertRestaurant(ctx context.Context, r Restaurant) error
	UpsertTable(ctx context.Context, t Table) error

	// hotelID == nil lists every restaurant.
	ListRestaurants(ctx context.Context, hotelID *int64) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (Restaurant, error)
	ListTables(ctx context.Context, restaurantID int64) ([]Table, error)
	GetTable(ctx context.Context, id int64) (Table, error)
}

type UserRepository interface {
	// Create assigns u.ID; ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	// Get returns ErrNotFound for unknown tokens.
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

type BookingRepository interface {
	// Create assigns b.ID and b.CreatedAt.
	Create(ctx context.Context, b *HotelBooking) error
	Get(ctx context.Context, id string) (HotelBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]HotelBooking, error)
}

// ConflictCheck inspects the reservations already held on the requested table and date.
type ConflictCheck func(existing []RestaurantReservation) error

type ReservationRepository interface {
	// Create runs check against the reservations on r.TableID/r.Date and inserts r
	// atomically when check returns nil. It assigns r.ID and r.CreatedAt.
	Create(ctx context.Context, r *RestaurantReservation, check ConflictCheck) error
	Get(ctx context.Context, id string) (RestaurantReservation, error)
	ListByUser(ctx context.Context, userID int64) ([]RestaurantReservation, error)
}

type PaymentRepository interface {
	// Settle records p and marks the booking or reservation it references as
	// confirmed in one step: either both are written or neither is. It returns
	// ErrNotFound when the referenced record is missing and assigns p.ID and p.CreatedAt.
	Settle(ctx context.Context, p *Payment) error
	// Latest* return (nil, nil) when nothing was paid yet.
	LatestForBooking(ctx context.Context, bookingID string) (*Payment, error)
	LatestForReservation(ctx context.Context, reservationID string) (*Payment, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

type TokenIssuer interface {
	Issue(u User) (string, error)
	// Verify checks the token's signature and returns the user id it was issued to.
	// Failures wrap ErrUnauthorized.
	Verify(token string) (int64, error)
}
