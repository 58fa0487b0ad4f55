package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

type BookingService struct {
	auth         Authenticator
	hotels       domain.HotelRepository
	restaurants  domain.RestaurantRepository
	bookings     domain.BookingRepository
	reservations domain.ReservationRepository
	payments     domain.PaymentRepository
	latency      Latency
}

type BookingDeps struct {
	Auth         Authenticator
	Hotels       domain.HotelRepository
	Restaurants  domain.RestaurantRepository
	Bookings     domain.BookingRepository
	Reservations domain.ReservationRepository
	Payments     domain.PaymentRepository
	Latency      Latency
}

func NewBookingService(d BookingDeps) *BookingService {
	if d.Latency == nil {
		d.Latency = NoLatency{}
	}
	return &BookingService{
		auth:         d.Auth,
		hotels:       d.Hotels,
		restaurants:  d.Restaurants,
		bookings:     d.Bookings,
		reservations: d.Reservations,
		payments:     d.Payments,
		latency:      d.Latency,
	}
}

func (s *BookingService) CreateHotelBooking(ctx context.Context, token string, in domain.HotelBookingInput) (domain.HotelBookingSummary, error) {
	if err := s.latency.Wait(ctx, OpCreateBooking); err != nil {
		return domain.HotelBookingSummary{}, err
	}
	u, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return domain.HotelBookingSummary{}, err
	}
	if err := validateHotelBooking(in); err != nil {
		return domain.HotelBookingSummary{}, err
	}

	hotel, err := s.hotels.GetHotel(ctx, in.HotelID)
	if err != nil {
		return domain.HotelBookingSummary{}, fmt.Errorf("hotel %d: %w", in.HotelID, err)
	}
	room, err := s.hotels.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.HotelBookingSummary{}, fmt.Errorf("room %d: %w", in.RoomID, err)
	}
	if room.HotelID != hotel.ID {
		return domain.HotelBookingSummary{}, fmt.Errorf("room %d in hotel %d: %w", room.ID, hotel.ID, domain.ErrNotFound)
	}

	b := domain.HotelBooking{
		UserID:       u.ID,
		HotelID:      hotel.ID,
		RoomID:       room.ID,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		Guests:       in.Guests,
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactEmail: strings.TrimSpace(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		TotalPrice:   domain.BookingTotal(room.Price, domain.Nights(in.CheckIn, in.CheckOut)),
		Status:       domain.StatusPendingPayment,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return domain.HotelBookingSummary{}, fmt.Errorf("create booking: %w", err)
	}

	observability.ObserveBooking("hotel", "created")
	log.Info().Str("booking_id", b.ID).Int64("user_id", u.ID).Int64("room_id", room.ID).
		Float64("total", b.TotalPrice).Msg("hotel booking created")

	return domain.HotelBookingSummary{
		BookingID:  b.ID,
		Hotel:      hotel.Name,
		Room:       room.Type,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
	}, nil
}

func validateHotelBooking(in domain.HotelBookingInput) error {
	switch {
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return fmt.Errorf("%w: check-in and check-out are required", domain.ErrValidation)
	case !in.CheckOut.After(in.CheckIn):
		return fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	case in.Guests < 1 || in.Guests > domain.MaxGuests:
		return fmt.Errorf("%w: guests must be between 1 and %d", domain.ErrValidation, domain.MaxGuests)
	case strings.TrimSpace(in.ContactName) == "":
		return fmt.Errorf("%w: contact name is required", domain.ErrValidation)
	case strings.TrimSpace(in.ContactEmail) == "":
		return fmt.Errorf("%w: contact email is required", domain.ErrValidation)
	case strings.TrimSpace(in.ContactPhone) == "":
		return fmt.Errorf("%w: contact phone is required", domain.ErrValidation)
	}
	return nil
}

func (s *BookingService) CreateRestaurantReservation(ctx context.Context, token string, in domain.ReservationInput) (domain.ReservationSummary, error) {
	if err := s.latency.Wait(ctx, OpCreateReserve); err != nil {
		return domain.ReservationSummary{}, err
	}
	u, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return domain.ReservationSummary{}, err
	}

	day, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return domain.ReservationSummary{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	mins, err := domain.ClockMinutes(strings.TrimSpace(in.Time))
	if err != nil {
		return domain.ReservationSummary{}, err
	}
	if in.PartySize < 1 {
		return domain.ReservationSummary{}, fmt.Errorf("%w: party size must be at least 1", domain.ErrValidation)
	}

	restaurant, err := s.restaurants.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return domain.ReservationSummary{}, fmt.Errorf("restaurant %d: %w", in.RestaurantID, err)
	}
	table, err := s.restaurants.GetTable(ctx, in.TableID)
	if err != nil {
		return domain.ReservationSummary{}, fmt.Errorf("table %d: %w", in.TableID, err)
	}
	if table.RestaurantID != restaurant.ID {
		return domain.ReservationSummary{}, fmt.Errorf("table %d in restaurant %d: %w", table.ID, restaurant.ID, domain.ErrNotFound)
	}
	if in.PartySize > table.Capacity {
		return domain.ReservationSummary{}, fmt.Errorf("%w: party of %d exceeds table capacity %d", domain.ErrValidation, in.PartySize, table.Capacity)
	}

	r := domain.RestaurantReservation{
		UserID:       u.ID,
		RestaurantID: restaurant.ID,
		TableID:      table.ID,
		Date:         day.Format(domain.DateLayout),
		Time:         fmt.Sprintf("%02d:%02d", mins/60, mins%60),
		PartySize:    in.PartySize,
		Notes:        strings.TrimSpace(in.Notes),
		TablePrice:   table.PriceExtra,
		Status:       domain.StatusPendingPayment,
	}
	err = s.reservations.Create(ctx, &r, func(existing []domain.RestaurantReservation) error {
		for _, e := range existing {
			if domain.ReservationConflict(e, r) {
				return fmt.Errorf("table %d already reserved at %s on %s: %w", table.ID, e.Time, e.Date, domain.ErrConflict)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.ObserveBooking("restaurant", "conflict")
			return domain.ReservationSummary{}, err
		}
		return domain.ReservationSummary{}, fmt.Errorf("create reservation: %w", err)
	}

	observability.ObserveBooking("restaurant", "created")
	log.Info().Str("reservation_id", r.ID).Int64("user_id", u.ID).Int64("table_id", table.ID).
		Str("date", r.Date).Str("time", r.Time).Msg("restaurant reservation created")

	return domain.ReservationSummary{
		ReservationID: r.ID,
		Restaurant:    restaurant.Name,
		Table:         table.Label,
		Date:          r.Date,
		Time:          r.Time,
		PartySize:     r.PartySize,
		TablePrice:    r.TablePrice,
	}, nil
}

func (s *BookingService) ProcessPayment(ctx context.Context, token string, in domain.PaymentInput) (domain.Payment, error) {
	if err := s.latency.Wait(ctx, OpPayment); err != nil {
		return domain.Payment{}, err
	}
	u, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return domain.Payment{}, err
	}

	hasBooking := in.BookingID != nil && *in.BookingID != ""
	hasReservation := in.ReservationID != nil && *in.ReservationID != ""
	switch {
	case !hasBooking && !hasReservation:
		return domain.Payment{}, fmt.Errorf("%w: bookingId or reservationId is required", domain.ErrValidation)
	case hasBooking && hasReservation:
		return domain.Payment{}, fmt.Errorf("%w: pay for a booking or a reservation, not both", domain.ErrValidation)
	case in.Amount < 0:
		return domain.Payment{}, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}

	p := domain.Payment{
		UserID:        u.ID,
		Amount:        in.Amount,
		Method:        strings.TrimSpace(in.Method),
		Status:        domain.PaymentCompleted,
		TransactionID: newTransactionID(),
	}
	if p.Method == "" {
		p.Method = "card"
	}

	var kind string
	if hasBooking {
		b, err := s.bookings.Get(ctx, *in.BookingID)
		if err != nil {
			return domain.Payment{}, fmt.Errorf("booking %s: %w", *in.BookingID, err)
		}
		if b.UserID != u.ID {
			return domain.Payment{}, domain.ErrForbidden
		}
		if p.Amount == 0 {
			p.Amount = b.TotalPrice
		}
		p.BookingID = &b.ID
		kind = "hotel"
	} else {
		r, err := s.reservations.Get(ctx, *in.ReservationID)
		if err != nil {
			return domain.Payment{}, fmt.Errorf("reservation %s: %w", *in.ReservationID, err)
		}
		if r.UserID != u.ID {
			return domain.Payment{}, domain.ErrForbidden
		}
		if r.Status == domain.StatusCancelled {
			return domain.Payment{}, fmt.Errorf("reservation %s is cancelled: %w", r.ID, domain.ErrConflict)
		}
		if p.Amount == 0 {
			p.Amount = r.TablePrice
		}
		p.ReservationID = &r.ID
		kind = "restaurant"
	}

	if err := s.payments.Settle(ctx, &p); err != nil {
		return domain.Payment{}, fmt.Errorf("settle %s payment: %w", kind, err)
	}

	observability.ObserveBooking(kind, "paid")
	log.Info().Str("payment_id", p.ID).Str("transaction_id", p.TransactionID).Str("kind", kind).
		Float64("amount", p.Amount).Msg("payment recorded")
	return p, nil
}

// newTransactionID returns "TXN-" followed by 12 uppercase hex characters.
func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(hex[:12])
}

func (s *BookingService) BookingConfirmation(ctx context.Context, id string) (domain.BookingConfirmation, error) {
	if err := s.latency.Wait(ctx, OpConfirmation); err != nil {
		return domain.BookingConfirmation{}, err
	}
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return domain.BookingConfirmation{}, fmt.Errorf("booking %s: %w", id, err)
	}
	hotel, err := s.hotels.GetHotel(ctx, b.HotelID)
	if err != nil {
		return domain.BookingConfirmation{}, fmt.Errorf("hotel %d: %w", b.HotelID, err)
	}
	room, err := s.hotels.GetRoom(ctx, b.RoomID)
	if err != nil {
		return domain.BookingConfirmation{}, fmt.Errorf("room %d: %w", b.RoomID, err)
	}
	pay, err := s.payments.LatestForBooking(ctx, b.ID)
	if err != nil {
		return domain.BookingConfirmation{}, fmt.Errorf("latest payment: %w", err)
	}
	return domain.BookingConfirmation{
		Booking: domain.BookingDetails{
			HotelBooking: b,
			Hotel:        hotel.Name,
			Room:         room.Type,
			Location:     hotel.Location(),
		},
		Payment: pay,
	}, nil
}

func (s *BookingService) ReservationConfirmation(ctx context.Context, id string) (domain.ReservationConfirmation, error) {
	if err := s.latency.Wait(ctx, OpConfirmation); err != nil {
		return domain.ReservationConfirmation{}, err
	}
	r, err := s.reservations.Get(ctx, id)
	if err != nil {
		return domain.ReservationConfirmation{}, fmt.Errorf("reservation %s: %w", id, err)
	}
	restaurant, err := s.restaurants.GetRestaurant(ctx, r.RestaurantID)
	if err != nil {
		return domain.ReservationConfirmation{}, fmt.Errorf("restaurant %d: %w", r.RestaurantID, err)
	}
	table, err := s.restaurants.GetTable(ctx, r.TableID)
	if err != nil {
		return domain.ReservationConfirmation{}, fmt.Errorf("table %d: %w", r.TableID, err)
	}
	pay, err := s.payments.LatestForReservation(ctx, r.ID)
	if err != nil {
		return domain.ReservationConfirmation{}, fmt.Errorf("latest payment: %w", err)
	}
	return domain.ReservationConfirmation{
		Reservation: domain.ReservationDetails{
			RestaurantReservation: r,
			Restaurant:            restaurant.Name,
			Table:                 table.Label,
			Cuisine:               restaurant.Cuisine,
		},
		Payment: pay,
	}, nil
}

// UserBookings lists everything booked by userID. Callers may only list their own.
func (s *BookingService) UserBookings(ctx context.Context, token string, userID int64) (domain.UserBookings, error) {
	if err := s.latency.Wait(ctx, OpUserBookingList); err != nil {
		return domain.UserBookings{}, err
	}
	u, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return domain.UserBookings{}, err
	}
	if u.ID != userID {
		return domain.UserBookings{}, domain.ErrForbidden
	}
	hb, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return domain.UserBookings{}, fmt.Errorf("list bookings: %w", err)
	}
	rr, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return domain.UserBookings{}, fmt.Errorf("list reservations: %w", err)
	}
	return domain.UserBookings{Hotel: hb, Restaurant: rr}, nil
}
