package memory

import (
	"context"
	"sync"
	"time"

	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/storage"
)

// Ledgers are append-only slices. Status is the only mutable field and only
// PaymentRepo.Settle changes it.

type BookingRepo struct {
	mu       sync.RWMutex
	bookings []domain.HotelBooking
}

func NewBookingRepo() *BookingRepo { return &BookingRepo{} }

func (r *BookingRepo) Create(_ context.Context, b *domain.HotelBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = storage.NewID(domain.BookingIDPrefix)
	b.CreatedAt = time.Now().UTC()
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *BookingRepo) Get(_ context.Context, id string) (domain.HotelBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.HotelBooking{}, domain.ErrNotFound
}

// confirmLocked flips one booking to confirmed; r.mu must be held.
func (r *BookingRepo) confirmLocked(id string) bool {
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = domain.StatusConfirmed
			return true
		}
	}
	return false
}

func (r *BookingRepo) ListByUser(_ context.Context, userID int64) ([]domain.HotelBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.HotelBooking{}
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type ReservationRepo struct {
	mu           sync.RWMutex
	reservations []domain.RestaurantReservation
}

func NewReservationRepo() *ReservationRepo { return &ReservationRepo{} }

func (r *ReservationRepo) Create(_ context.Context, res *domain.RestaurantReservation, check domain.ConflictCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if check != nil {
		var sameSlot []domain.RestaurantReservation
		for _, e := range r.reservations {
			if e.TableID == res.TableID && e.Date == res.Date {
				sameSlot = append(sameSlot, e)
			}
		}
		if err := check(sameSlot); err != nil {
			return err
		}
	}
	res.ID = storage.NewID(domain.ReservationIDPrefix)
	res.CreatedAt = time.Now().UTC()
	r.reservations = append(r.reservations, *res)
	return nil
}

func (r *ReservationRepo) Get(_ context.Context, id string) (domain.RestaurantReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.reservations {
		if res.ID == id {
			return res, nil
		}
	}
	return domain.RestaurantReservation{}, domain.ErrNotFound
}

// confirmLocked flips one reservation to confirmed; r.mu must be held.
func (r *ReservationRepo) confirmLocked(id string) bool {
	for i := range r.reservations {
		if r.reservations[i].ID == id {
			r.reservations[i].Status = domain.StatusConfirmed
			return true
		}
	}
	return false
}

func (r *ReservationRepo) ListByUser(_ context.Context, userID int64) ([]domain.RestaurantReservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.RestaurantReservation{}
	for _, res := range r.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

// PaymentRepo settles against the booking and reservation ledgers it was built with.
// Lock order is payments first, then the ledger being confirmed.
type PaymentRepo struct {
	mu           sync.RWMutex
	payments     []domain.Payment
	bookings     *BookingRepo
	reservations *ReservationRepo
}

func NewPaymentRepo(bookings *BookingRepo, reservations *ReservationRepo) *PaymentRepo {
	return &PaymentRepo{bookings: bookings, reservations: reservations}
}

func (r *PaymentRepo) Settle(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found bool
	switch {
	case p.BookingID != nil:
		r.bookings.mu.Lock()
		found = r.bookings.confirmLocked(*p.BookingID)
		r.bookings.mu.Unlock()
	case p.ReservationID != nil:
		r.reservations.mu.Lock()
		found = r.reservations.confirmLocked(*p.ReservationID)
		r.reservations.mu.Unlock()
	}
	if !found {
		return domain.ErrNotFound
	}

	p.ID = storage.NewID(domain.PaymentIDPrefix)
	p.CreatedAt = time.Now().UTC()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *PaymentRepo) LatestForBooking(_ context.Context, bookingID string) (*domain.Payment, error) {
	return r.latest(func(p domain.Payment) bool { return p.BookingID != nil && *p.BookingID == bookingID }), nil
}

func (r *PaymentRepo) LatestForReservation(_ context.Context, reservationID string) (*domain.Payment, error) {
	return r.latest(func(p domain.Payment) bool { return p.ReservationID != nil && *p.ReservationID == reservationID }), nil
}

func (r *PaymentRepo) latest(match func(domain.Payment) bool) *domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.payments) - 1; i >= 0; i-- {
		if match(r.payments[i]) {
			p := r.payments[i]
			return &p
		}
	}
	return nil
}
