package domain

import (
	"fmt"
	"math"
	"time"
)

type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCancelled      BookingStatus = "cancelled" // restaurant reservations only
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// ReservationWindow is the minimum distance between two start times on the same table and date.
	ReservationWindow = 2 * time.Hour

	MaxGuests = 10
)

type HotelBooking struct {
	ID           string        `json:"bookingId"`
	UserID       int64         `json:"userId"`
	HotelID      int64         `json:"hotelId"`
	RoomID       int64         `json:"roomId"`
	CheckIn      time.Time     `json:"checkIn"`
	CheckOut     time.Time     `json:"checkOut"`
	Guests       int           `json:"guests"`
	ContactName  string        `json:"contactName"`
	ContactEmail string        `json:"contactEmail"`
	ContactPhone string        `json:"contactPhone"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type RestaurantReservation struct {
	ID           string        `json:"reservationId"`
	UserID       int64         `json:"userId"`
	RestaurantID int64         `json:"restaurantId"`
	TableID      int64         `json:"tableId"`
	Date         string        `json:"date"` // YYYY-MM-DD
	Time         string        `json:"time"` // HH:MM
	PartySize    int           `json:"partySize"`
	Notes        string        `json:"notes"`
	TablePrice   float64       `json:"tablePrice"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

const PaymentCompleted = "completed"

type Payment struct {
	ID            string    `json:"paymentId"`
	UserID        int64     `json:"userId"`
	BookingID     *string   `json:"bookingId,omitempty"`
	ReservationID *string   `json:"reservationId,omitempty"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ---- inputs ----

type HotelBookingInput struct {
	HotelID      int64
	RoomID       int64
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	ContactName  string
	ContactEmail string
	ContactPhone string
}

type ReservationInput struct {
	RestaurantID int64
	TableID      int64
	Date         string
	Time         string
	PartySize    int
	Notes        string
}

type PaymentInput struct {
	BookingID     *string `json:"bookingId"`
	ReservationID *string `json:"reservationId"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
}

// ---- read models ----

type HotelBookingSummary struct {
	BookingID  string    `json:"bookingId"`
	Hotel      string    `json:"hotel"`
	Room       RoomType  `json:"room"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"totalPrice"`
}

type ReservationSummary struct {
	ReservationID string  `json:"reservationId"`
	Restaurant    string  `json:"restaurant"`
	Table         string  `json:"table"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	PartySize     int     `json:"partySize"`
	TablePrice    float64 `json:"tablePrice"`
}

type BookingDetails struct {
	HotelBooking
	Hotel    string   `json:"hotel"`
	Room     RoomType `json:"room"`
	Location string   `json:"location"`
}

type BookingConfirmation struct {
	Booking BookingDetails `json:"booking"`
	Payment *Payment       `json:"payment"`
}

type ReservationDetails struct {
	RestaurantReservation
	Restaurant string `json:"restaurant"`
	Table      string `json:"table"`
	Cuisine    string `json:"cuisine"`
}

type ReservationConfirmation struct {
	Reservation ReservationDetails `json:"reservation"`
	Payment     *Payment           `json:"payment"`
}

type UserBookings struct {
	Hotel      []HotelBooking          `json:"hotelBookings"`
	Restaurant []RestaurantReservation `json:"restaurantReservations"`
}

// ---- rules ----

// Nights is the ceiling of the difference between check-out and check-in in days.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

func BookingTotal(nightly float64, nights int) float64 { return nightly * float64(nights) }

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return t, nil
}

// ClockMinutes converts HH:MM into minutes after midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time %q", ErrValidation, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ReservationConflict reports whether existing blocks requested: same table, same date,
// not cancelled, and start times less than ReservationWindow apart.
func ReservationConflict(existing, requested RestaurantReservation) bool {
	if existing.TableID != requested.TableID || existing.Date != requested.Date {
		return false
	}
	if existing.Status == StatusCancelled {
		return false
	}
	a, err := ClockMinutes(existing.Time)
	if err != nil {
		return false
	}
	b, err := ClockMinutes(requested.Time)
	if err != nil {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return time.Duration(diff)*time.Minute < ReservationWindow
}

// Id prefixes applied at the repository boundary.
const (
	BookingIDPrefix     = "HTL"
	ReservationIDPrefix = "RST"
	PaymentIDPrefix     = "PAY"
)
