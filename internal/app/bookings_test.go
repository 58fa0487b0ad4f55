package app_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_reservation/internal/domain"
)

func validBooking() domain.HotelBookingInput {
	return domain.HotelBookingInput{
		HotelID:      1,
		RoomID:       100, // Standard, 299/night
		CheckIn:      day("2025-01-01"),
		CheckOut:     day("2025-01-04"),
		Guests:       2,
		ContactName:  "Ana",
		ContactEmail: "ana@example.com",
		ContactPhone: "+1 555 0100",
	}
}

func TestCreateHotelBooking_ComputesTotal(t *testing.T) {
	f := newFixture(t)
	tok := f.signup(t, "ana@example.com").Token

	in := validBooking()
	in.CheckOut = in.CheckOut.Add(3 * time.Hour) // partial fourth night rounds up
	sum, err := f.bookings.CreateHotelBooking(context.Background(), tok, in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sum.BookingID, "HTL-"))
	assert.Equal(t, "Grand Luxury Resort", sum.Hotel)
	assert.Equal(t, domain.RoomStandard, sum.Room)
	assert.Equal(t, 299.0*4, sum.TotalPrice)
}

func TestCreateHotelBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	_, err := f.bookings.CreateHotelBooking(ctx, "bad", validBooking())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	cases := map[string]struct {
		mut  func(*domain.HotelBookingInput)
		want error
	}{
		"same day":        {func(in *domain.HotelBookingInput) { in.CheckOut = in.CheckIn }, domain.ErrValidation},
		"reversed":        {func(in *domain.HotelBookingInput) { in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn }, domain.ErrValidation},
		"no guests":       {func(in *domain.HotelBookingInput) { in.Guests = 0 }, domain.ErrValidation},
		"too many guests": {func(in *domain.HotelBookingInput) { in.Guests = 11 }, domain.ErrValidation},
		"no phone":        {func(in *domain.HotelBookingInput) { in.ContactPhone = " " }, domain.ErrValidation},
		"unknown room":    {func(in *domain.HotelBookingInput) { in.RoomID = 99999 }, domain.ErrNotFound},
		"foreign room":    {func(in *domain.HotelBookingInput) { in.RoomID = 200 }, domain.ErrNotFound},
		"unknown hotel":   {func(in *domain.HotelBookingInput) { in.HotelID = 77 }, domain.ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validBooking()
			tc.mut(&in)
			_, err := f.bookings.CreateHotelBooking(ctx, tok, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func reservation(tableID int64, at string) domain.ReservationInput {
	return domain.ReservationInput{RestaurantID: 1, TableID: tableID, Date: "2025-06-01", Time: at, PartySize: 2}
}

func TestReservation_TwoHourWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	first, err := f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "19:00"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ReservationID, "RST-"))
	assert.Equal(t, 75.0, first.TablePrice) // VIP surcharge

	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "20:30"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "17:01"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "21:00"))
	assert.NoError(t, err, "exactly two hours apart is allowed")
	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, reservation(101, "19:30"))
	assert.NoError(t, err, "other tables are independent")

	other := reservation(100, "19:00")
	other.Date = "2025-06-02"
	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, other)
	assert.NoError(t, err, "other dates are independent")
}

func TestReservation_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	big := reservation(100, "12:00")
	big.PartySize = 7 // VIP seats 6
	_, err := f.bookings.CreateRestaurantReservation(ctx, tok, big)
	assert.ErrorIs(t, err, domain.ErrValidation)

	badDate := reservation(100, "12:00")
	badDate.Date = "06/01/2025"
	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, badDate)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "25:00"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	foreign := reservation(200, "12:00") // table of restaurant 2
	_, err = f.bookings.CreateRestaurantReservation(ctx, tok, foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.bookings.CreateRestaurantReservation(ctx, "", reservation(100, "12:00"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

var txnPattern = regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)

func TestPayment_ConfirmsBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	sum, err := f.bookings.CreateHotelBooking(ctx, tok, validBooking())
	require.NoError(t, err)

	conf, err := f.bookings.BookingConfirmation(ctx, sum.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, conf.Booking.Status)
	assert.Nil(t, conf.Payment)

	p, err := f.bookings.ProcessPayment(ctx, tok, domain.PaymentInput{BookingID: &sum.BookingID})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.Equal(t, 897.0, p.Amount) // 299 x 3 nights
	assert.Equal(t, "card", p.Method)
	assert.Regexp(t, txnPattern, p.TransactionID)

	conf, err = f.bookings.BookingConfirmation(ctx, sum.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, conf.Booking.Status)
	require.NotNil(t, conf.Payment)
	assert.Equal(t, p.ID, conf.Payment.ID)
	assert.Equal(t, "Paris, France", conf.Booking.Location)
}

// flakyPayments fails the next Settle calls while down is set.
type flakyPayments struct {
	domain.PaymentRepository
	down bool
}

func (f *flakyPayments) Settle(ctx context.Context, p *domain.Payment) error {
	if f.down {
		return errors.New("db down")
	}
	return f.PaymentRepository.Settle(ctx, p)
}

func TestPayment_FailedSettleLeavesNothingBehind(t *testing.T) {
	flaky := &flakyPayments{down: true}
	f := newFixtureWithPayments(t, func(inner domain.PaymentRepository) domain.PaymentRepository {
		flaky.PaymentRepository = inner
		return flaky
	})
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	sum, err := f.bookings.CreateHotelBooking(ctx, tok, validBooking())
	require.NoError(t, err)

	_, err = f.bookings.ProcessPayment(ctx, tok, domain.PaymentInput{BookingID: &sum.BookingID})
	require.Error(t, err)

	conf, err := f.bookings.BookingConfirmation(ctx, sum.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, conf.Booking.Status)
	assert.Nil(t, conf.Payment, "no charge may be recorded when settling fails")

	// resubmitting after recovery records exactly one charge
	flaky.down = false
	p, err := f.bookings.ProcessPayment(ctx, tok, domain.PaymentInput{BookingID: &sum.BookingID})
	require.NoError(t, err)
	b, err := f.ledger.Get(ctx, sum.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	conf, err = f.bookings.BookingConfirmation(ctx, sum.BookingID)
	require.NoError(t, err)
	require.NotNil(t, conf.Payment)
	assert.Equal(t, p.ID, conf.Payment.ID)
}

func TestPayment_ConfirmsReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	r, err := f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, "19:00"))
	require.NoError(t, err)

	p, err := f.bookings.ProcessPayment(ctx, tok, domain.PaymentInput{ReservationID: &r.ReservationID, Amount: 80, Method: "paypal"})
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.Amount)

	conf, err := f.bookings.ReservationConfirmation(ctx, r.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, conf.Reservation.Status)
	assert.Equal(t, "Le Grand Restaurant", conf.Reservation.Restaurant)
	assert.Equal(t, "French Fine Dining", conf.Reservation.Cuisine)
	require.NotNil(t, conf.Payment)
	assert.Equal(t, "paypal", conf.Payment.Method)
}

func TestPayment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "ana@example.com").Token
	bob := f.signup(t, "bob@example.com").Token

	sum, err := f.bookings.CreateHotelBooking(ctx, ana, validBooking())
	require.NoError(t, err)

	missing := "HTL-missing"
	_, err = f.bookings.ProcessPayment(ctx, ana, domain.PaymentInput{BookingID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.bookings.ProcessPayment(ctx, ana, domain.PaymentInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.bookings.ProcessPayment(ctx, "", domain.PaymentInput{BookingID: &sum.BookingID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.bookings.ProcessPayment(ctx, bob, domain.PaymentInput{BookingID: &sum.BookingID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestConfirmation_UnknownID(t *testing.T) {
	f := newFixture(t)
	_, err := f.bookings.BookingConfirmation(context.Background(), "HTL-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.bookings.ReservationConfirmation(context.Background(), "RST-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserBookings_OwnOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "ana@example.com")
	bob := f.signup(t, "bob@example.com")

	_, err := f.bookings.CreateHotelBooking(ctx, ana.Token, validBooking())
	require.NoError(t, err)
	_, err = f.bookings.CreateRestaurantReservation(ctx, ana.Token, reservation(100, "19:00"))
	require.NoError(t, err)

	got, err := f.bookings.UserBookings(ctx, ana.Token, ana.User.ID)
	require.NoError(t, err)
	assert.Len(t, got.Hotel, 1)
	assert.Len(t, got.Restaurant, 1)

	_, err = f.bookings.UserBookings(ctx, bob.Token, ana.User.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	empty, err := f.bookings.UserBookings(ctx, bob.Token, bob.User.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Hotel)
	assert.Empty(t, empty.Restaurant)
}

func TestReservation_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok := f.signup(t, "ana@example.com").Token

	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			_, err := f.bookings.CreateRestaurantReservation(ctx, tok, reservation(100, fmt.Sprintf("19:%02d", i)))
			errs <- err
		}(i)
	}
	ok := 0
	for i := 0; i < 16; i++ {
		if err := <-errs; err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	assert.Equal(t, 1, ok)
}
