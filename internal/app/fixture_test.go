package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel_reservation/internal/adapters/authn"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
	"hotel_reservation/internal/storage/memory"
)

type fixture struct {
	auth     *app.AuthService
	bookings *app.BookingService
	sessions *memory.SessionRepo
	ledger   *memory.BookingRepo
	rec      *app.RecordingLatency
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPayments(t, nil)
}

// newFixtureWithPayments lets a test put a decorator in front of the payment repository.
func newFixtureWithPayments(t *testing.T, wrap func(domain.PaymentRepository) domain.PaymentRepository) *fixture {
	t.Helper()
	ctx := context.Background()

	hotels, restaurants := memory.NewHotelRepo(), memory.NewRestaurantRepo()
	require.NoError(t, memory.Seed(ctx, shared.BuildCatalog(), hotels, restaurants))

	rec := &app.RecordingLatency{}
	sessions := memory.NewSessionRepo()
	ledger, reservations := memory.NewBookingRepo(), memory.NewReservationRepo()
	var payments domain.PaymentRepository = memory.NewPaymentRepo(ledger, reservations)
	if wrap != nil {
		payments = wrap(payments)
	}
	auth := app.NewAuthService(memory.NewUserRepo(), sessions, authn.Bcrypt{Cost: bcrypt.MinCost}, authn.NewJWT("test"), rec)
	bookings := app.NewBookingService(app.BookingDeps{
		Auth:         auth,
		Hotels:       hotels,
		Restaurants:  restaurants,
		Bookings:     ledger,
		Reservations: reservations,
		Payments:     payments,
		Latency:      rec,
	})
	return &fixture{auth: auth, bookings: bookings, sessions: sessions, ledger: ledger, rec: rec}
}

func (f *fixture) signup(t *testing.T, email string) domain.AuthResult {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), domain.SignupInput{Email: email, Password: "pw", Name: "Guest"})
	require.NoError(t, err)
	return res
}

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
