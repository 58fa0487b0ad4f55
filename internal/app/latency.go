package app

import (
	"context"
	"sync"
	"time"
)

// Operation names passed to Latency.Wait.
const (
	OpSignup          = "signup"
	OpLogin           = "login"
	OpMe              = "me"
	OpHotels          = "hotels"
	OpHotel           = "hotel"
	OpRooms           = "rooms"
	OpRestaurants     = "restaurants"
	OpTables          = "tables"
	OpCreateBooking   = "create_booking"
	OpCreateReserve   = "create_reservation"
	OpPayment         = "payment"
	OpConfirmation    = "confirmation"
	OpUserBookingList = "user_bookings"
)

// Latency delays an operation before it runs. It is how the demo build
// reproduces a slow backend without putting sleeps in the services.
type Latency interface {
	Wait(ctx context.Context, op string) error
}

type NoLatency struct{}

func (NoLatency) Wait(ctx context.Context, _ string) error { return ctx.Err() }

// ProfileLatency waits a fixed, per-operation delay.
type ProfileLatency struct {
	Delays  map[string]time.Duration
	Default time.Duration
}

// DemoProfile returns the delays the demo front-end was built against, multiplied by scale.
func DemoProfile(scale float64) ProfileLatency {
	ms := func(n int) time.Duration { return time.Duration(float64(n)*scale) * time.Millisecond }
	return ProfileLatency{
		Delays: map[string]time.Duration{
			OpSignup:          ms(400),
			OpLogin:           ms(400),
			OpMe:              ms(200),
			OpHotels:          ms(300),
			OpHotel:           ms(300),
			OpRooms:           ms(400),
			OpRestaurants:     ms(300),
			OpTables:          ms(300),
			OpCreateBooking:   ms(600),
			OpCreateReserve:   ms(600),
			OpPayment:         ms(800),
			OpConfirmation:    ms(300),
			OpUserBookingList: ms(300),
		},
		Default: ms(500),
	}
}

func (p ProfileLatency) Wait(ctx context.Context, op string) error {
	d, ok := p.Delays[op]
	if !ok {
		d = p.Default
	}
	return sleepCtx(ctx, d)
}

// RecordingLatency never sleeps; it remembers which operations were delayed.
type RecordingLatency struct {
	mu  sync.Mutex
	ops []string
}

func (r *RecordingLatency) Wait(ctx context.Context, op string) error {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *RecordingLatency) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// sleepCtx waits for d or returns ctx.Err() if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
