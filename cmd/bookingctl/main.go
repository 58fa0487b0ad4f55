// Command bookingctl drives the reservation API from a terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/adapters/apiclient"
	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
)

const usage = `usage: bookingctl <command> [flags]

commands:
  signup        -email -password -name
  login         -email -password
  logout
  me
  hotels        [-city] [-min-rating] [-max-price]
  rooms         -hotel
  restaurants   [-hotel]
  tables        -restaurant
  book-room     -hotel -room -check-in -check-out -guests -name -email -phone
  book-table    -restaurant -table -date -time -party [-notes]
  pay           (-booking | -reservation) [-amount] [-method]
  confirmation  (-booking | -reservation)
  bookings      list the logged-in user's bookings
`

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv).Level(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg shared.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}
	tokens := apiclient.FileTokens{Path: cfg.SessionFile}
	cl, err := apiclient.New(cfg.APIBaseURL, cfg.APIRPS, tokens)
	if err != nil {
		return err
	}
	cl.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, "session expired; run `bookingctl login` again")
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	switch cmd {
	case "signup":
		email, password, name := fs.String("email", "", "email"), fs.String("password", "", "password"), fs.String("name", "", "display name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		res, err := cl.Signup(ctx, domain.SignupInput{Email: *email, Password: *password, Name: *name})
		if err != nil {
			return err
		}
		return printJSON(out, res.User)

	case "login":
		email, password := fs.String("email", "", "email"), fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		res, err := cl.Login(ctx, domain.Credentials{Email: *email, Password: *password})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "logged in as %s\n", res.User.Email)
		return nil

	case "logout":
		if err := cl.Logout(ctx); err != nil && !errors.Is(err, domain.ErrUnauthorized) {
			return err
		}
		fmt.Fprintln(out, "logged out")
		return nil

	case "me":
		u, err := cl.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, u)

	case "hotels":
		city := fs.String("city", "", "city substring")
		minRating := fs.Float64("min-rating", 0, "minimum rating")
		maxPrice := fs.Float64("max-price", 0, "maximum nightly price")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var q domain.HotelsQuery
		if *city != "" {
			q.City = city
		}
		if *minRating > 0 {
			q.MinRating = minRating
		}
		if *maxPrice > 0 {
			q.MaxPrice = maxPrice
		}
		hs, err := cl.Hotels(ctx, q)
		if err != nil {
			return err
		}
		for _, h := range hs {
			fmt.Fprintf(out, "%3d  %-28s %-22s %.1f  $%.0f/night\n", h.ID, h.Name, h.Location(), h.Rating, h.PricePerNight)
		}
		return nil

	case "rooms":
		hotel := fs.Int64("hotel", 0, "hotel id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		rooms, err := cl.Rooms(ctx, *hotel)
		if err != nil {
			return err
		}
		for _, r := range rooms {
			fmt.Fprintf(out, "%5d  #%-6s %-13s sleeps %d  $%.0f/night\n", r.ID, r.RoomNumber, r.Type, r.Capacity, r.Price)
		}
		return nil

	case "restaurants":
		hotel := fs.Int64("hotel", 0, "hotel id (0 = all)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var hid *int64
		if *hotel > 0 {
			hid = hotel
		}
		rs, err := cl.Restaurants(ctx, hid)
		if err != nil {
			return err
		}
		for _, r := range rs {
			fmt.Fprintf(out, "%3d  %-28s %-20s %s\n", r.ID, r.Name, r.Cuisine, r.Hours)
		}
		return nil

	case "tables":
		restaurant := fs.Int64("restaurant", 0, "restaurant id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		ts, err := cl.Tables(ctx, *restaurant)
		if err != nil {
			return err
		}
		for _, t := range ts {
			fmt.Fprintf(out, "%5d  %-32s seats %d  +$%.0f\n", t.ID, t.Label, t.Capacity, t.PriceExtra)
		}
		return nil

	case "book-room":
		var req apiclient.HotelBookingRequest
		fs.Int64Var(&req.HotelID, "hotel", 0, "hotel id")
		fs.Int64Var(&req.RoomID, "room", 0, "room id")
		fs.StringVar(&req.CheckIn, "check-in", "", "YYYY-MM-DD")
		fs.StringVar(&req.CheckOut, "check-out", "", "YYYY-MM-DD")
		fs.IntVar(&req.Guests, "guests", 1, "guest count")
		fs.StringVar(&req.ContactName, "name", "", "contact name")
		fs.StringVar(&req.ContactEmail, "email", "", "contact email")
		fs.StringVar(&req.ContactPhone, "phone", "", "contact phone")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		sum, err := cl.BookRoom(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(out, sum)

	case "book-table":
		var req apiclient.ReservationRequest
		fs.Int64Var(&req.RestaurantID, "restaurant", 0, "restaurant id")
		fs.Int64Var(&req.TableID, "table", 0, "table id")
		fs.StringVar(&req.Date, "date", "", "YYYY-MM-DD")
		fs.StringVar(&req.Time, "time", "", "HH:MM")
		fs.IntVar(&req.PartySize, "party", 2, "party size")
		fs.StringVar(&req.Notes, "notes", "", "special requests")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		sum, err := cl.BookTable(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(out, sum)

	case "pay":
		booking, reservation := fs.String("booking", "", "booking id"), fs.String("reservation", "", "reservation id")
		amount := fs.Float64("amount", 0, "amount (defaults to the booked price)")
		method := fs.String("method", "card", "payment method")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		in := domain.PaymentInput{Amount: *amount, Method: *method}
		if *booking != "" {
			in.BookingID = booking
		}
		if *reservation != "" {
			in.ReservationID = reservation
		}
		p, err := cl.Pay(ctx, in)
		if err != nil {
			return err
		}
		return printJSON(out, p)

	case "confirmation":
		booking, reservation := fs.String("booking", "", "booking id"), fs.String("reservation", "", "reservation id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		switch {
		case *booking != "":
			c, err := cl.BookingConfirmation(ctx, *booking)
			if err != nil {
				return err
			}
			return printJSON(out, c)
		case *reservation != "":
			c, err := cl.ReservationConfirmation(ctx, *reservation)
			if err != nil {
				return err
			}
			return printJSON(out, c)
		}
		return fmt.Errorf("confirmation needs -booking or -reservation")

	case "bookings":
		saved, err := tokens.Load()
		if err != nil {
			return err
		}
		if saved.Token == "" {
			return domain.ErrUnauthorized
		}
		ub, err := cl.UserBookings(ctx, saved.User.ID)
		if err != nil {
			return err
		}
		return printJSON(out, ub)

	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n\n%s", cmd, strings.TrimRight(usage, "\n"))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe separates "the server said no" from "the server never answered".
func describe(err error) string {
	var netErr *apiclient.NetworkError
	if errors.As(err, &netErr) {
		return "cannot reach the booking service (" + netErr.Err.Error() + "); check API_BASE_URL and try again"
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return err.Error()
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return "not logged in; run `bookingctl login`"
	}
	return err.Error()
}
