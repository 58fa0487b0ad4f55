// Package apiclient is the Go client for the reservation HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
)

type Client struct {
	base   string
	hc     *http.Client
	rl     *rate.Limiter
	tokens TokenStore

	// OnUnauthorized runs after a stored session was rejected and cleared.
	OnUnauthorized func()
}

func New(base string, rps int, tokens TokenStore) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("API base URL: %w", err)
	}
	if rps <= 0 {
		rps = 10
	}
	if tokens == nil {
		tokens = &MemoryTokens{}
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: 20 * time.Second},
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
		tokens: tokens,
	}, nil
}

// ---- auth ----

func (c *Client) Signup(ctx context.Context, in domain.SignupInput) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return out, err
	}
	return out, c.tokens.Save(Saved{Token: out.Token, User: out.User})
}

func (c *Client) Login(ctx context.Context, cr domain.Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", cr, &out); err != nil {
		return out, err
	}
	return out, c.tokens.Save(Saved{Token: out.Token, User: out.User})
}

// Logout ends the server session and forgets the local one, even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if cerr := c.tokens.Clear(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	return out, c.do(ctx, http.MethodGet, "/auth/me", nil, &out)
}

// ---- catalog ----

func (c *Client) Hotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	v := url.Values{}
	if q.City != nil {
		v.Set("city", *q.City)
	}
	if q.MinRating != nil {
		v.Set("minRating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	path := "/hotels"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []domain.Hotel
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/hotels/%d", id), nil, &out)
}

func (c *Client) Rooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var out []domain.Room
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/hotels/%d/rooms", hotelID), nil, &out)
}

func (c *Client) Restaurants(ctx context.Context, hotelID *int64) ([]domain.Restaurant, error) {
	path := "/restaurants"
	if hotelID != nil {
		path += "?hotelId=" + strconv.FormatInt(*hotelID, 10)
	}
	var out []domain.Restaurant
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) Tables(ctx context.Context, restaurantID int64) ([]domain.Table, error) {
	var out []domain.Table
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d/tables", restaurantID), nil, &out)
}

// ---- bookings ----

type HotelBookingRequest struct {
	HotelID      int64  `json:"hotelId"`
	RoomID       int64  `json:"roomId"`
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	Guests       int    `json:"guests"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

type ReservationRequest struct {
	RestaurantID int64  `json:"restaurantId"`
	TableID      int64  `json:"tableId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"partySize"`
	Notes        string `json:"notes,omitempty"`
}

func (c *Client) BookRoom(ctx context.Context, in HotelBookingRequest) (domain.HotelBookingSummary, error) {
	var out domain.HotelBookingSummary
	return out, c.do(ctx, http.MethodPost, "/bookings/hotel", in, &out)
}

func (c *Client) BookTable(ctx context.Context, in ReservationRequest) (domain.ReservationSummary, error) {
	var out domain.ReservationSummary
	return out, c.do(ctx, http.MethodPost, "/bookings/restaurant", in, &out)
}

func (c *Client) Pay(ctx context.Context, in domain.PaymentInput) (domain.Payment, error) {
	var out domain.Payment
	return out, c.do(ctx, http.MethodPost, "/payments/charge", in, &out)
}

func (c *Client) BookingConfirmation(ctx context.Context, id string) (domain.BookingConfirmation, error) {
	var out domain.BookingConfirmation
	return out, c.do(ctx, http.MethodGet, "/bookings/hotel/"+url.PathEscape(id), nil, &out)
}

func (c *Client) ReservationConfirmation(ctx context.Context, id string) (domain.ReservationConfirmation, error) {
	var out domain.ReservationConfirmation
	return out, c.do(ctx, http.MethodGet, "/bookings/restaurant/"+url.PathEscape(id), nil, &out)
}

func (c *Client) UserBookings(ctx context.Context, userID int64) (domain.UserBookings, error) {
	var out domain.UserBookings
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/user/%d", userID), nil, &out)
}

// ---- internals ----

// do sends one request. There are no retries: a failed booking must be resubmitted by the user.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bookingctl/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	saved, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if saved.Token != "" {
		req.Header.Set("Authorization", "Bearer "+saved.Token)
	}

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveClient(endpoint, 0, time.Since(start))
		observability.ObserveClientError(endpoint, err)
		log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api network error")
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveClient(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	apiErr := &APIError{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(b, apiErr); err != nil || apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
		apiErr.Detail = strings.TrimSpace(string(b))
	}
	log.Debug().Int("status", apiErr.Status).Str("code", apiErr.Code).Str("path", path).Msg("api error response")

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropSession(path, saved.Token)
	}
	return apiErr
}

// credentialPaths answer 401 for a wrong password, which says nothing about the stored token.
var credentialPaths = map[string]bool{"/auth/login": true, "/auth/signup": true}

// dropSession forgets a rejected token. A store that is already empty has nothing to clear.
func (c *Client) dropSession(path, token string) {
	if credentialPaths[path] || token == "" {
		return
	}
	if err := c.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("clear rejected session failed")
	}
	log.Warn().Str("path", path).Msg("session rejected by server; cleared")
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// endpointLabel strips ids and query strings to keep metric labels bounded.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil || strings.Contains(p, "-") {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
