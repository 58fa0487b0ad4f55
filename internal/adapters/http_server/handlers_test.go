package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel_reservation/internal/adapters/authn"
	httpserver "hotel_reservation/internal/adapters/http_server"
	redisad "hotel_reservation/internal/adapters/redis"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/shared"
	"hotel_reservation/internal/storage/memory"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	hotels, restaurants := memory.NewHotelRepo(), memory.NewRestaurantRepo()
	if err := memory.Seed(context.Background(), shared.BuildCatalog(), hotels, restaurants); err != nil {
		t.Fatalf("seed: %v", err)
	}
	auth := app.NewAuthService(memory.NewUserRepo(), memory.NewSessionRepo(), authn.Bcrypt{Cost: bcrypt.MinCost}, authn.NewJWT("test"), nil)
	bookings, reservations := memory.NewBookingRepo(), memory.NewReservationRepo()
	h := &httpserver.Handlers{
		Auth:    auth,
		Catalog: app.NewCatalogService(hotels, restaurants, redisad.Nop{}, time.Minute, nil),
		Bookings: app.NewBookingService(app.BookingDeps{
			Auth:         auth,
			Hotels:       hotels,
			Restaurants:  restaurants,
			Bookings:     bookings,
			Reservations: reservations,
			Payments:     memory.NewPaymentRepo(bookings, reservations),
		}),
	}
	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(h)
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type problemBody struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
}

func expectProblem(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d want %d body=%s", rr.Code, status, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type: %q", ct)
	}
	var p problemBody
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Code != code || p.Status != status {
		t.Fatalf("problem: %+v, want code %s", p, code)
	}
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rr := do(t, h, "POST", "/api/auth/signup", "", map[string]string{"email": email, "password": "pw", "name": "Guest"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return out.Token
}

func TestHealthz(t *testing.T) {
	rr := do(t, newServer(t), "GET", "/healthz", "", nil)
	if rr.Code != 200 || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}

func TestHotels_ETagAndNotModified(t *testing.T) {
	h := newServer(t)
	rr := do(t, h, "GET", "/api/hotels?city=paris", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("missing weak etag: %q", etag)
	}
	var hotels []map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &hotels)
	if len(hotels) != 1 || hotels[0]["name"] != "Grand Luxury Resort" {
		t.Fatalf("hotels: %v", hotels)
	}

	req := httptest.NewRequest("GET", "/api/hotels?city=paris", nil)
	req.Header.Set("If-None-Match", etag)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr2.Code)
	}
}

func TestCatalog_Errors(t *testing.T) {
	h := newServer(t)
	expectProblem(t, do(t, h, "GET", "/api/hotels/999", "", nil), 404, httpserver.CodeNotFound)
	expectProblem(t, do(t, h, "GET", "/api/hotels/999/rooms", "", nil), 404, httpserver.CodeNotFound)
	expectProblem(t, do(t, h, "GET", "/api/restaurants/999/tables", "", nil), 404, httpserver.CodeNotFound)
	expectProblem(t, do(t, h, "GET", "/api/hotels/abc", "", nil), 400, httpserver.CodeValidation)
	expectProblem(t, do(t, h, "GET", "/api/hotels?maxPrice=cheap", "", nil), 400, httpserver.CodeValidation)
}

func TestAuth_Flow(t *testing.T) {
	h := newServer(t)
	tok := signup(t, h, "ana@example.com")

	expectProblem(t, do(t, h, "POST", "/api/auth/signup", "", map[string]string{"email": "ANA@example.com", "password": "x", "name": "A"}),
		409, httpserver.CodeDuplicateEmail)
	expectProblem(t, do(t, h, "POST", "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "bad"}),
		401, httpserver.CodeInvalidCredentials)

	rr := do(t, h, "GET", "/api/auth/me", tok, nil)
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), `"email":"ana@example.com"`) {
		t.Fatalf("me: %d %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Fatalf("password hash leaked: %s", rr.Body.String())
	}

	if rr := do(t, h, "POST", "/api/auth/logout", tok, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rr.Code)
	}
	expectProblem(t, do(t, h, "GET", "/api/auth/me", tok, nil), 401, httpserver.CodeUnauthorized)
}

func TestBookingFlow_PayAndConfirm(t *testing.T) {
	h := newServer(t)
	tok := signup(t, h, "ana@example.com")

	rr := do(t, h, "POST", "/api/bookings/hotel", tok, map[string]any{
		"hotelId": 1, "roomId": 100, "checkIn": "2025-01-01", "checkOut": "2025-01-04",
		"guests": 2, "contactName": "Ana", "contactEmail": "ana@example.com", "contactPhone": "555",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var sum struct {
		BookingID  string  `json:"bookingId"`
		TotalPrice float64 `json:"totalPrice"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &sum)
	if sum.TotalPrice != 897 {
		t.Fatalf("total: %v", sum.TotalPrice)
	}

	if rr := do(t, h, "POST", "/api/payments/charge", tok, map[string]any{"bookingId": sum.BookingID, "method": "card"}); rr.Code != http.StatusCreated {
		t.Fatalf("charge: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, "GET", "/api/bookings/hotel/"+sum.BookingID, "", nil)
	var conf struct {
		Booking struct {
			Status string `json:"status"`
			Hotel  string `json:"hotel"`
		} `json:"booking"`
		Payment *struct {
			TransactionID string `json:"transactionId"`
		} `json:"payment"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &conf)
	if conf.Booking.Status != "confirmed" || conf.Payment == nil || !strings.HasPrefix(conf.Payment.TransactionID, "TXN-") {
		t.Fatalf("confirmation: %s", rr.Body.String())
	}

	expectProblem(t, do(t, h, "GET", "/api/bookings/hotel/HTL-unknown", "", nil), 404, httpserver.CodeNotFound)
}

func TestReservation_ConflictAndAuth(t *testing.T) {
	h := newServer(t)
	tok := signup(t, h, "ana@example.com")
	body := map[string]any{"restaurantId": 1, "tableId": 101, "date": "2025-06-01", "time": "19:00", "partySize": 2}

	expectProblem(t, do(t, h, "POST", "/api/bookings/restaurant", "", body), 401, httpserver.CodeUnauthorized)

	if rr := do(t, h, "POST", "/api/bookings/restaurant", tok, body); rr.Code != http.StatusCreated {
		t.Fatalf("first: %d %s", rr.Code, rr.Body.String())
	}
	body["time"] = "20:00"
	expectProblem(t, do(t, h, "POST", "/api/bookings/restaurant", tok, body), 409, httpserver.CodeConflict)
}

func TestMalformedBody(t *testing.T) {
	h := newServer(t)
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	expectProblem(t, rr, 400, httpserver.CodeValidation)
}

func TestUserBookings_Forbidden(t *testing.T) {
	h := newServer(t)
	signup(t, h, "ana@example.com")
	bob := signup(t, h, "bob@example.com")
	expectProblem(t, do(t, h, "GET", "/api/bookings/user/1", bob, nil), 403, httpserver.CodeForbidden)
	if rr := do(t, h, "GET", "/api/bookings/user/2", bob, nil); rr.Code != 200 {
		t.Fatalf("own bookings: %d", rr.Code)
	}
}

func TestDeadline_SlowCatalogIsGatewayTimeout(t *testing.T) {
	hotels, restaurants := memory.NewHotelRepo(), memory.NewRestaurantRepo()
	if err := memory.Seed(context.Background(), shared.BuildCatalog(), hotels, restaurants); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httpserver.New(20 * time.Millisecond)
	srv.MountHandlers(&httpserver.Handlers{
		Catalog: app.NewCatalogService(hotels, restaurants, redisad.Nop{}, time.Minute, app.DemoProfile(1)),
	})

	rr := do(t, srv.Mux(), http.MethodGet, "/api/hotels", "", nil)
	expectProblem(t, rr, http.StatusGatewayTimeout, httpserver.CodeTimeout)
}
