package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_reservation/internal/domain"
)

// ---- auth ----

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Signup(r.Context(), domain.SignupInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- bookings ----

type hotelBookingRequest struct {
	HotelID      int64  `json:"hotelId"`
	RoomID       int64  `json:"roomId"`
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	Guests       int    `json:"guests"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

func (req hotelBookingRequest) input() (domain.HotelBookingInput, error) {
	in, err := domain.ParseDate(req.CheckIn)
	if err != nil {
		return domain.HotelBookingInput{}, err
	}
	out, err := domain.ParseDate(req.CheckOut)
	if err != nil {
		return domain.HotelBookingInput{}, err
	}
	return domain.HotelBookingInput{
		HotelID:      req.HotelID,
		RoomID:       req.RoomID,
		CheckIn:      in,
		CheckOut:     out,
		Guests:       req.Guests,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}, nil
}

type reservationRequest struct {
	RestaurantID int64  `json:"restaurantId"`
	TableID      int64  `json:"tableId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"partySize"`
	Notes        string `json:"notes"`
}

func (h *Handlers) createHotelBooking(w http.ResponseWriter, r *http.Request) {
	var req hotelBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Bookings.CreateHotelBooking(r.Context(), bearerToken(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Bookings.CreateRestaurantReservation(r.Context(), bearerToken(r), domain.ReservationInput{
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) bookingConfirmation(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.BookingConfirmation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) reservationConfirmation(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.ReservationConfirmation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) userBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Bookings.UserBookings(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- payments ----

func (h *Handlers) charge(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Bookings.ProcessPayment(r.Context(), bearerToken(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
