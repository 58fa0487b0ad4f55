package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/storage"
)

// ---- hotel bookings ----

type Bookings struct{ db *sql.DB }

func NewBookings(db *sql.DB) *Bookings { return &Bookings{db: db} }

func (r *Bookings) Create(ctx context.Context, b *domain.HotelBooking) error {
	b.ID = storage.NewID(domain.BookingIDPrefix)
	b.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID, b.UserID, b.HotelID, b.RoomID, b.CheckIn, b.CheckOut, b.Guests,
		b.ContactName, b.ContactEmail, b.ContactPhone, b.TotalPrice, string(b.Status), b.CreatedAt)
	return err
}

func scanBooking(s rowScanner) (domain.HotelBooking, error) {
	var b domain.HotelBooking
	var st string
	if err := s.Scan(&b.ID, &b.UserID, &b.HotelID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone, &b.TotalPrice, &st, &b.CreatedAt); err != nil {
		return domain.HotelBooking{}, err
	}
	b.Status = domain.BookingStatus(st)
	return b, nil
}

func (r *Bookings) Get(ctx context.Context, id string) (domain.HotelBooking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM hotel_bookings WHERE id = ?", id))
	return b, notFound(err)
}

func (r *Bookings) ListByUser(ctx context.Context, userID int64) ([]domain.HotelBooking, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM hotel_bookings WHERE user_id = ? ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelBooking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// updateStatus flips status on one ledger row inside tx. table is always a package constant.
func updateStatus(ctx context.Context, tx *sql.Tx, table, id string, st domain.BookingStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE "+table+" SET status = ? WHERE id = ?", string(st), id)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when the status is unchanged, so confirm existence separately.
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	return notFound(err)
}

// ---- restaurant reservations ----

type Reservations struct{ db *sql.DB }

func NewReservations(db *sql.DB) *Reservations { return &Reservations{db: db} }

func (r *Reservations) Create(ctx context.Context, res *domain.RestaurantReservation, check domain.ConflictCheck) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var locked int64
	if err := tx.QueryRowContext(ctx, lockTableSQL, res.TableID).Scan(&locked); err != nil {
		return notFound(err)
	}

	if check != nil {
		rows, err := tx.QueryContext(ctx,
			"SELECT "+reservationColumns+" FROM restaurant_reservations WHERE table_id = ? AND slot_date = ?",
			res.TableID, res.Date)
		if err != nil {
			return err
		}
		var existing []domain.RestaurantReservation
		for rows.Next() {
			e, err := scanReservation(rows)
			if err != nil {
				rows.Close()
				return err
			}
			existing = append(existing, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
	}

	res.ID = storage.NewID(domain.ReservationIDPrefix)
	res.CreatedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx, insertReservationSQL,
		res.ID, res.UserID, res.RestaurantID, res.TableID, res.Date, res.Time,
		res.PartySize, res.Notes, res.TablePrice, string(res.Status), res.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func scanReservation(s rowScanner) (domain.RestaurantReservation, error) {
	var res domain.RestaurantReservation
	var st string
	if err := s.Scan(&res.ID, &res.UserID, &res.RestaurantID, &res.TableID, &res.Date, &res.Time,
		&res.PartySize, &res.Notes, &res.TablePrice, &st, &res.CreatedAt); err != nil {
		return domain.RestaurantReservation{}, err
	}
	res.Status = domain.BookingStatus(st)
	return res, nil
}

func (r *Reservations) Get(ctx context.Context, id string) (domain.RestaurantReservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM restaurant_reservations WHERE id = ?", id))
	return res, notFound(err)
}

func (r *Reservations) ListByUser(ctx context.Context, userID int64) ([]domain.RestaurantReservation, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+reservationColumns+" FROM restaurant_reservations WHERE user_id = ? ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RestaurantReservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ---- payments ----

type Payments struct{ db *sql.DB }

func NewPayments(db *sql.DB) *Payments { return &Payments{db: db} }

// Settle confirms the referenced row and inserts the payment in one transaction.
func (r *Payments) Settle(ctx context.Context, p *domain.Payment) error {
	table, ref := "", ""
	switch {
	case p.BookingID != nil:
		table, ref = "hotel_bookings", *p.BookingID
	case p.ReservationID != nil:
		table, ref = "restaurant_reservations", *p.ReservationID
	default:
		return domain.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateStatus(ctx, tx, table, ref, domain.StatusConfirmed); err != nil {
		return err
	}
	id, created := storage.NewID(domain.PaymentIDPrefix), time.Now().UTC()
	if _, err := tx.ExecContext(ctx, insertPaymentSQL,
		id, p.UserID, valStr(p.BookingID), valStr(p.ReservationID),
		p.Amount, p.Method, p.Status, p.TransactionID, created); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID, p.CreatedAt = id, created
	return nil
}

func (r *Payments) LatestForBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return r.latest(ctx, "booking_id", bookingID)
}

func (r *Payments) LatestForReservation(ctx context.Context, reservationID string) (*domain.Payment, error) {
	return r.latest(ctx, "reservation_id", reservationID)
}

func (r *Payments) latest(ctx context.Context, col, id string) (*domain.Payment, error) {
	var p domain.Payment
	var bookingID, reservationID sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE "+col+" = ? ORDER BY seq DESC LIMIT 1", id).
		Scan(&p.ID, &p.UserID, &bookingID, &reservationID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		p.BookingID = &bookingID.String
	}
	if reservationID.Valid {
		p.ReservationID = &reservationID.String
	}
	return &p, nil
}

// Stores bundles every MySQL-backed repository over one pool.
type Stores struct {
	Catalog      *Repo
	Users        *Users
	Sessions     *Sessions
	Bookings     *Bookings
	Reservations *Reservations
	Payments     *Payments
}

func NewStores(db *sql.DB) Stores {
	return Stores{
		Catalog:      New(db),
		Users:        NewUsers(db),
		Sessions:     NewSessions(db),
		Bookings:     NewBookings(db),
		Reservations: NewReservations(db),
		Payments:     NewPayments(db),
	}
}
