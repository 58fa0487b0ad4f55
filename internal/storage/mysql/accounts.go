package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"hotel_reservation/internal/domain"
)

const errDuplicateEntry = 1062

type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

func (u *Users) Create(ctx context.Context, usr *domain.User) error {
	usr.Email = domain.NormalizeEmail(usr.Email)
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	res, err := u.db.ExecContext(ctx, insertUserSQL, usr.Email, usr.PasswordHash, usr.Name, usr.CreatedAt)
	if err != nil {
		var me *gomysql.MySQLError
		if errors.As(err, &me) && me.Number == errDuplicateEntry {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	usr.ID = id
	return nil
}

func scanUser(s rowScanner) (domain.User, error) {
	var usr domain.User
	err := s.Scan(&usr.ID, &usr.Email, &usr.PasswordHash, &usr.Name, &usr.CreatedAt)
	return usr, notFound(err)
}

func (u *Users) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (u *Users) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", domain.NormalizeEmail(email)))
}

type Sessions struct{ db *sql.DB }

func NewSessions(db *sql.DB) *Sessions { return &Sessions{db: db} }

func (s *Sessions) Create(ctx context.Context, sess domain.Session) error {
	_, err := s.db.ExecContext(ctx, insertSessionSQL, sess.Token, sess.UserID, sess.CreatedAt)
	return err
}

func (s *Sessions) Get(ctx context.Context, token string) (domain.Session, error) {
	sess := domain.Session{Token: token}
	err := s.db.QueryRowContext(ctx, "SELECT user_id, created_at FROM sessions WHERE token = ?", token).
		Scan(&sess.UserID, &sess.CreatedAt)
	return sess, notFound(err)
}

func (s *Sessions) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}
