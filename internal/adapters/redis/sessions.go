package redisad

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_reservation/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps bearer sessions in redis so they survive API restarts.
// Sessions have no expiry; logout is the only way to end one.
type SessionStore struct{ c *redis.Client }

func NewSessionStore(c *redis.Client) *SessionStore { return &SessionStore{c: c} }

func (s *SessionStore) Create(ctx context.Context, sess domain.Session) error {
	return s.c.HSet(ctx, sessionPrefix+sess.Token,
		"user_id", sess.UserID,
		"created_at", sess.CreatedAt.Unix(),
	).Err()
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	vals, err := s.c.HGetAll(ctx, sessionPrefix+token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Session{}, err
	}
	if len(vals) == 0 {
		return domain.Session{}, domain.ErrNotFound
	}
	uid, err := strconv.ParseInt(vals["user_id"], 10, 64)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: bad user_id: %w", token, err)
	}
	sess := domain.Session{Token: token, UserID: uid}
	if ts, err := strconv.ParseInt(vals["created_at"], 10, 64); err == nil {
		sess.CreatedAt = time.Unix(ts, 0).UTC()
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.c.Del(ctx, sessionPrefix+token).Err()
}
