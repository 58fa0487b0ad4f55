package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
)

type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	hasher   domain.PasswordHasher
	tokens   domain.TokenIssuer
	latency  Latency
}

func NewAuthService(u domain.UserRepository, s domain.SessionRepository, h domain.PasswordHasher, t domain.TokenIssuer, l Latency) *AuthService {
	if l == nil {
		l = NoLatency{}
	}
	return &AuthService{users: u, sessions: s, hasher: h, tokens: t, latency: l}
}

func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) (domain.AuthResult, error) {
	if err := s.latency.Wait(ctx, OpSignup); err != nil {
		return domain.AuthResult{}, err
	}
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || !strings.Contains(email, "@") {
		return domain.AuthResult{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if in.Password == "" {
		return domain.AuthResult{}, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if name == "" {
		return domain.AuthResult{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{Email: email, PasswordHash: hash, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			observability.ObserveBooking("user", "duplicate_email")
			return domain.AuthResult{}, domain.ErrDuplicateEmail
		}
		return domain.AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.openSession(ctx, u)
	if err != nil {
		return domain.AuthResult{}, err
	}
	observability.ObserveBooking("user", "signup")
	log.Info().Int64("user_id", u.ID).Msg("user signed up")
	return domain.AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) Login(ctx context.Context, c domain.Credentials) (domain.AuthResult, error) {
	if err := s.latency.Wait(ctx, OpLogin); err != nil {
		return domain.AuthResult{}, err
	}
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(c.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuthResult{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResult{}, fmt.Errorf("get user: %w", err)
	}
	if !s.hasher.Matches(u.PasswordHash, c.Password) {
		observability.ObserveBooking("user", "login_failed")
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	// Earlier sessions of the same user stay valid.
	token, err := s.openSession(ctx, u)
	if err != nil {
		return domain.AuthResult{}, err
	}
	observability.ObserveBooking("user", "login")
	log.Info().Int64("user_id", u.ID).Msg("user logged in")
	return domain.AuthResult{Token: token, User: u}, nil
}

// CurrentUser resolves the user behind a token, paying the "me" latency.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	if err := s.latency.Wait(ctx, OpMe); err != nil {
		return domain.User{}, err
	}
	return s.Authenticate(ctx, token)
}

// Authenticate resolves a token without simulated latency; other services call it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.User{}, err
	}
	// a valid signature is not enough: logout revokes by deleting the session
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, fmt.Errorf("get session: %w", err)
	}
	if sess.UserID != userID {
		log.Warn().Int64("token_user", userID).Int64("session_user", sess.UserID).Msg("session does not match token subject")
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, token)
}

func (s *AuthService) openSession(ctx context.Context, u domain.User) (string, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Create(ctx, domain.Session{Token: token, UserID: u.ID, CreatedAt: time.Now().UTC()}); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
