package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_reservation/internal/adapters/authn"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
)

func TestSignup_ThenCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Signup(ctx, domain.SignupInput{Email: "  Ana@Example.COM ", Password: "pw", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ana@example.com", res.User.Email)

	me, err := f.auth.CurrentUser(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)
	assert.Equal(t, "Ana", me.Name)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []domain.SignupInput{
		{Email: "", Password: "pw", Name: "A"},
		{Email: "not-an-email", Password: "pw", Name: "A"},
		{Email: "a@b.c", Password: "", Name: "A"},
		{Email: "a@b.c", Password: "pw", Name: "  "},
	}
	for _, in := range cases {
		_, err := f.auth.Signup(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
	}
	assert.Zero(t, f.sessions.Len())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "dup@example.com")

	_, err := f.auth.Signup(context.Background(), domain.SignupInput{Email: "DUP@example.com", Password: "x", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestLogin_WrongPasswordCreatesNoSession(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "ana@example.com")
	before := f.sessions.Len()

	_, err := f.auth.Login(context.Background(), domain.Credentials{Email: "ana@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login(context.Background(), domain.Credentials{Email: "ghost@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, before, f.sessions.Len())
}

func TestLogin_KeepsOlderSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.signup(t, "ana@example.com")

	second, err := f.auth.Login(ctx, domain.Credentials{Email: "ANA@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	for _, tok := range []string{first.Token, second.Token} {
		u, err := f.auth.CurrentUser(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, u.ID)
	}
}

func TestCurrentUser_UnknownToken(t *testing.T) {
	f := newFixture(t)
	for _, tok := range []string{"", "garbage"} {
		_, err := f.auth.CurrentUser(context.Background(), tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}

func TestLogout_InvalidatesOnlyThatToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.signup(t, "ana@example.com")
	b, err := f.auth.Login(ctx, domain.Credentials{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, a.Token))
	_, err = f.auth.CurrentUser(ctx, a.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.auth.CurrentUser(ctx, b.Token)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.auth.Logout(ctx, a.Token), domain.ErrUnauthorized)
}

func TestAuth_LatencyPerOperation(t *testing.T) {
	f := newFixture(t)
	res := f.signup(t, "ana@example.com")
	_, _ = f.auth.CurrentUser(context.Background(), res.Token)

	assert.Equal(t, []string{app.OpSignup, app.OpMe}, f.rec.Ops())
}

func TestAuthenticate_RejectsUnsignedOrMismatchedTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.signup(t, "ana@example.com")
	bob := f.signup(t, "bob@example.com")

	// a session row alone does not make an arbitrary string a credential
	require.NoError(t, f.sessions.Create(ctx, domain.Session{Token: "not-a-jwt", UserID: ana.User.ID, CreatedAt: time.Now()}))
	_, err := f.auth.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// signed by another secret
	forged, err := authn.NewJWT("other").Issue(ana.User)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(ctx, domain.Session{Token: forged, UserID: ana.User.ID, CreatedAt: time.Now()}))
	_, err = f.auth.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// ana's token filed under bob's session
	swapped, err := authn.NewJWT("test").Issue(ana.User)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(ctx, domain.Session{Token: swapped, UserID: bob.User.ID, CreatedAt: time.Now()}))
	_, err = f.auth.Authenticate(ctx, swapped)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := f.auth.Authenticate(ctx, bob.Token)
	require.NoError(t, err)
	assert.Equal(t, bob.User.ID, u.ID)
}
