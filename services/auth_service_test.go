package services

import (
	"testing"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(f *fixture) *AuthService {
	return NewAuthService(f.users, testSecret, time.Hour, zerolog.Nop())
}

func signSubject(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)

	u, err := svc.Register(bg, RegisterIn{Username: " alice ", Email: "Alice@Example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "secret", u.Password)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(bg, RegisterIn{Username: "alice", Email: "other@example.com", Password: "x"})
		require.ErrorIs(t, err, ErrConflict)
		assert.EqualError(t, err, "Username already exists")
		assert.Equal(t, 400, HTTPStatus(err))

		var n int64
		f.db.Model(&entity.User{}).Count(&n)
		assert.EqualValues(t, 1, n)
	})
	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(bg, RegisterIn{Username: "alice2", Email: "alice@example.com", Password: "x"})
		require.ErrorIs(t, err, ErrConflict)
		assert.EqualError(t, err, "Email already registered")
	})
	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(bg, RegisterIn{Username: "bob"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	u, err := svc.Register(bg, RegisterIn{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	token, got, err := svc.Authenticate(bg, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	id, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, _, err = svc.Authenticate(bg, "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.Authenticate(bg, "nobody", "secret")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualError(t, err, "Invalid credentials")
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)

	t.Run("non integer subject", func(t *testing.T) {
		_, err := svc.Resolve(signSubject(t, "abc"))
		require.ErrorIs(t, err, ErrInvalidIdentity)
		assert.Equal(t, 422, HTTPStatus(err))
	})
	t.Run("non positive subject", func(t *testing.T) {
		for _, sub := range []string{"0", "-1"} {
			_, err := svc.Resolve(signSubject(t, sub))
			require.ErrorIs(t, err, ErrForbidden, sub)
			assert.Equal(t, 403, HTTPStatus(err), sub)
			assert.EqualError(t, err, "User not found")
		}
	})
	t.Run("out of range subject", func(t *testing.T) {
		_, err := svc.Resolve(signSubject(t, "99999999999999999999"))
		require.ErrorIs(t, err, ErrInvalidIdentity)
	})
	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Resolve("not-a-token")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("expired", func(t *testing.T) {
		tok, err := utils.GenerateToken(1, testSecret, -time.Minute)
		require.NoError(t, err)
		_, err = svc.Resolve(tok)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("wrong secret", func(t *testing.T) {
		tok, err := utils.GenerateToken(1, "other", time.Hour)
		require.NoError(t, err)
		_, err = svc.Resolve(tok)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRequireUserAndAdmin(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	u := f.user(t, "alice")
	admin := &entity.User{Username: "root", Email: "root@example.com", Password: "x", IsAdmin: true}
	require.NoError(t, f.db.Create(admin).Error)

	userTok, err := utils.GenerateToken(u.ID, testSecret, time.Hour)
	require.NoError(t, err)
	adminTok, err := utils.GenerateToken(admin.ID, testSecret, time.Hour)
	require.NoError(t, err)
	ghostTok, err := utils.GenerateToken(9999, testSecret, time.Hour)
	require.NoError(t, err)

	got, err := svc.RequireUser(bg, userTok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.RequireUser(bg, ghostTok)
	require.ErrorIs(t, err, ErrForbidden)
	assert.EqualError(t, err, "User not found")

	_, err = svc.RequireAdmin(bg, userTok)
	require.ErrorIs(t, err, ErrForbidden)
	assert.EqualError(t, err, "Admin access required")

	got, err = svc.RequireAdmin(bg, adminTok)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
}

func TestForgotPassword(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	f.user(t, "alice")

	require.NoError(t, svc.ForgotPassword(bg, "ALICE@example.com"))
	require.ErrorIs(t, svc.ForgotPassword(bg, "nobody@example.com"), ErrNotFound)
	require.ErrorIs(t, svc.ForgotPassword(bg, ""), ErrInvalidInput)
}
