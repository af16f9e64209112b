package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/domain"
	"tradehub/internal/repository/memory"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func seedUser(t *testing.T, users *memory.UserRepo, verified bool) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:       uuid.New(),
		Email:    "trader@example.com",
		Username: "trader",
		Role:     domain.RoleUser,
		Verified: verified,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthenticate_Success(t *testing.T) {
	users := memory.NewUserRepo()
	user := seedUser(t, users, true)
	a := NewAuthenticator(users, testSecret)

	token := signToken(t, testSecret, user.ID.String(), time.Now().Add(time.Hour))
	identity, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "trader", identity.Username)
	assert.Equal(t, domain.RoleUser, identity.Role)
	assert.True(t, identity.Verified)
}

func TestAuthenticate_NoCredential(t *testing.T) {
	a := NewAuthenticator(memory.NewUserRepo(), testSecret)

	_, err := a.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestAuthenticate_InvalidCredential(t *testing.T) {
	users := memory.NewUserRepo()
	user := seedUser(t, users, true)
	a := NewAuthenticator(users, testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", signToken(t, testSecret, user.ID.String(), time.Now().Add(-time.Hour))},
		{"wrong key", signToken(t, "other-secret", user.ID.String(), time.Now().Add(time.Hour))},
		{"non-uuid subject", signToken(t, testSecret, "bob", time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	a := NewAuthenticator(memory.NewUserRepo(), testSecret)

	token := signToken(t, testSecret, uuid.NewString(), time.Now().Add(time.Hour))
	_, err := a.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestAuthenticate_UnverifiedSubject(t *testing.T) {
	users := memory.NewUserRepo()
	user := seedUser(t, users, false)
	a := NewAuthenticator(users, testSecret)

	token := signToken(t, testSecret, user.ID.String(), time.Now().Add(time.Hour))
	_, err := a.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnverifiedSubject)
}

func TestReason(t *testing.T) {
	for _, rejection := range []error{ErrNoCredential, ErrInvalidCredential, ErrUnknownSubject, ErrUnverifiedSubject} {
		reason, ok := Reason(rejection)
		assert.True(t, ok)
		assert.Equal(t, rejection.Error(), reason)
	}

	_, ok := Reason(context.Canceled)
	assert.False(t, ok)
}
