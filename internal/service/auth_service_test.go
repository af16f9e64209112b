package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/auth"
	"tradehub/internal/repository/memory"
)

// recordingMailer captures the last code instead of sending mail.
type recordingMailer struct {
	email string
	code  string
}

func (m *recordingMailer) SendCode(email, code string) error {
	m.email = email
	m.code = code
	return nil
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	users := memory.NewUserRepo()
	mail := &recordingMailer{}
	svc := NewAuthService(users, mail, "test-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	register := RegisterInput{Email: "trader@example.com", Username: "trader", Password: "s3curePass"}
	require.NoError(t, svc.Register(ctx, register))

	assert.Equal(t, "trader@example.com", mail.email)
	require.Len(t, mail.code, 6)

	// Unverified accounts cannot log in.
	_, err := svc.Login(ctx, LoginInput{Email: register.Email, Password: register.Password})
	assert.ErrorIs(t, err, ErrNotVerified)

	// Wrong code is rejected, right code verifies.
	wrong := "000000"
	if mail.code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.VerifyCode(ctx, VerifyInput{Email: register.Email, Code: wrong}), ErrInvalidCode)
	require.NoError(t, svc.VerifyCode(ctx, VerifyInput{Email: register.Email, Code: mail.code}))

	// The code is single-use.
	assert.ErrorIs(t, svc.VerifyCode(ctx, VerifyInput{Email: register.Email, Code: mail.code}), ErrInvalidCode)

	resp, err := svc.Login(ctx, LoginInput{Email: register.Email, Password: register.Password})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.User.Verified)

	// The issued token passes the connection authenticator.
	authenticator := auth.NewAuthenticator(users, "test-secret")
	identity, err := authenticator.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)
	assert.Equal(t, "trader", identity.Username)
}

func TestRegister_DuplicateAndInvalid(t *testing.T) {
	users := memory.NewUserRepo()
	svc := NewAuthService(users, &recordingMailer{}, "test-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	input := RegisterInput{Email: "trader@example.com", Username: "trader", Password: "s3curePass"}
	require.NoError(t, svc.Register(ctx, input))

	assert.ErrorIs(t, svc.Register(ctx, input), ErrEmailTaken)

	other := input
	other.Email = "other@example.com"
	assert.ErrorIs(t, svc.Register(ctx, other), ErrUsernameTaken)

	assert.Error(t, svc.Register(ctx, RegisterInput{Email: "not-an-email", Username: "x", Password: "short"}))
}

func TestLogin_WrongPassword(t *testing.T) {
	users := memory.NewUserRepo()
	mail := &recordingMailer{}
	svc := NewAuthService(users, mail, "test-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterInput{Email: "trader@example.com", Username: "trader", Password: "s3curePass"}))
	require.NoError(t, svc.VerifyCode(ctx, VerifyInput{Email: "trader@example.com", Code: mail.code}))

	_, err := svc.Login(ctx, LoginInput{Email: "trader@example.com", Password: "wrongPassword1"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "s3curePass"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}
