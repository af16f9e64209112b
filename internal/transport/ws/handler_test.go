package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehub/internal/auth"
	"tradehub/internal/domain"
	"tradehub/internal/repository/memory"
	"tradehub/internal/service"
)

// Handshake failures are the only failures a caller ever sees; each one
// carries its stable reason and no events are read from the connection.
func TestServeWS_RejectsBeforeUpgrade(t *testing.T) {
	users := memory.NewUserRepo()
	unverified := &domain.User{ID: uuid.New(), Email: "u@example.com", Username: "u", Role: domain.RoleUser}
	require.NoError(t, users.Create(context.Background(), unverified))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewMessageService(memory.NewMessageRepo(), log)
	hub := NewHub(svc, log)
	authenticator := auth.NewAuthenticator(users, "test-secret")

	srv := httptest.NewServer(ServeWS(hub, authenticator))
	defer srv.Close()

	sign := func(secret, sub string, exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "exp": exp.Unix()})
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"missing token", "", "no-credential"},
		{"expired token", sign("test-secret", unverified.ID.String(), time.Now().Add(-time.Hour)), "invalid-credential"},
		{"unknown subject", sign("test-secret", uuid.NewString(), time.Now().Add(time.Hour)), "unknown-subject"},
		{"unverified subject", sign("test-secret", unverified.ID.String(), time.Now().Add(time.Hour)), "unverified-subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "?token=" + tt.token)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.reason, strings.TrimSpace(string(body)))
		})
	}
}
