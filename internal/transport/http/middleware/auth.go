package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tradehub/internal/auth"
	"tradehub/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Auth guards request/response endpoints with the same authenticator
// that gates the WebSocket handshake: Bearer token in, full resolved
// identity out.
func Auth(authenticator *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := ""
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}

			identity, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				reason, ok := auth.Reason(err)
				if !ok {
					http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
					return
				}
				http.Error(w, fmt.Sprintf(`{"error":%q}`, reason), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the authenticated identity from request context.
func GetIdentity(ctx context.Context) domain.Identity {
	return ctx.Value(identityKey).(domain.Identity)
}
