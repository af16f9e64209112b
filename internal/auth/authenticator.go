package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tradehub/internal/domain"
	"tradehub/internal/repository"
)

// Rejection reasons are part of the wire contract; clients key off the
// exact strings.
var (
	ErrNoCredential      = errors.New("no-credential")
	ErrInvalidCredential = errors.New("invalid-credential")
	ErrUnknownSubject    = errors.New("unknown-subject")
	ErrUnverifiedSubject = errors.New("unverified-subject")
)

var rejections = []error{ErrNoCredential, ErrInvalidCredential, ErrUnknownSubject, ErrUnverifiedSubject}

// Reason returns the stable rejection reason for err, if it is one of
// the handshake rejection errors.
func Reason(err error) (string, bool) {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return rejection.Error(), true
		}
	}
	return "", false
}

// Authenticator verifies signed credential tokens and resolves them to
// identities ahead of any application traffic.
type Authenticator struct {
	users  repository.UserRepository
	secret []byte
}

func NewAuthenticator(users repository.UserRepository, jwtSecret string) *Authenticator {
	return &Authenticator{users: users, secret: []byte(jwtSecret)}
}

// Authenticate runs the full handshake check sequence: token presence,
// signature and expiry, subject lookup, subject verification. It either
// succeeds fully or rejects the attempt; there is no partial result.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrNoCredential
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredential
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidCredential
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up subject: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}
	if !user.Verified {
		return nil, ErrUnverifiedSubject
	}

	identity := user.Identity()
	return &identity, nil
}
