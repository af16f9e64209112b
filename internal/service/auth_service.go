package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"tradehub/internal/domain"
	"tradehub/internal/repository"
)

var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidCreds  = errors.New("invalid email or password")
	ErrNotVerified   = errors.New("account not verified")
	ErrInvalidCode   = errors.New("invalid or expired code")
)

const (
	codeTTL  = 10 * time.Minute
	tokenTTL = 7 * 24 * time.Hour
)

var validate = validator.New()

// CodeSender delivers one-time verification codes out of band.
type CodeSender interface {
	SendCode(email, code string) error
}

type AuthService struct {
	users     repository.UserRepository
	mailer    CodeSender
	jwtSecret []byte
	log       *slog.Logger
}

func NewAuthService(users repository.UserRepository, mailer CodeSender, jwtSecret string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type VerifyInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"token"`
}

// Register creates an unverified account and mails it a one-time code.
// The code is stored hashed, like the password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	existing, err = s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	passwordHash, err := hashSecret(input.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}
	codeHash, err := hashSecret(code)
	if err != nil {
		return fmt.Errorf("hashing code: %w", err)
	}

	now := time.Now()
	expires := now.Add(codeTTL)
	user := &domain.User{
		ID:            uuid.New(),
		Email:         input.Email,
		Username:      input.Username,
		PasswordHash:  passwordHash,
		Role:          domain.RoleUser,
		Verified:      false,
		CodeHash:      codeHash,
		CodeExpiresAt: &expires,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	if err := s.mailer.SendCode(user.Email, code); err != nil {
		return fmt.Errorf("sending verification code: %w", err)
	}

	s.log.Info("user registered", "username", user.Username)
	return nil
}

// VerifyCode marks an account verified when the submitted code matches
// the stored hash and has not expired. The code is single-use.
func (s *AuthService) VerifyCode(ctx context.Context, input VerifyInput) error {
	if err := validate.Struct(input); err != nil {
		return ErrInvalidCode
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil || user.CodeHash == "" {
		return ErrInvalidCode
	}
	if user.CodeExpiresAt == nil || user.CodeExpiresAt.Before(time.Now()) {
		return ErrInvalidCode
	}
	if !verifySecret(input.Code, user.CodeHash) {
		return ErrInvalidCode
	}

	user.Verified = true
	user.CodeHash = ""
	user.CodeExpiresAt = nil
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	s.log.Info("account verified", "username", user.Username)
	return nil
}

// Login exchanges valid credentials of a verified account for a signed
// token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidCreds
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}
	if !user.Verified {
		return nil, ErrNotVerified
	}
	if !verifySecret(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// generateCode returns a 6-digit one-time code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashSecret(secret string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifySecret(secret, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(secret), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
