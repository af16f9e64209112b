package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"tradehub/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	err := h.authService.Register(r.Context(), input)
	if err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "All fields are required and must be valid")
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
		default:
			h.log.Error("register failed", "err", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Verification code sent to email"})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input service.VerifyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.authService.VerifyCode(r.Context(), input); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			writeError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired code")
			return
		}
		h.log.Error("verify failed", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Verification failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account verified"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, service.ErrNotVerified):
			writeError(w, http.StatusForbidden, "NOT_VERIFIED", "Please verify your account first")
		default:
			h.log.Error("login failed", "err", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
