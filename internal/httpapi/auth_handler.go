package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/auth"
	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/internal/session"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

// Authenticator exchanges credentials for a token; satisfied by
// *auth.Client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type AuthHandler struct {
	authn Authenticator
}

func NewAuthHandler(authn Authenticator) *AuthHandler {
	return &AuthHandler{authn: authn}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	User *domain.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, token, err := h.authn.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
			return
		}
		logger.Log.Error("login failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "auth_unavailable", "could not reach the auth service")
		return
	}

	// The cart built before login survives it; only the identity changes.
	sess.SetAuth(token, user)
	sess.NavigateTo(session.PageMain, "")
	respondJSON(w, http.StatusOK, LoginResponseDTO{User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	sess.ClearAuth()
	sess.NavigateTo(session.PageMain, "")
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
