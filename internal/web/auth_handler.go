package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

// sessionAPI is the slice of the session manager the handler drives.
type sessionAPI interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, req api.SignUpRequest) (*domain.User, error)
	Logout(ctx context.Context) error
	LoggedIn() bool
	User() *domain.User
}

type AuthHandler struct {
	sessions sessionAPI
	timeout  time.Duration
}

func NewAuthHandler(sessions sessionAPI, timeout time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, timeout: timeout}
}

type SignInRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "email and password are required")
		return
	}

	user, err := h.sessions.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req api.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "full_name, email and password are required")
		return
	}

	user, err := h.sessions.SignUp(ctx, req)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Local state is cleared regardless; a failed server notification is
	// not worth blocking the sign-out over.
	if err := h.sessions.Logout(ctx); err != nil {
		respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.LoggedIn() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": h.sessions.User()})
}
