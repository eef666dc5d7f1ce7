package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/middleware"
	"github.com/converse-app/converse/internal/services/user_services"
)

type AuthHandler struct {
	UserService *user_services.UserService
}

func NewAuthHandler(us *user_services.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// Register creates a new account from an email/password pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	account, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, "Email already registered", http.StatusConflict)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(account))
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the account behind the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(account))
}

// DeleteAccount removes the account and everything it owns.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.UserService.DeleteAccount(r.Context(), account.ID); err != nil {
		writeError(w, "Could not delete account", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
