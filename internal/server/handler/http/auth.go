// Package http provides the dev backend's HTTP handlers for
// authentication, user management, the product catalog, and payments.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prodan/storefront/internal/models"
	"github.com/prodan/storefront/internal/repository"
	"github.com/prodan/storefront/internal/service"
)

// AccountsService defines the account operations required by the
// HTTP handlers.
type AccountsService interface {
	// Register creates a new account, traditional or social.
	Register(ctx context.Context, req models.RegisterRequest) error
	// Authenticate verifies credentials and returns a bearer token.
	Authenticate(ctx context.Context, email, password string) (string, error)
	// VerifyToken validates a token and returns the email it asserts.
	VerifyToken(raw string) (string, error)
	// Roles lists the roles owned by email.
	Roles(ctx context.Context, email string) ([]models.Role, error)
	// IsAdmin reports whether email holds the ADMIN role.
	IsAdmin(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, email string, u models.User) error
	DeleteUser(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
}

// AuthHandler handles HTTP requests for authentication and user management.
type AuthHandler struct {
	// Accounts performs the underlying account operations.
	Accounts AccountsService
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a {"message": ...} body with the given status.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// Login handles POST /api/auth/login.
// It expects a JSON body with email and password and responds with a
// bearer token on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Register handles POST /api/auth/register and /api/auth/social-register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Accounts.Register(r.Context(), req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "user registered")
}

// ValidateToken handles POST /api/auth/validate-token.
// It revalidates the bearer token in the Authorization header and
// responds 200 only when the token is still valid.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if _, err := h.Accounts.VerifyToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetUserRole handles GET /api/auth/get-user-role?email=.
// It responds with the list of roles owned by the given email.
func (h *AuthHandler) GetUserRole(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	roles, err := h.Accounts.Roles(r.Context(), email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

// ResetPasswordRequest handles POST /api/auth/reset-password-request.
func (h *AuthHandler) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	message, err := h.Accounts.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeMessage(w, http.StatusOK, message)
}

// VerifyAdmin handles POST /api/auth/verify-admin.
func (h *AuthHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	isAdmin, err := h.Accounts.IsAdmin(r.Context(), req.Email)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": isAdmin})
}

// GetAllUsers handles GET /api/auth/get-all-users. Admin only.
func (h *AuthHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Accounts) {
		return
	}
	users, err := h.Accounts.ListUsers(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateUser handles PUT /api/auth/update-user?email=. Admin only.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Accounts) {
		return
	}
	email := r.URL.Query().Get("email")
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || email == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.Accounts.UpdateUser(r.Context(), email, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeMessage(w, http.StatusOK, "user updated")
}

// DeleteUser handles DELETE /api/auth/delete-user?email=. Admin only.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Accounts) {
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.Accounts.DeleteUser(r.Context(), email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}
