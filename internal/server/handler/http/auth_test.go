package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodan/storefront/internal/models"
	"github.com/prodan/storefront/internal/service"
)

// fakeAccountsService implements AccountsService for testing.
type fakeAccountsService struct {
	token       string
	authErr     error
	registerErr error
	verifyEmail string
	verifyErr   error
	roles       []models.Role
	rolesErr    error
	isAdmin     bool
	users       []models.User
	updateErr   error
	deleteErr   error
}

func (f *fakeAccountsService) Register(ctx context.Context, req models.RegisterRequest) error {
	return f.registerErr
}

func (f *fakeAccountsService) Authenticate(ctx context.Context, email, password string) (string, error) {
	return f.token, f.authErr
}

func (f *fakeAccountsService) VerifyToken(raw string) (string, error) {
	return f.verifyEmail, f.verifyErr
}

func (f *fakeAccountsService) Roles(ctx context.Context, email string) ([]models.Role, error) {
	return f.roles, f.rolesErr
}

func (f *fakeAccountsService) IsAdmin(ctx context.Context, email string) (bool, error) {
	return f.isAdmin, nil
}

func (f *fakeAccountsService) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeAccountsService) UpdateUser(ctx context.Context, email string, u models.User) error {
	return f.updateErr
}

func (f *fakeAccountsService) DeleteUser(ctx context.Context, email string) error {
	return f.deleteErr
}

func (f *fakeAccountsService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return "If the address exists, a reset email has been sent", nil
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAccountsService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAccountsService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "wrong credentials",
			body:           `{"email":"a@x.com","motDePasse":"bad"}`,
			service:        &fakeAccountsService{authErr: service.ErrInvalidCredentials},
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "invalid email or password",
		},
		{
			name:           "internal error",
			body:           `{"email":"a@x.com","motDePasse":"pw"}`,
			service:        &fakeAccountsService{authErr: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "successful login",
			body:           `{"email":"a@x.com","motDePasse":"pw"}`,
			service:        &fakeAccountsService{token: "tok1"},
			expectedCode:   http.StatusOK,
			expectedSubstr: `"token":"tok1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{Accounts: tt.service}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_ValidateToken(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		service      *fakeAccountsService
		expectedCode int
	}{
		{
			name:         "missing header",
			header:       "",
			service:      &fakeAccountsService{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "invalid token",
			header:       "Bearer expired",
			service:      &fakeAccountsService{verifyErr: errors.New("invalid token")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid token",
			header:       "Bearer tok1",
			service:      &fakeAccountsService{verifyEmail: "a@x.com"},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/validate-token", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h := &AuthHandler{Accounts: tt.service}
			h.ValidateToken(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
		})
	}
}

func TestAuthHandler_GetUserRole(t *testing.T) {
	service := &fakeAccountsService{
		roles: []models.Role{{Name: models.RoleUser}, {Name: models.RoleAdmin}},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/get-user-role?email=a%40x.com", nil)
	h := &AuthHandler{Accounts: service}
	h.GetUserRole(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var roles []models.Role
	if err := json.NewDecoder(rec.Body).Decode(&roles); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(roles) != 2 || roles[1].Name != models.RoleAdmin {
		t.Errorf("unexpected roles: %+v", roles)
	}
}

func TestAuthHandler_GetUserRole_MissingEmail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/get-user-role", nil)
	h := &AuthHandler{Accounts: &fakeAccountsService{}}
	h.GetUserRole(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthHandler_GetAllUsers_RequiresAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/get-all-users", nil)
	h := &AuthHandler{Accounts: &fakeAccountsService{isAdmin: false}}
	h.GetAllUsers(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestAuthHandler_GetAllUsers(t *testing.T) {
	service := &fakeAccountsService{
		isAdmin: true,
		users:   []models.User{{Email: "a@x.com", Name: "Alice"}},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/auth/get-all-users", nil)
	h := &AuthHandler{Accounts: service}
	h.GetAllUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var users []models.User
	if err := json.NewDecoder(rec.Body).Decode(&users); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(users) != 1 || users[0].Email != "a@x.com" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestAuthHandler_VerifyAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/verify-admin",
		bytes.NewBufferString(`{"email":"a@x.com"}`))
	h := &AuthHandler{Accounts: &fakeAccountsService{isAdmin: true}}
	h.VerifyAdmin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !payload["isAdmin"] {
		t.Errorf("expected isAdmin=true, got %v", payload)
	}
}
