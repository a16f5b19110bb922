package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func authedHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserEmailFromContext(r.Context()); got != wantEmail {
			t.Errorf("context email = %q; want %q", got, wantEmail)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	h := BearerAuth(testSecret)(authedHandler(t, "a@x.com"))

	req := httptest.NewRequest(http.MethodGet, "/api/produits", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "a@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
}

func TestBearerAuth_MissingToken(t *testing.T) {
	h := BearerAuth(testSecret)(authedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/produits", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestBearerAuth_WrongSecret(t *testing.T) {
	h := BearerAuth(testSecret)(authedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/produits", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "a@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestBearerAuth_PublicPathSkipsCheck(t *testing.T) {
	h := BearerAuth(testSecret)(authedHandler(t, ""))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200 for public path", rec.Code)
	}
}

func TestGetUserEmailFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetUserEmailFromContext(req.Context()); got != "" {
		t.Errorf("expected empty email, got %q", got)
	}
}
