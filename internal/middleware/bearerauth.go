// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const userKey ctxKey = "user"

// publicPaths need no bearer token: they are how a client obtains one.
var publicPaths = map[string]bool{
	"/api/auth/login":                  true,
	"/api/auth/register":               true,
	"/api/auth/social-register":        true,
	"/api/auth/reset-password-request": true,
}

// BearerAuth returns a middleware that enforces bearer-token authentication.
//
// It verifies the Authorization header carries a JWT signed with secret.
// The login, registration, and password-reset endpoints are excluded so
// that a client can obtain a token in the first place.
//
// On successful validation, it extracts the subject (the account email)
// from the token and stores it in the request context, so it can be used
// downstream as the authenticated user ID.
func BearerAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "no bearer token provided", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			email, err := token.Claims.GetSubject()
			if err != nil || email == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserEmailFromContext extracts the authenticated account email
// from the request context. Returns an empty string if not found.
func GetUserEmailFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
