// Package service provides the dev backend's business logic for
// accounts, the catalog, and payments, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prodan/storefront/internal/models"
)

// ErrInvalidCredentials is returned when email or password is wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// resetTokenTTL is how long a password-reset token stays valid.
const resetTokenTTL = 30 * time.Minute

// UserRepository defines the persistence operations required by the
// account service.
type UserRepository interface {
	UserExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u models.User, passwordHash []byte, provider, providerID string) error
	GetPasswordHash(ctx context.Context, email string) ([]byte, error)
	GetRoles(ctx context.Context, email string) ([]models.Role, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, email string, u models.User) error
	DeleteUser(ctx context.Context, email string) error
	CreateResetToken(ctx context.Context, email, token string, expiresAt int64) error
}

// AccountService implements registration, authentication, and user
// management. Tokens are HS256 JWTs with the account email as subject.
type AccountService struct {
	repo     UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAccountService constructs an AccountService signing tokens with secret.
func NewAccountService(repo UserRepository, secret string) *AccountService {
	return &AccountService{repo: repo, secret: []byte(secret), tokenTTL: 24 * time.Hour}
}

// hashPassword digests a password for storage. The dev backend is a
// development double, not a production credential store.
func hashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// Register creates a new account with the USER role. A social request
// (Provider set) is stored without a password digest.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) error {
	if req.Email == "" || req.Name == "" {
		return errors.New("nom and email are required")
	}
	if req.Provider == "" && req.Password == "" {
		return errors.New("password is required for traditional registration")
	}
	if req.Provider != "" && req.Password != "" {
		return errors.New("password must not be provided for social registration")
	}

	exists, err := s.repo.UserExists(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("user already exists")
	}

	var hash []byte
	if req.Password != "" {
		hash = hashPassword(req.Password)
	}
	user := models.User{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
		Roles:   []models.Role{{Name: models.RoleUser}},
	}
	return s.repo.CreateUser(ctx, user, hash, req.Provider, req.ProviderID)
}

// Authenticate verifies the password for email and issues a bearer token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	hash, err := s.repo.GetPasswordHash(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	candidate := hashPassword(password)
	if len(hash) == 0 || subtle.ConstantTimeCompare(hash, candidate) != 1 {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(email)
}

// IssueToken signs a token asserting the given email.
func (s *AccountService) IssueToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the email it asserts.
func (s *AccountService) VerifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// Roles lists the roles owned by email.
func (s *AccountService) Roles(ctx context.Context, email string) ([]models.Role, error) {
	return s.repo.GetRoles(ctx, email)
}

// IsAdmin reports whether email holds the ADMIN role.
func (s *AccountService) IsAdmin(ctx context.Context, email string) (bool, error) {
	roles, err := s.repo.GetRoles(ctx, email)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.Name == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// ListUsers returns every account.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser replaces the profile of the account with the given email.
func (s *AccountService) UpdateUser(ctx context.Context, email string, u models.User) error {
	return s.repo.UpdateUser(ctx, email, u)
}

// DeleteUser removes the account with the given email.
func (s *AccountService) DeleteUser(ctx context.Context, email string) error {
	return s.repo.DeleteUser(ctx, email)
}

// RequestPasswordReset records a reset token for email and returns the
// message shown to the user. Unknown emails get the same message so
// the endpoint does not leak which accounts exist.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	const message = "If the address exists, a reset email has been sent"

	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return "", err
	}
	if !exists {
		return message, nil
	}

	expires := time.Now().Add(resetTokenTTL).Unix()
	if err := s.repo.CreateResetToken(ctx, email, uuid.NewString(), expires); err != nil {
		return "", err
	}
	return message, nil
}
