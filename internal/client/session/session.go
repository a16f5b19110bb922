// Package session implements the authentication state engine. It owns
// the credential (token + email), derives login status and privilege
// role, and persists the credential through the key-value store so a
// reload resumes pending validation instead of starting anonymous.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/client/store"
	"github.com/prodan/storefront/internal/models"
)

// State is the engine's position in the authentication lifecycle.
type State int

const (
	// Anonymous means no credential is held.
	Anonymous State = iota
	// Authenticating means a token is held but the role is still pending.
	Authenticating
	// Authenticated means a token is held and the role has been resolved.
	Authenticated
)

// AuthAPI is the slice of the backend the session engine needs.
type AuthAPI interface {
	// ValidateToken returns nil only for a token the backend accepts.
	ValidateToken(ctx context.Context, token string) error
	// GetUserRole lists the roles owned by the given email.
	GetUserRole(ctx context.Context, token, email string) ([]models.Role, error)
}

// rolePriority resolves ties when the backend returns several roles:
// the highest priority wins.
var rolePriority = map[string]int{
	models.RoleAdmin: 2,
	models.RoleUser:  1,
}

// Session holds the current credential and derived authentication
// state. Only the session itself mutates its fields; consumers read
// through accessors.
type Session struct {
	mu    sync.Mutex
	token string
	email string
	role  string
	state State
	err   string

	api   AuthAPI
	store *store.Store
	log   *zap.Logger
}

// New constructs a Session hydrated from the persistent store. A
// stored token starts the engine in Authenticating: the role is never
// trusted from local state and must be re-derived from the backend.
func New(st *store.Store, api AuthAPI, log *zap.Logger) *Session {
	s := &Session{api: api, store: st, log: log, state: Anonymous}
	if token, ok := st.Get(store.KeyToken); ok && token != "" {
		s.token = token
		s.state = Authenticating
	}
	if email, ok := st.Get(store.KeyEmail); ok {
		s.email = email
	}
	return s
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Email returns the account email of the current credential.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Role returns the resolved privilege role, or "" while it is pending
// or after a failed role fetch.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// State returns the engine's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoggedIn reports whether a credential is held.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Err returns the last recoverable error message, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Login stores the credential in memory and in the persistent store,
// then re-derives the role from the backend. The role fetch always
// goes to the backend even though the token may embed one.
func (s *Session) Login(ctx context.Context, email, token string) {
	s.mu.Lock()
	s.token = token
	s.email = email
	s.role = ""
	s.err = ""
	s.state = Authenticating
	s.mu.Unlock()

	if err := s.store.Set(store.KeyToken, token); err != nil {
		s.log.Error("failed to persist token", zap.Error(err))
	}
	if err := s.store.Set(store.KeyEmail, email); err != nil {
		s.log.Error("failed to persist email", zap.Error(err))
	}

	s.FetchRole(ctx, email)
}

// Logout clears the credential from memory and from the persistent
// store and returns the engine to Anonymous.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.role = ""
	s.err = ""
	s.state = Anonymous
	s.mu.Unlock()

	if err := s.store.Remove(store.KeyToken); err != nil {
		s.log.Error("failed to remove persisted token", zap.Error(err))
	}
	if err := s.store.Remove(store.KeyEmail); err != nil {
		s.log.Error("failed to remove persisted email", zap.Error(err))
	}
}

// Validate checks the held token against the backend. Rejection and
// network failure are both treated as an invalid session and force a
// logout. It returns whether the session is still valid. A session
// with no token is trivially valid.
func (s *Session) Validate(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		return true
	}
	if err := s.api.ValidateToken(ctx, token); err != nil {
		s.log.Warn("token is invalid or expired, logging out", zap.Error(err))
		s.Logout()
		return false
	}
	return true
}

// FetchRole re-derives the privilege role for email from the backend
// and resolves the highest-priority one. On failure the role is left
// unset and an error message is recorded; the engine does not assume
// the lowest privilege.
func (s *Session) FetchRole(ctx context.Context, email string) {
	roles, err := s.api.GetUserRole(ctx, s.Token(), email)
	if err != nil {
		s.log.Warn("failed to fetch user role", zap.String("email", email), zap.Error(err))
		s.mu.Lock()
		s.err = "failed to fetch user role"
		s.mu.Unlock()
		return
	}

	highest := models.RoleUser
	for _, r := range roles {
		if rolePriority[r.Name] > rolePriority[highest] {
			highest = r.Name
		}
	}

	s.mu.Lock()
	// a logout may have raced the fetch; do not resurrect the session
	if s.token != "" {
		s.role = highest
		s.state = Authenticated
	}
	s.mu.Unlock()
}
