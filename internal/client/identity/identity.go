// Package identity decodes the signed credential returned by an
// external script-based sign-in widget. The credential is a JWT; the
// provider already verified it, so the client only extracts claims and
// never treats the decoded identity as authenticated by itself — it is
// exchanged with the backend as a registration payload.
package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prodan/storefront/internal/models"
)

// Credential is the identity extracted from a provider token.
type Credential struct {
	// Email is the account email asserted by the provider.
	Email string
	// Subject is the provider-scoped stable identifier.
	Subject string
	// Name is the display name claim, when present.
	Name string
	// Provider names the issuing provider, e.g. "google".
	Provider string
}

// Decode parses a provider credential without verifying its signature
// and extracts the claims the backend exchange needs. Missing email or
// subject claims are an error.
func Decode(raw, provider string) (Credential, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Credential{}, fmt.Errorf("decode identity credential: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Credential{}, errors.New("decode identity credential: unexpected claims type")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return Credential{}, errors.New("identity credential has no email claim")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Credential{}, errors.New("identity credential has no subject claim")
	}
	name, _ := claims["name"].(string)

	return Credential{Email: email, Subject: sub, Name: name, Provider: provider}, nil
}

// RegisterPayload builds the social-registration request the backend
// expects for a decoded credential. No password is sent for social
// registrations.
func (c Credential) RegisterPayload() models.RegisterRequest {
	return models.RegisterRequest{
		Name:       c.Name,
		Email:      c.Email,
		Provider:   c.Provider,
		ProviderID: c.Subject,
	}
}
