package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified payload of a bearer token.
type Claims struct {
	// PrincipalID is the opaque subject identifier ("id").
	PrincipalID string `json:"id"`
	// Type is the role discriminator ("type").
	Type string `json:"type"`
	// OrganizationID scopes organization-bound roles ("org"). Optional.
	OrganizationID string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// TokenID returns the jti claim.
func (c *Claims) TokenID() string {
	if c == nil {
		return ""
	}
	return c.RegisteredClaims.ID
}

// Expiry returns the exp claim or the zero time.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
