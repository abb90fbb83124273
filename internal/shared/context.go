package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type principalContextKey struct{}

// Principal is the verified identity attached to a request by the role guards.
type Principal struct {
	ID             string
	Role           string
	OrganizationID string
	TokenID        string
	ExpiresAt      time.Time
}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// Organization parses the organization claim. Principals without one get
// ErrValidation.
func (p *Principal) Organization() (uuid.UUID, error) {
	if p == nil || p.OrganizationID == "" {
		return uuid.Nil, fmt.Errorf("%w: token carries no organization", ErrValidation)
	}
	id, err := uuid.Parse(p.OrganizationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: organization claim is not a UUID", ErrValidation)
	}
	return id, nil
}

// PrincipalUUID parses the principal id.
func (p *Principal) PrincipalUUID() (uuid.UUID, error) {
	if p == nil {
		return uuid.Nil, ErrAuthenticationMissing
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: principal id is not a UUID", ErrAuthorizationPrincipalNotEnrolled)
	}
	return id, nil
}
