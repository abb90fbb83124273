// Package rbac enforces role-scoped access on top of verified bearer tokens.
package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/auth"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Authorizer guarantees a request acts as a live principal of one role.
type Authorizer struct {
	role   string
	lookup LookupFunc
	authn  TokenAuthenticator
}

// NewAuthorizer binds role to its principal lookup.
func NewAuthorizer(role string, lookup LookupFunc, authn TokenAuthenticator) (*Authorizer, error) {
	if role == "" {
		return nil, errors.New("rbac: role name required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("rbac: lookup required for %s", role)
	}
	if authn == nil {
		return nil, errors.New("rbac: authenticator required")
	}
	return &Authorizer{role: role, lookup: lookup, authn: authn}, nil
}

// Role returns the bound role name.
func (a *Authorizer) Role() string {
	return a.role
}

// Authorize verifies header and returns the unmodified claims when the token
// belongs to an enrolled principal of the bound role.
func (a *Authorizer) Authorize(ctx context.Context, header string) (*auth.Claims, error) {
	claims, err := a.authn.Authenticate(ctx, header)
	if err != nil {
		return nil, err
	}
	return a.Check(ctx, claims)
}

// Check runs the role and enrollment gates against already verified claims.
func (a *Authorizer) Check(ctx context.Context, claims *auth.Claims) (*auth.Claims, error) {
	if claims.Type != a.role {
		return nil, &RoleMismatchError{Expected: []string{a.role}, Actual: claims.Type}
	}
	ok, err := a.lookup(ctx, claims.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("rbac: lookup %s: %w", a.role, err)
	}
	if !ok {
		return nil, shared.ErrAuthorizationPrincipalNotEnrolled
	}
	return claims, nil
}
