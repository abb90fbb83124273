package rbac

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/auth"
)

// Registry holds one Authorizer per role.
type Registry struct {
	authn       TokenAuthenticator
	authorizers map[string]*Authorizer
}

// NewRegistry registers an authorizer for every role using lookupFor to
// obtain the role's principal lookup.
func NewRegistry(authn TokenAuthenticator, lookupFor func(role string) LookupFunc, roles ...string) (*Registry, error) {
	reg := &Registry{authn: authn, authorizers: make(map[string]*Authorizer, len(roles))}
	for _, role := range roles {
		a, err := NewAuthorizer(role, lookupFor(role), authn)
		if err != nil {
			return nil, err
		}
		reg.authorizers[role] = a
	}
	return reg, nil
}

// Authorizer returns the authorizer registered for role.
func (r *Registry) Authorizer(role string) (*Authorizer, bool) {
	a, ok := r.authorizers[role]
	return a, ok
}

// Authorize verifies header once and admits it when the token's role is one
// of roles and its principal is enrolled.
func (r *Registry) Authorize(ctx context.Context, header string, roles ...string) (*auth.Claims, error) {
	claims, err := r.authn.Authenticate(ctx, header)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role != claims.Type {
			continue
		}
		a, ok := r.authorizers[role]
		if !ok {
			return nil, fmt.Errorf("rbac: role %s not registered", role)
		}
		return a.Check(ctx, claims)
	}
	return nil, &RoleMismatchError{Expected: roles, Actual: claims.Type}
}

// Roles lists the registered role names.
func (r *Registry) Roles() []string {
	out := make([]string, 0, len(r.authorizers))
	for role := range r.authorizers {
		out = append(out, role)
	}
	return out
}
