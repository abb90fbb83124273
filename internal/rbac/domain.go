package rbac

import (
	"context"
	"fmt"
	"strings"

	"github.com/odyssey-erp/backoffice/internal/auth"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// TokenAuthenticator verifies a raw Authorization header.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, header string) (*auth.Claims, error)
}

// LookupFunc reports whether an active (not soft-deleted) principal with id exists.
type LookupFunc func(ctx context.Context, id string) (bool, error)

// RoleMismatchError carries the role found in the token. Only the generic
// shared.ErrAuthorizationRoleMismatch message reaches API clients.
type RoleMismatchError struct {
	Expected []string
	Actual   string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("rbac: role %q not in [%s]", e.Actual, strings.Join(e.Expected, ", "))
}

// Unwrap lets errors.Is match shared.ErrAuthorizationRoleMismatch.
func (e *RoleMismatchError) Unwrap() error {
	return shared.ErrAuthorizationRoleMismatch
}
