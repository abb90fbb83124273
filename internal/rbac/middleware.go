package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Guard builds role-restricted middleware. Middleware implements it.
type Guard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// Middleware wires role guards for HTTP handlers.
type Middleware struct {
	Registry *Registry
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// RequireRole admits requests whose bearer token belongs to an enrolled
// principal of any of roles. The principal is stored in the request context.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.Registry.Authorize(r.Context(), r.Header.Get("Authorization"), roles...)
			if err != nil {
				m.Metrics.ObserveAuthz(m.roleLabel(err), outcome(err))
				if httpx.StatusFor(err) == http.StatusInternalServerError && m.Logger != nil {
					m.Logger.Error("rbac authorize", slog.Any("error", err), slog.String("path", r.URL.Path))
				} else if m.Logger != nil {
					m.Logger.Debug("rbac denied", slog.Any("error", err), slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, err)
				return
			}
			m.Metrics.ObserveAuthz(claims.Type, "allowed")
			principal := &shared.Principal{
				ID:             claims.PrincipalID,
				Role:           claims.Type,
				OrganizationID: claims.OrganizationID,
				TokenID:        claims.TokenID(),
				ExpiresAt:      claims.Expiry(),
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAny admits any registered role.
func (m Middleware) RequireAny() func(http.Handler) http.Handler {
	return m.RequireRole(m.Registry.Roles()...)
}

// roleLabel names the token's role for metrics. Roles outside the registry
// collapse into "unknown" so token contents cannot create new series.
func (m Middleware) roleLabel(err error) string {
	var mismatch *RoleMismatchError
	if errors.As(err, &mismatch) && m.Registry != nil {
		if _, ok := m.Registry.Authorizer(mismatch.Actual); ok {
			return mismatch.Actual
		}
	}
	return "unknown"
}

func outcome(err error) string {
	switch {
	case errors.Is(err, shared.ErrAuthenticationMissing):
		return "missing"
	case errors.Is(err, shared.ErrAuthenticationInvalid):
		return "invalid"
	case errors.Is(err, shared.ErrAuthorizationRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, shared.ErrAuthorizationPrincipalNotEnrolled):
		return "not_enrolled"
	default:
		return "error"
	}
}
