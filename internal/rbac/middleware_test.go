package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/auth"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

func newMiddleware(t *testing.T, store *principalStore) rbac.Middleware {
	t.Helper()
	authn, err := auth.NewAuthenticator(secret)
	require.NoError(t, err)
	reg, err := rbac.NewRegistry(authn, func(string) rbac.LookupFunc { return store.lookup }, principals.Roles()...)
	require.NoError(t, err)
	return rbac.Middleware{Registry: reg, Metrics: observability.NewMetrics()}
}

func serve(mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, *shared.Principal) {
	var seen *shared.Principal
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, seen
}

func TestRequireRoleStatusCodes(t *testing.T) {
	store := newPrincipalStore()
	store.add("mgr", false)
	store.add("gone", true)
	m := newMiddleware(t, store)
	guard := m.RequireRole(principals.RoleSystemAdmin, principals.RoleWorkflowManager)

	cases := map[string]struct {
		header string
		want   int
	}{
		"missing":      {"", http.StatusUnauthorized},
		"invalid":      {"Bearer abc.def.ghi", http.StatusUnauthorized},
		"wrong role":   {"Bearer " + token(t, "mgr", principals.RoleTechnician), http.StatusForbidden},
		"soft deleted": {"Bearer " + token(t, "gone", principals.RoleWorkflowManager), http.StatusForbidden},
		"allowed":      {"Bearer " + token(t, "mgr", principals.RoleWorkflowManager), http.StatusOK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr, _ := serve(guard, tc.header)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestRequireRoleStoresPrincipal(t *testing.T) {
	store := newPrincipalStore()
	store.add("mgr", false)
	m := newMiddleware(t, store)

	rr, p := serve(m.RequireRole(principals.RoleWorkflowManager), "Bearer "+token(t, "mgr", principals.RoleWorkflowManager))

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, p)
	assert.Equal(t, "mgr", p.ID)
	assert.Equal(t, principals.RoleWorkflowManager, p.Role)
	assert.False(t, p.ExpiresAt.IsZero())
}

func TestRequireRoleMismatchBodyIsGeneric(t *testing.T) {
	store := newPrincipalStore()
	store.add("tech", false)
	m := newMiddleware(t, store)

	rr, _ := serve(m.RequireRole(principals.RoleSystemAdmin), "Bearer "+token(t, "tech", principals.RoleTechnician))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.NotContains(t, rr.Body.String(), principals.RoleTechnician)
}

func TestRequireAnyAcceptsEveryRegisteredRole(t *testing.T) {
	store := newPrincipalStore()
	store.add("p", false)
	m := newMiddleware(t, store)

	for _, role := range principals.Roles() {
		rr, p := serve(m.RequireAny(), "Bearer "+token(t, "p", role))
		assert.Equal(t, http.StatusOK, rr.Code, role)
		require.NotNil(t, p)
		assert.Equal(t, role, p.Role)
	}
}

func TestRegistryUnregisteredRole(t *testing.T) {
	authn, err := auth.NewAuthenticator(secret)
	require.NoError(t, err)
	store := newPrincipalStore()
	store.add("p", false)
	reg, err := rbac.NewRegistry(authn, func(string) rbac.LookupFunc { return store.lookup }, principals.RoleSystemAdmin)
	require.NoError(t, err)

	_, err = reg.Authorize(context.Background(), token(t, "p", principals.RoleTechnician), principals.RoleTechnician)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrAuthorizationRoleMismatch)

	_, ok := reg.Authorizer(principals.RoleSystemAdmin)
	assert.True(t, ok)
}

func TestRequireRoleMetricsIgnoreUnregisteredRoles(t *testing.T) {
	store := newPrincipalStore()
	store.add("tech", false)
	m := newMiddleware(t, store)
	guard := m.RequireRole(principals.RoleWorkflowManager)

	rr, _ := serve(guard, "Bearer "+token(t, "tech", "Role-Minted-By-Signer"))
	require.Equal(t, http.StatusForbidden, rr.Code)
	rr, _ = serve(guard, "Bearer "+token(t, "tech", principals.RoleTechnician))
	require.Equal(t, http.StatusForbidden, rr.Code)

	scrape := httptest.NewRecorder()
	m.Metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, `role="unknown"`)
	assert.Contains(t, body, `role="Technician"`)
	assert.NotContains(t, body, "Role-Minted-By-Signer")
}
