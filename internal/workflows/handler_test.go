package workflows

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// fixedGuard admits a preset principal when its role is listed.
type fixedGuard struct {
	principal *shared.Principal
}

func (g fixedGuard) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.principal == nil {
				httpx.RespondError(w, shared.ErrAuthenticationMissing)
				return
			}
			if !slices.Contains(roles, g.principal.Role) {
				httpx.RespondError(w, shared.ErrAuthorizationRoleMismatch)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), g.principal)))
		})
	}
}

func newTestRouter(repo *stubRepo, p *shared.Principal) http.Handler {
	h := NewHandler(nil, NewService(repo, nil, nil), fixedGuard{principal: p}, nil)
	r := chi.NewRouter()
	r.Route("/workflows", h.MountRoutes)
	return r
}

func TestHandlerListEnvelope(t *testing.T) {
	desc := "syncs ledgers"
	deleted := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	repo := &stubRepo{total: 45, rows: []Workflow{
		{ID: uuid.New(), OrganizationID: orgA, Name: "a", Status: StatusActive},
		{ID: uuid.New(), OrganizationID: orgA, Name: "b", Description: &desc, DeletedAt: &deleted},
	}}
	router := newTestRouter(repo, admin())

	req := httptest.NewRequest(http.MethodGet, "/workflows?page=2&limit=20&include_deleted=true&created_from=nonsense", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Current int              `json:"current"`
		Limit   int              `json:"limit"`
		Records int64            `json:"records"`
		Pages   int64            `json:"pages"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Current)
	assert.Equal(t, 20, body.Limit)
	assert.Equal(t, int64(45), body.Records)
	assert.Equal(t, int64(3), body.Pages)
	assert.Equal(t, 20, repo.window.Skip)
	require.Len(t, body.Data, 2)

	first := body.Data[0]
	assert.Contains(t, first, "description")
	assert.Nil(t, first["description"])
	assert.NotContains(t, first, "deleted_at")

	second := body.Data[1]
	assert.Equal(t, desc, second["description"])
	assert.Equal(t, "2024-03-01T08:00:00.000Z", second["deleted_at"])

	for _, f := range repo.spec.Filters {
		assert.NotEqual(t, "created_at", f.Column, "unparseable dates are dropped")
	}
}

func TestHandlerListClampsOversizedLimit(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, admin())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows?page=-3&limit=5000&sort=nope", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"current":1,"limit":100,"records":0,"pages":0,"data":[]}`, rec.Body.String())
}

func TestHandlerRejectsOtherRoles(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &shared.Principal{ID: userID.String(), Role: principals.RoleTechnician})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	router = newTestRouter(&stubRepo{}, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerManagerWithoutOrganization(t *testing.T) {
	router := newTestRouter(&stubRepo{}, manager(""))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestHandlerGetUnknownID(t *testing.T) {
	router := newTestRouter(&stubRepo{}, admin())

	for _, path := range []string{"/workflows/not-a-uuid", "/workflows/" + uuid.NewString()} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandlerCreate(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, manager(orgA.String()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows", strings.NewReader(`{"name":"Payroll","status":"active"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "Payroll", dto["name"])
	assert.Equal(t, orgA.String(), dto["organization_id"])
	assert.Nil(t, dto["last_run_at"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows", strings.NewReader(`{"name":"x","extra":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	router := newTestRouter(&stubRepo{}, admin())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/workflows/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	router = newTestRouter(&stubRepo{deleteErr: shared.ErrNotFound}, admin())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/workflows/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
