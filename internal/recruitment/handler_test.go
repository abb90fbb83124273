package recruitment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

type fixedGuard struct {
	principal *shared.Principal
}

func (g fixedGuard) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	r.Route("/recruitment", h.MountRoutes)
	return r
}

func orgAdmin() *shared.Principal {
	return &shared.Principal{ID: uuid.NewString(), Role: principals.RoleOrganizationAdmin, OrganizationID: orgID.String()}
}

func TestHandlerListStrictRejections(t *testing.T) {
	router := newTestRouter(&stubRepo{}, recruiter())

	for _, q := range []string{
		"page=0",
		"page=abc",
		"limit=500",
		"sort=location",
		"dir=up",
		"salary_min=ten",
		"salary_min=500&salary_max=100",
		"status=filled",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recruitment/postings?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"), q)
	}
}

func TestHandlerListEnvelope(t *testing.T) {
	repo := &stubRepo{total: 11, rows: []JobPosting{{ID: uuid.New(), OrganizationID: orgID, Title: "SRE", SalaryMin: int64p(100)}}}
	router := newTestRouter(repo, orgAdmin())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recruitment/postings?page=2&sort=salary_min&dir=asc", nil))
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
	assert.Equal(t, 10, body.Limit)
	assert.Equal(t, int64(11), body.Records)
	assert.Equal(t, int64(2), body.Pages)
	assert.Equal(t, 10, repo.window.Skip)
	assert.Equal(t, "salary_min", repo.window.SortBy)
	require.Len(t, body.Data, 1)
	assert.EqualValues(t, 100, body.Data[0]["salary_min"])
	assert.Contains(t, body.Data[0], "salary_max")
	assert.Nil(t, body.Data[0]["salary_max"])
	assert.NotContains(t, body.Data[0], "deleted_at")
}

func TestHandlerOrganizationAdminIsReadOnly(t *testing.T) {
	router := newTestRouter(&stubRepo{}, orgAdmin())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recruitment/postings", strings.NewReader(`{"title":"SRE","department":"Platform"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/recruitment/postings/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerRecruiterCreates(t *testing.T) {
	router := newTestRouter(&stubRepo{}, recruiter())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recruitment/postings",
		strings.NewReader(`{"title":"SRE","department":"Platform","salary_min":100,"salary_max":200,"closes_at":"2025-01-31T00:00:00Z"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "2025-01-31T00:00:00.000Z", dto["closes_at"])
	assert.Equal(t, "draft", dto["status"])
	assert.Nil(t, dto["location"])
}
