package triggers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
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
	h := NewHandler(nil, NewService(repo, nil), fixedGuard{principal: p}, nil)
	r := chi.NewRouter()
	r.Route("/workflows", h.MountRoutes)
	return r
}

func TestHandlerListZeroBasedEnvelope(t *testing.T) {
	repo := &stubRepo{visible: true, total: 25}
	router := newTestRouter(repo, operator())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows/"+workflowID.String()+"/runs?page=2&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"current":2,"limit":10,"records":25,"pages":3,"data":[]}`, rec.Body.String())
	assert.Equal(t, 20, repo.window.Skip)
}

func TestHandlerListForbiddenForWorker(t *testing.T) {
	router := newTestRouter(&stubRepo{visible: true}, worker())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows/"+workflowID.String()+"/runs", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerStartAndFinish(t *testing.T) {
	repo := &stubRepo{visible: true}
	router := newTestRouter(repo, worker())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflows/"+workflowID.String()+"/runs", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var started map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Contains(t, started, "finished_at")
	assert.Nil(t, started["finished_at"])
	assert.NotContains(t, started, "error")

	path := "/workflows/" + workflowID.String() + "/runs/" + uuid.NewString() + "/finish"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"status":"failed","error":"timeout"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var finished map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &finished))
	assert.Equal(t, "failed", finished["status"])
	assert.Equal(t, "timeout", finished["error"])
	assert.Equal(t, "2024-02-01T10:05:00.000Z", finished["finished_at"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"status":"failed"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerFinishRejectsOperator(t *testing.T) {
	router := newTestRouter(&stubRepo{}, &shared.Principal{ID: uuid.NewString(), Role: principals.RoleTriggerOperator})
	rec := httptest.NewRecorder()
	path := "/workflows/" + workflowID.String() + "/runs/" + uuid.NewString() + "/finish"
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"status":"succeeded"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerStartIdempotencyKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := NewHandler(nil, NewService(&stubRepo{visible: true}, shared.NewIdempotencyStore(client, 0)), fixedGuard{principal: worker()}, nil)
	router := chi.NewRouter()
	router.Route("/workflows", h.MountRoutes)

	start := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/workflows/"+workflowID.String()+"/runs", nil)
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, start("attempt-1"))
	assert.Equal(t, http.StatusConflict, start("attempt-1"))
	assert.Equal(t, http.StatusCreated, start("attempt-2"))
	assert.Equal(t, http.StatusCreated, start(""))
	assert.Equal(t, http.StatusCreated, start(""))
}
