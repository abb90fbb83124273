package triggers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// IdempotencyHeader lets workers retry run creation safely.
const IdempotencyHeader = "Idempotency-Key"

// Handler exposes workflow run endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Guard
	metrics *observability.Metrics
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard, metrics: metrics}
}

// MountRoutes registers run routes relative to the /workflows prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(principals.RoleTriggerOperator, principals.RoleWorkflowManager))
		r.Get("/{id}/runs", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(principals.RoleWorkerService))
		r.Post("/{id}/runs", h.start)
		r.Post("/{id}/runs/{runID}/finish", h.finish)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uuidParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	values := r.URL.Query()
	win, err := Policy.Parse(values)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	params := listing.NewParams(values, Policy.Strict)
	filters := ListFilters{
		Status:      params.OneOf("status", StatusRunning, StatusSucceeded, StatusFailed),
		StartedFrom: params.Time("started_from"),
		StartedTo:   params.TimeUntil("started_to"),
	}
	if err := params.Err(); err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), shared.PrincipalFromContext(r.Context()), workflowID, win, filters)
	if err != nil {
		h.fail(w, r, "list runs", err)
		return
	}
	h.metrics.ObserveListing(table, page.Records)
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uuidParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	key := r.Header.Get(IdempotencyHeader)
	dto, err := h.service.Start(r.Context(), shared.PrincipalFromContext(r.Context()), workflowID, key)
	if err != nil {
		h.fail(w, r, "start run", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dto)
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uuidParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	runID, err := uuidParam(r, "runID")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in FinishInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	dto, err := h.service.Finish(r.Context(), shared.PrincipalFromContext(r.Context()), workflowID, runID, in)
	if err != nil {
		h.fail(w, r, "finish run", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return id, nil
}
