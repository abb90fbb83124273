package workflows

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

// Handler exposes workflow endpoints.
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

// MountRoutes registers workflow routes relative to the /workflows prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(principals.RoleSystemAdmin, principals.RoleWorkflowManager))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	win, err := Policy.Parse(values)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	params := listing.NewParams(values, Policy.Strict)
	filters := ListFilters{
		OrganizationID: params.UUID("organization_id"),
		Name:           params.String("name"),
		Status:         params.OneOf("status", StatusDraft, StatusActive, StatusPaused, StatusArchived),
		CreatedFrom:    params.Time("created_from"),
		CreatedTo:      params.TimeUntil("created_to"),
		IncludeDeleted: params.Bool("include_deleted"),
	}
	if err := params.Err(); err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), shared.PrincipalFromContext(r.Context()), win, filters)
	if err != nil {
		h.fail(w, r, "list workflows", err)
		return
	}
	h.metrics.ObserveListing(table, page.Records)
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dto, err := h.service.Get(r.Context(), shared.PrincipalFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, "get workflow", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	dto, err := h.service.Create(r.Context(), shared.PrincipalFromContext(r.Context()), in)
	if err != nil {
		h.fail(w, r, "create workflow", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dto)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	dto, err := h.service.Update(r.Context(), shared.PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		h.fail(w, r, "update workflow", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), shared.PrincipalFromContext(r.Context()), id); err != nil {
		h.fail(w, r, "delete workflow", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}

// pathID reads the {id} parameter. Malformed ids cannot match a row.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return id, nil
}
