package recruitment

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

// Handler exposes job posting endpoints.
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

// MountRoutes registers posting routes relative to the /recruitment prefix.
// OrganizationAdmin may read; only HrRecruiter may write.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(principals.RoleHrRecruiter, principals.RoleOrganizationAdmin))
		r.Get("/postings", h.list)
		r.Get("/postings/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(principals.RoleHrRecruiter))
		r.Post("/postings", h.create)
		r.Put("/postings/{id}", h.update)
		r.Delete("/postings/{id}", h.delete)
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
	query := ListQuery{
		Title:      params.String("title"),
		Department: params.String("department"),
		SalaryMin:  params.Int64("salary_min"),
		SalaryMax:  params.Int64("salary_max"),
		Status:     params.String("status"),
	}
	if err := params.Err(); err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), shared.PrincipalFromContext(r.Context()), win, query)
	if err != nil {
		h.fail(w, r, "list postings", err)
		return
	}
	h.metrics.ObserveListing(table, page.Records)
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	dto, err := h.service.Get(r.Context(), shared.PrincipalFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, "get posting", err)
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
		h.fail(w, r, "create posting", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dto)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", shared.ErrValidation, err))
		return
	}
	dto, err := h.service.Update(r.Context(), shared.PrincipalFromContext(r.Context()), id, in)
	if err != nil {
		h.fail(w, r, "update posting", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), shared.PrincipalFromContext(r.Context()), id); err != nil {
		h.fail(w, r, "delete posting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
