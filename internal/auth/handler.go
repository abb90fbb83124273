package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Revoker persists revoked token ids.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Handler exposes session introspection endpoints for authenticated principals.
type Handler struct {
	logger  *slog.Logger
	revoker Revoker
	guard   func(http.Handler) http.Handler
}

// NewHandler builds Handler. guard must authenticate the request and store a
// shared.Principal in the context.
func NewHandler(logger *slog.Logger, revoker Revoker, guard func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, revoker: revoker, guard: guard}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/whoami", h.whoami)
		r.Post("/revoke", h.revoke)
	})
}

type whoamiResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	OrganizationID *string `json:"organization_id"`
	ExpiresAt      string  `json:"expires_at"`
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		httpx.RespondError(w, shared.ErrAuthenticationMissing)
		return
	}
	httpx.JSON(w, http.StatusOK, whoamiResponse{
		ID:             p.ID,
		Type:           p.Role,
		OrganizationID: shared.StringPtr(p.OrganizationID),
		ExpiresAt:      shared.FormatTime(p.ExpiresAt),
	})
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		httpx.RespondError(w, shared.ErrAuthenticationMissing)
		return
	}
	if h.revoker == nil {
		h.logger.Warn("token revocation disabled")
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	if err := h.revoker.Revoke(r.Context(), p.TokenID, p.ExpiresAt); err != nil {
		if httpx.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("revoke token", slog.Any("error", err), slog.String("principal", p.ID))
		} else {
			h.logger.Warn("revoke token rejected", slog.Any("error", err), slog.String("principal", p.ID))
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
