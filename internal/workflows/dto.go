package workflows

import "github.com/odyssey-erp/backoffice/internal/shared"

// WorkflowDTO is the public representation of a workflow. Description is
// always present (null when unset); deleted_at only appears on deleted rows.
type WorkflowDTO struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Status         string  `json:"status"`
	LastRunAt      *string `json:"last_run_at"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	DeletedAt      *string `json:"deleted_at,omitempty"`
}

// ToDTO maps a workflow row.
func ToDTO(w Workflow) WorkflowDTO {
	return WorkflowDTO{
		ID:             w.ID.String(),
		OrganizationID: w.OrganizationID.String(),
		Name:           w.Name,
		Description:    w.Description,
		Status:         w.Status,
		LastRunAt:      shared.FormatTimePtr(w.LastRunAt),
		CreatedBy:      w.CreatedBy.String(),
		CreatedAt:      shared.FormatTime(w.CreatedAt),
		UpdatedAt:      shared.FormatTime(w.UpdatedAt),
		DeletedAt:      shared.FormatTimePtr(w.DeletedAt),
	}
}
