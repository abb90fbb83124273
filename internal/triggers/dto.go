package triggers

import "github.com/odyssey-erp/backoffice/internal/shared"

// RunDTO is the public representation of a run. finished_at is null while the
// run is in flight; error only appears when the run recorded one.
type RunDTO struct {
	ID         string  `json:"id"`
	WorkflowID string  `json:"workflow_id"`
	WorkerID   string  `json:"worker_id"`
	Status     string  `json:"status"`
	Error      *string `json:"error,omitempty"`
	StartedAt  string  `json:"started_at"`
	FinishedAt *string `json:"finished_at"`
}

// ToDTO maps a run row.
func ToDTO(r Run) RunDTO {
	return RunDTO{
		ID:         r.ID.String(),
		WorkflowID: r.WorkflowID.String(),
		WorkerID:   r.WorkerID.String(),
		Status:     r.Status,
		Error:      r.Error,
		StartedAt:  shared.FormatTime(r.StartedAt),
		FinishedAt: shared.FormatTimePtr(r.FinishedAt),
	}
}
