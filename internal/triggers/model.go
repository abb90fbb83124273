package triggers

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one execution of a workflow by a worker.
type Run struct {
	ID         uuid.UUID
	WorkflowID uuid.UUID
	WorkerID   uuid.UUID
	Status     string
	Error      *string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// ListFilters narrows a run listing.
type ListFilters struct {
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

// FinishInput closes a running run.
type FinishInput struct {
	Status string  `json:"status" validate:"required,oneof=succeeded failed"`
	Error  *string `json:"error" validate:"required_if=Status failed,omitempty,max=2000"`
}
