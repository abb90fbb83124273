package workflows

import (
	"time"

	"github.com/google/uuid"
)

// Workflow statuses.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusArchived = "archived"
)

// Workflow is an automation definition owned by an organization.
type Workflow struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Description    *string
	Status         string
	LastRunAt      *time.Time
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ListFilters narrows a workflow listing.
type ListFilters struct {
	OrganizationID *uuid.UUID
	Name           string
	Status         string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	IncludeDeleted bool
}

// Input carries the writable fields of a workflow.
type Input struct {
	OrganizationID *uuid.UUID `json:"organization_id"`
	Name           string     `json:"name" validate:"required,max=120"`
	Description    *string    `json:"description" validate:"omitempty,max=2000"`
	Status         string     `json:"status" validate:"omitempty,oneof=draft active paused archived"`
}
