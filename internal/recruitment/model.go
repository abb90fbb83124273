package recruitment

import (
	"time"

	"github.com/google/uuid"
)

// Posting statuses.
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// JobPosting is an open or planned position of an organization.
type JobPosting struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Title          string
	Department     string
	Location       *string
	SalaryMin      *int64
	SalaryMax      *int64
	Status         string
	ClosesAt       *time.Time
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ListQuery is the filter part of a posting listing request.
type ListQuery struct {
	Title      string `query:"title" validate:"max=160"`
	Department string `query:"department" validate:"max=80"`
	SalaryMin  *int64 `query:"salary_min" validate:"omitempty,min=0"`
	SalaryMax  *int64 `query:"salary_max" validate:"omitempty,min=0"`
	Status     string `query:"status" validate:"omitempty,oneof=draft open closed"`
}

// Input carries the writable fields of a posting.
type Input struct {
	Title      string     `json:"title" validate:"required,max=160"`
	Department string     `json:"department" validate:"required,max=80"`
	Location   *string    `json:"location" validate:"omitempty,max=120"`
	SalaryMin  *int64     `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax  *int64     `json:"salary_max" validate:"omitempty,min=0"`
	Status     string     `json:"status" validate:"omitempty,oneof=draft open closed"`
	ClosesAt   *time.Time `json:"closes_at"`
}
