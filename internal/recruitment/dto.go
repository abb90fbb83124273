package recruitment

import "github.com/odyssey-erp/backoffice/internal/shared"

// PostingDTO is the public representation of a job posting.
type PostingDTO struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Title          string  `json:"title"`
	Department     string  `json:"department"`
	Location       *string `json:"location"`
	SalaryMin      *int64  `json:"salary_min"`
	SalaryMax      *int64  `json:"salary_max"`
	Status         string  `json:"status"`
	ClosesAt       *string `json:"closes_at"`
	CreatedBy      string  `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	DeletedAt      *string `json:"deleted_at,omitempty"`
}

// ToDTO maps a posting row.
func ToDTO(p JobPosting) PostingDTO {
	return PostingDTO{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		Title:          p.Title,
		Department:     p.Department,
		Location:       p.Location,
		SalaryMin:      p.SalaryMin,
		SalaryMax:      p.SalaryMax,
		Status:         p.Status,
		ClosesAt:       shared.FormatTimePtr(p.ClosesAt),
		CreatedBy:      p.CreatedBy.String(),
		CreatedAt:      shared.FormatTime(p.CreatedAt),
		UpdatedAt:      shared.FormatTime(p.UpdatedAt),
		DeletedAt:      shared.FormatTimePtr(p.DeletedAt),
	}
}
