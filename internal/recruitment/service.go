package recruitment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Policy is the pagination policy of posting listings. It is strict: input
// outside the accepted range is rejected rather than corrected.
var Policy = listing.Policy{
	DefaultLimit: 10,
	MaxLimit:     100,
	Strict:       true,
	SortFields: map[string]string{
		"created_at": "created_at",
		"title":      "title",
		"salary_min": "salary_min",
	},
	DefaultSort: "created_at",
	DefaultDir:  listing.SortDesc,
}

// Service implements job posting use cases. Every operation is confined to
// the organization claim of the caller.
type Service struct {
	repo   Repository
	audit  shared.AuditPublisher
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo Repository, audit shared.AuditPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

func organization(p *shared.Principal) (uuid.UUID, error) {
	if p == nil {
		return uuid.Nil, shared.ErrAuthenticationMissing
	}
	return p.Organization()
}

// List returns one page of the organization's postings.
func (s *Service) List(ctx context.Context, p *shared.Principal, w listing.Window, q ListQuery) (shared.Page[PostingDTO], error) {
	org, err := organization(p)
	if err != nil {
		return shared.Page[PostingDTO]{}, err
	}
	if err := q.Validate(); err != nil {
		return shared.Page[PostingDTO]{}, err
	}

	filters := []listing.Filter{listing.Eq("organization_id", org)}
	if q.Title != "" {
		filters = append(filters, listing.Contains("title", q.Title))
	}
	if q.Department != "" {
		filters = append(filters, listing.Eq("department", q.Department))
	}
	filters = append(filters, listing.Range[int64]("salary_min", q.SalaryMin, nil)...)
	filters = append(filters, listing.Range[int64]("salary_max", nil, q.SalaryMax)...)
	if q.Status != "" {
		filters = append(filters, listing.Eq("status", q.Status))
	}

	return listing.Run(ctx, s.repo, listing.Spec{Table: table, Columns: columns, Filters: filters}, w, ToDTO)
}

// Get returns one live posting.
func (s *Service) Get(ctx context.Context, p *shared.Principal, id uuid.UUID) (PostingDTO, error) {
	org, err := organization(p)
	if err != nil {
		return PostingDTO{}, err
	}
	posting, err := s.repo.Get(ctx, org, id)
	if err != nil {
		return PostingDTO{}, err
	}
	return ToDTO(posting), nil
}

// Create opens a posting. Status defaults to draft.
func (s *Service) Create(ctx context.Context, p *shared.Principal, in Input) (PostingDTO, error) {
	org, err := organization(p)
	if err != nil {
		return PostingDTO{}, err
	}
	if err := in.Validate(); err != nil {
		return PostingDTO{}, err
	}
	author, err := p.PrincipalUUID()
	if err != nil {
		return PostingDTO{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	posting, err := s.repo.Create(ctx, JobPosting{
		OrganizationID: org,
		Title:          in.Title,
		Department:     in.Department,
		Location:       in.Location,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		Status:         status,
		ClosesAt:       in.ClosesAt,
		CreatedBy:      author,
	})
	if err != nil {
		return PostingDTO{}, err
	}
	return ToDTO(posting), nil
}

// Update replaces the writable fields of a posting.
func (s *Service) Update(ctx context.Context, p *shared.Principal, id uuid.UUID, in Input) (PostingDTO, error) {
	org, err := organization(p)
	if err != nil {
		return PostingDTO{}, err
	}
	if err := in.Validate(); err != nil {
		return PostingDTO{}, err
	}
	posting, err := s.repo.Update(ctx, org, id, in)
	if err != nil {
		return PostingDTO{}, err
	}
	return ToDTO(posting), nil
}

// Delete soft-deletes a posting and publishes an audit event.
func (s *Service) Delete(ctx context.Context, p *shared.Principal, id uuid.UUID) error {
	org, err := organization(p)
	if err != nil {
		return err
	}
	deletedAt, err := s.repo.SoftDelete(ctx, org, id)
	if err != nil {
		return err
	}
	if s.audit == nil {
		return nil
	}
	err = s.audit.PublishAudit(ctx, shared.AuditEvent{
		Entity:     table,
		EntityID:   id.String(),
		Action:     shared.AuditActionSoftDelete,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		OccurredAt: deletedAt,
	})
	if err != nil {
		s.logger.Warn("publish posting audit", slog.Any("error", err), slog.String("posting_id", id.String()))
	}
	return nil
}
