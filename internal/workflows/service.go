package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Policy is the pagination policy of workflow listings: out-of-range input is
// clamped or replaced by defaults, pages start at 1.
var Policy = listing.Policy{
	DefaultLimit: 20,
	MaxLimit:     100,
	SortFields: map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"name":       "name",
	},
	DefaultSort: "created_at",
	DefaultDir:  listing.SortDesc,
}

// Service implements workflow use cases.
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

// scope returns the organization a principal is confined to. SystemAdmin is
// unconfined.
func scope(p *shared.Principal) (*uuid.UUID, error) {
	if p == nil {
		return nil, shared.ErrAuthenticationMissing
	}
	if p.Role == principals.RoleSystemAdmin {
		return nil, nil
	}
	org, err := p.Organization()
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns one page of workflows visible to p.
func (s *Service) List(ctx context.Context, p *shared.Principal, w listing.Window, f ListFilters) (shared.Page[WorkflowDTO], error) {
	org, err := scope(p)
	if err != nil {
		return shared.Page[WorkflowDTO]{}, err
	}
	spec := listing.Spec{Table: table, Columns: columns}
	switch {
	case org != nil:
		spec.Filters = append(spec.Filters, listing.Eq("organization_id", *org))
	case f.OrganizationID != nil:
		spec.Filters = append(spec.Filters, listing.Eq("organization_id", *f.OrganizationID))
	}
	if f.Name != "" {
		spec.Filters = append(spec.Filters, listing.Contains("name", f.Name))
	}
	if f.Status != "" {
		spec.Filters = append(spec.Filters, listing.Eq("status", f.Status))
	}
	spec.Filters = append(spec.Filters, listing.Range("created_at", f.CreatedFrom, f.CreatedTo)...)
	spec.IncludeDeleted = f.IncludeDeleted && p.Role == principals.RoleSystemAdmin

	return listing.Run(ctx, s.repo, spec, w, ToDTO)
}

// Get returns a live workflow visible to p.
func (s *Service) Get(ctx context.Context, p *shared.Principal, id uuid.UUID) (WorkflowDTO, error) {
	org, err := scope(p)
	if err != nil {
		return WorkflowDTO{}, err
	}
	wf, err := s.repo.Get(ctx, id, org)
	if err != nil {
		return WorkflowDTO{}, err
	}
	return ToDTO(wf), nil
}

// Create stores a new workflow owned by the principal's organization, or by
// in.OrganizationID for SystemAdmin.
func (s *Service) Create(ctx context.Context, p *shared.Principal, in Input) (WorkflowDTO, error) {
	org, err := scope(p)
	if err != nil {
		return WorkflowDTO{}, err
	}
	if err := shared.ValidateStruct(in); err != nil {
		return WorkflowDTO{}, err
	}
	owner, err := ownerFor(org, in.OrganizationID)
	if err != nil {
		return WorkflowDTO{}, err
	}
	author, err := p.PrincipalUUID()
	if err != nil {
		return WorkflowDTO{}, err
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	wf, err := s.repo.Create(ctx, Workflow{
		OrganizationID: owner,
		Name:           in.Name,
		Description:    in.Description,
		Status:         status,
		CreatedBy:      author,
	})
	if err != nil {
		return WorkflowDTO{}, err
	}
	return ToDTO(wf), nil
}

func ownerFor(scoped, requested *uuid.UUID) (uuid.UUID, error) {
	switch {
	case scoped != nil && requested != nil && *requested != *scoped:
		return uuid.Nil, fmt.Errorf("%w: organization_id does not match token", shared.ErrValidation)
	case scoped != nil:
		return *scoped, nil
	case requested != nil:
		return *requested, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: organization_id is required", shared.ErrValidation)
	}
}

// Update replaces the writable fields of a workflow. An empty status keeps the
// current one.
func (s *Service) Update(ctx context.Context, p *shared.Principal, id uuid.UUID, in Input) (WorkflowDTO, error) {
	org, err := scope(p)
	if err != nil {
		return WorkflowDTO{}, err
	}
	if err := shared.ValidateStruct(in); err != nil {
		return WorkflowDTO{}, err
	}
	wf, err := s.repo.Update(ctx, id, org, in)
	if err != nil {
		return WorkflowDTO{}, err
	}
	return ToDTO(wf), nil
}

// Delete soft-deletes a workflow and publishes an audit event. Publishing
// failures are logged; the delete stands.
func (s *Service) Delete(ctx context.Context, p *shared.Principal, id uuid.UUID) error {
	org, err := scope(p)
	if err != nil {
		return err
	}
	deletedAt, err := s.repo.SoftDelete(ctx, id, org)
	if err != nil {
		return err
	}
	event := shared.AuditEvent{
		Entity:     table,
		EntityID:   id.String(),
		Action:     shared.AuditActionSoftDelete,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		OccurredAt: deletedAt,
	}
	if s.audit != nil {
		if err := s.audit.PublishAudit(ctx, event); err != nil {
			s.logger.Warn("publish workflow audit", slog.Any("error", err), slog.String("workflow_id", id.String()))
		}
	}
	return nil
}
