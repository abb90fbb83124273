package triggers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Policy is the pagination policy of run listings. Pages are zero-based and
// out-of-range input falls back to defaults.
var Policy = listing.Policy{
	DefaultLimit: 10,
	MaxLimit:     100,
	ZeroBased:    true,
	SortFields: map[string]string{
		"started_at":  "started_at",
		"finished_at": "finished_at",
	},
	DefaultSort: "started_at",
	DefaultDir:  listing.SortDesc,
}

// KeyClaimer rejects request keys that were already processed.
// *shared.IdempotencyStore satisfies it.
type KeyClaimer interface {
	Claim(ctx context.Context, module, key string) error
	Release(ctx context.Context, module, key string) error
}

// Service implements workflow run use cases.
type Service struct {
	repo Repository
	keys KeyClaimer
}

// NewService builds Service. keys may be nil, in which case idempotency keys
// are ignored.
func NewService(repo Repository, keys KeyClaimer) *Service {
	return &Service{repo: repo, keys: keys}
}

// List returns one page of runs of a workflow in the principal's organization.
func (s *Service) List(ctx context.Context, p *shared.Principal, workflowID uuid.UUID, w listing.Window, f ListFilters) (shared.Page[RunDTO], error) {
	if p == nil {
		return shared.Page[RunDTO]{}, shared.ErrAuthenticationMissing
	}
	org, err := p.Organization()
	if err != nil {
		return shared.Page[RunDTO]{}, err
	}
	if err := s.ensureWorkflow(ctx, workflowID, &org); err != nil {
		return shared.Page[RunDTO]{}, err
	}

	spec := listing.Spec{
		Table:   table,
		Columns: columns,
		Filters: []listing.Filter{listing.Eq("workflow_id", workflowID)},
	}
	if f.Status != "" {
		spec.Filters = append(spec.Filters, listing.Eq("status", f.Status))
	}
	spec.Filters = append(spec.Filters, listing.Range("started_at", f.StartedFrom, f.StartedTo)...)

	return listing.Run(ctx, s.repo, spec, w, ToDTO)
}

// Start records a new running run executed by the calling worker on a
// workflow of the worker's organization. A non-empty idempotencyKey may be
// used once per worker; it is released again when the run cannot be stored.
func (s *Service) Start(ctx context.Context, p *shared.Principal, workflowID uuid.UUID, idempotencyKey string) (RunDTO, error) {
	worker, err := p.PrincipalUUID()
	if err != nil {
		return RunDTO{}, err
	}
	org, err := p.Organization()
	if err != nil {
		return RunDTO{}, err
	}
	if err := s.ensureWorkflow(ctx, workflowID, &org); err != nil {
		return RunDTO{}, err
	}

	claimed := idempotencyKey != "" && s.keys != nil
	module := table + ":" + worker.String()
	if claimed {
		if err := s.keys.Claim(ctx, module, idempotencyKey); err != nil {
			return RunDTO{}, err
		}
	}
	run, err := s.repo.Start(ctx, workflowID, worker)
	if err != nil {
		if claimed {
			if relErr := s.keys.Release(context.WithoutCancel(ctx), module, idempotencyKey); relErr != nil {
				return RunDTO{}, errors.Join(err, fmt.Errorf("release idempotency key: %w", relErr))
			}
		}
		return RunDTO{}, err
	}
	return ToDTO(run), nil
}

// Finish closes a run owned by the calling worker. Successful runs never keep
// an error message.
func (s *Service) Finish(ctx context.Context, p *shared.Principal, workflowID, runID uuid.UUID, in FinishInput) (RunDTO, error) {
	worker, err := p.PrincipalUUID()
	if err != nil {
		return RunDTO{}, err
	}
	if err := shared.ValidateStruct(in); err != nil {
		return RunDTO{}, err
	}
	if in.Status == StatusSucceeded {
		in.Error = nil
	}
	run, err := s.repo.Finish(ctx, workflowID, runID, worker, in)
	if err != nil {
		return RunDTO{}, err
	}
	return ToDTO(run), nil
}

func (s *Service) ensureWorkflow(ctx context.Context, workflowID uuid.UUID, org *uuid.UUID) error {
	ok, err := s.repo.WorkflowVisible(ctx, workflowID, org)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNotFound
	}
	return nil
}
