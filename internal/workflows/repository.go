package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
)

const table = "workflows"

var columns = []string{
	"id", "organization_id", "name", "description", "status", "last_run_at",
	"created_by", "created_at", "updated_at", "deleted_at",
}

const selectColumns = `id, organization_id, name, description, status, last_run_at, created_by, created_at, updated_at, deleted_at`

// Repository persists workflows.
type Repository interface {
	listing.Store[Workflow]
	Get(ctx context.Context, id uuid.UUID, org *uuid.UUID) (Workflow, error)
	Create(ctx context.Context, w Workflow) (Workflow, error)
	Update(ctx context.Context, id uuid.UUID, org *uuid.UUID, in Input) (Workflow, error)
	SoftDelete(ctx context.Context, id uuid.UUID, org *uuid.UUID) (time.Time, error)
}

type pgRepository struct {
	*listing.PGStore[Workflow]
	db listing.Querier
}

// NewRepository returns a PostgreSQL-backed Repository.
func NewRepository(q listing.Querier) Repository {
	return &pgRepository{
		PGStore: listing.NewPGStore(q, func(row pgx.CollectableRow) (Workflow, error) { return scanWorkflow(row) }),
		db:      q,
	}
}

func scanWorkflow(row pgx.Row) (Workflow, error) {
	var w Workflow
	err := row.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.Description, &w.Status, &w.LastRunAt,
		&w.CreatedBy, &w.CreatedAt, &w.UpdatedAt, &w.DeletedAt)
	return w, err
}

func (r *pgRepository) Get(ctx context.Context, id uuid.UUID, org *uuid.UUID) (Workflow, error) {
	query := `SELECT ` + selectColumns + ` FROM workflows
WHERE id = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR organization_id = $2)`
	w, err := scanWorkflow(r.db.QueryRow(ctx, query, id, org))
	if err != nil {
		return Workflow{}, fmt.Errorf("workflows: get: %w", db.MapError(err))
	}
	return w, nil
}

func (r *pgRepository) Create(ctx context.Context, in Workflow) (Workflow, error) {
	query := `INSERT INTO workflows (organization_id, name, description, status, created_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + selectColumns
	w, err := scanWorkflow(r.db.QueryRow(ctx, query, in.OrganizationID, in.Name, in.Description, in.Status, in.CreatedBy))
	if err != nil {
		return Workflow{}, fmt.Errorf("workflows: create: %w", db.MapError(err))
	}
	return w, nil
}

func (r *pgRepository) Update(ctx context.Context, id uuid.UUID, org *uuid.UUID, in Input) (Workflow, error) {
	query := `UPDATE workflows
SET name = $3, description = $4, status = COALESCE(NULLIF($5, ''), status), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR organization_id = $2)
RETURNING ` + selectColumns
	w, err := scanWorkflow(r.db.QueryRow(ctx, query, id, org, in.Name, in.Description, in.Status))
	if err != nil {
		return Workflow{}, fmt.Errorf("workflows: update: %w", db.MapError(err))
	}
	return w, nil
}

func (r *pgRepository) SoftDelete(ctx context.Context, id uuid.UUID, org *uuid.UUID) (time.Time, error) {
	query := `UPDATE workflows SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR organization_id = $2)
RETURNING deleted_at`
	var deletedAt time.Time
	if err := r.db.QueryRow(ctx, query, id, org).Scan(&deletedAt); err != nil {
		return time.Time{}, fmt.Errorf("workflows: delete: %w", db.MapError(err))
	}
	return deletedAt, nil
}
