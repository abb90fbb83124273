package recruitment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
)

const table = "job_postings"

var columns = []string{
	"id", "organization_id", "title", "department", "location", "salary_min", "salary_max",
	"status", "closes_at", "created_by", "created_at", "updated_at", "deleted_at",
}

const returning = ` RETURNING id, organization_id, title, department, location, salary_min, salary_max,
status, closes_at, created_by, created_at, updated_at, deleted_at`

// Repository persists job postings. Every call is confined to one organization.
type Repository interface {
	listing.Store[JobPosting]
	Get(ctx context.Context, org, id uuid.UUID) (JobPosting, error)
	Create(ctx context.Context, p JobPosting) (JobPosting, error)
	Update(ctx context.Context, org, id uuid.UUID, in Input) (JobPosting, error)
	SoftDelete(ctx context.Context, org, id uuid.UUID) (time.Time, error)
}

type pgRepository struct {
	*listing.PGStore[JobPosting]
	db listing.Querier
}

// NewRepository returns a PostgreSQL-backed Repository.
func NewRepository(q listing.Querier) Repository {
	return &pgRepository{
		PGStore: listing.NewPGStore(q, pgx.RowToStructByPos[JobPosting]),
		db:      q,
	}
}

func (r *pgRepository) collectOne(ctx context.Context, op, query string, args ...any) (JobPosting, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return JobPosting{}, fmt.Errorf("recruitment: %s: %w", op, db.MapError(err))
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[JobPosting])
	if err != nil {
		return JobPosting{}, fmt.Errorf("recruitment: %s: %w", op, db.MapError(err))
	}
	return p, nil
}

func (r *pgRepository) Get(ctx context.Context, org, id uuid.UUID) (JobPosting, error) {
	query, args := listing.FetchSQL(listing.Spec{
		Table:   table,
		Columns: columns,
		Filters: []listing.Filter{listing.Eq("id", id), listing.Eq("organization_id", org)},
	}, listing.Window{Limit: 1})
	return r.collectOne(ctx, "get", query, args...)
}

func (r *pgRepository) Create(ctx context.Context, p JobPosting) (JobPosting, error) {
	query := `INSERT INTO job_postings
(organization_id, title, department, location, salary_min, salary_max, status, closes_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)` + returning
	return r.collectOne(ctx, "create", query,
		p.OrganizationID, p.Title, p.Department, p.Location, p.SalaryMin, p.SalaryMax, p.Status, p.ClosesAt, p.CreatedBy)
}

func (r *pgRepository) Update(ctx context.Context, org, id uuid.UUID, in Input) (JobPosting, error) {
	query := `UPDATE job_postings
SET title = $3, department = $4, location = $5, salary_min = $6, salary_max = $7,
    status = COALESCE(NULLIF($8, ''), status), closes_at = $9, updated_at = now()
WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL` + returning
	return r.collectOne(ctx, "update", query,
		id, org, in.Title, in.Department, in.Location, in.SalaryMin, in.SalaryMax, in.Status, in.ClosesAt)
}

func (r *pgRepository) SoftDelete(ctx context.Context, org, id uuid.UUID) (time.Time, error) {
	var deletedAt time.Time
	err := r.db.QueryRow(ctx, `UPDATE job_postings SET deleted_at = now()
WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
RETURNING deleted_at`, id, org).Scan(&deletedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("recruitment: delete: %w", db.MapError(err))
	}
	return deletedAt, nil
}
