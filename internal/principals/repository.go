package principals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx used by Repository. *pgxpool.Pool satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads principal rows from PostgreSQL.
type Repository struct {
	db Querier
}

// NewRepository constructs a repository.
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

// FindActive returns the non-deleted principal of role with id. ok is false
// when no such row exists, including when id is not a valid UUID.
func (r *Repository) FindActive(ctx context.Context, role, id string) (Record, bool, error) {
	table, known := Tables[role]
	if !known {
		return Record{}, false, fmt.Errorf("principals: unknown role %q", role)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return Record{}, false, nil
	}

	query := `SELECT id, ` + organizationColumn(role) + `, deleted_at FROM ` + pgx.Identifier{table}.Sanitize() + ` WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	var rec Record
	if err := r.db.QueryRow(ctx, query, pid).Scan(&rec.ID, &rec.OrganizationID, &rec.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("principals: find %s: %w", table, err)
	}
	return rec, true, nil
}

// Lookup returns a function answering "exists and not soft-deleted" for role.
func (r *Repository) Lookup(role string) func(ctx context.Context, id string) (bool, error) {
	return func(ctx context.Context, id string) (bool, error) {
		_, ok, err := r.FindActive(ctx, role, id)
		return ok, err
	}
}

func organizationColumn(role string) string {
	if role == RoleSystemAdmin {
		return "NULL::uuid"
	}
	return "organization_id"
}
