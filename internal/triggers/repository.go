package triggers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

const table = "workflow_runs"

var columns = []string{"id", "workflow_id", "worker_id", "status", "error", "started_at", "finished_at"}

const selectColumns = `id, workflow_id, worker_id, status, error, started_at, finished_at`

// ErrRunFinished reports a second attempt to finish the same run.
var ErrRunFinished = fmt.Errorf("%w: run already finished", shared.ErrConflict)

// DB is what the repository needs from the pool.
type DB interface {
	listing.Querier
	db.TxBeginner
}

// Repository persists workflow runs.
type Repository interface {
	listing.Store[Run]
	// WorkflowVisible reports whether a live workflow exists, optionally
	// within org.
	WorkflowVisible(ctx context.Context, workflowID uuid.UUID, org *uuid.UUID) (bool, error)
	Start(ctx context.Context, workflowID, workerID uuid.UUID) (Run, error)
	Finish(ctx context.Context, workflowID, runID, workerID uuid.UUID, in FinishInput) (Run, error)
}

type pgRepository struct {
	*listing.PGStore[Run]
	db DB
}

// NewRepository returns a PostgreSQL-backed Repository.
func NewRepository(pool DB) Repository {
	return &pgRepository{
		PGStore: listing.NewPGStore(pool, func(row pgx.CollectableRow) (Run, error) { return scanRun(row) }),
		db:      pool,
	}
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.WorkflowID, &r.WorkerID, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt)
	return r, err
}

func (r *pgRepository) WorkflowVisible(ctx context.Context, workflowID uuid.UUID, org *uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM workflows WHERE id = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR organization_id = $2))`,
		workflowID, org).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("triggers: workflow lookup: %w", err)
	}
	return ok, nil
}

func (r *pgRepository) Start(ctx context.Context, workflowID, workerID uuid.UUID) (Run, error) {
	run, err := scanRun(r.db.QueryRow(ctx, `INSERT INTO workflow_runs (workflow_id, worker_id, status)
VALUES ($1, $2, $3)
RETURNING `+selectColumns, workflowID, workerID, StatusRunning))
	if err != nil {
		return Run{}, fmt.Errorf("triggers: start run: %w", db.MapError(err))
	}
	return run, nil
}

func (r *pgRepository) Finish(ctx context.Context, workflowID, runID, workerID uuid.UUID, in FinishInput) (Run, error) {
	var run Run
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			owner      uuid.UUID
			finishedAt *time.Time
		)
		err := tx.QueryRow(ctx, `SELECT worker_id, finished_at FROM workflow_runs
WHERE id = $1 AND workflow_id = $2 AND deleted_at IS NULL
FOR UPDATE`, runID, workflowID).Scan(&owner, &finishedAt)
		if err != nil {
			return db.MapError(err)
		}
		if owner != workerID {
			return shared.ErrNotFound
		}
		if finishedAt != nil {
			return ErrRunFinished
		}

		run, err = scanRun(tx.QueryRow(ctx, `UPDATE workflow_runs
SET status = $2, error = $3, finished_at = now()
WHERE id = $1
RETURNING `+selectColumns, runID, in.Status, in.Error))
		if err != nil {
			return db.MapError(err)
		}
		_, err = tx.Exec(ctx, `UPDATE workflows SET last_run_at = $2 WHERE id = $1`, workflowID, run.FinishedAt)
		return err
	})
	if err != nil {
		return Run{}, fmt.Errorf("triggers: finish run: %w", err)
	}
	return run, nil
}
