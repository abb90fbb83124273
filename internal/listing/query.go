package listing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// SoftDeleteColumn is excluded from results unless Spec.IncludeDeleted is set.
const SoftDeleteColumn = "deleted_at"

// Spec describes what to list.
type Spec struct {
	Table   string
	Columns []string
	Filters []Filter
	// IncludeDeleted lifts the implicit deleted_at IS NULL predicate.
	IncludeDeleted bool
	// TieBreaker keeps ordering stable across pages. Defaults to "id".
	TieBreaker string
}

// Store executes count and bounded fetch queries for a Spec.
type Store[R any] interface {
	Count(ctx context.Context, spec Spec) (int64, error)
	Fetch(ctx context.Context, spec Spec, w Window) ([]R, error)
}

// Run counts and fetches concurrently, maps the rows and assembles the page
// envelope. Count and data may observe different snapshots.
func Run[R, T any](ctx context.Context, store Store[R], spec Spec, w Window, mapFn func(R) T) (shared.Page[T], error) {
	var (
		total int64
		rows  []R
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := store.Count(gctx, spec)
		total = n
		return err
	})
	g.Go(func() error {
		r, err := store.Fetch(gctx, spec, w)
		rows = r
		return err
	})
	if err := g.Wait(); err != nil {
		return shared.Page[T]{}, err
	}

	if len(rows) > w.Limit {
		rows = rows[:w.Limit]
	}
	data := make([]T, 0, len(rows))
	for _, row := range rows {
		data = append(data, mapFn(row))
	}
	return shared.NewPage(w.Page, w.Limit, total, data), nil
}
