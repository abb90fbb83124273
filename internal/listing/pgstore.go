package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx used by PGStore. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore runs listing queries against PostgreSQL.
type PGStore[R any] struct {
	db   Querier
	scan pgx.RowToFunc[R]
}

// NewPGStore builds a store that maps rows with scan.
func NewPGStore[R any](db Querier, scan pgx.RowToFunc[R]) *PGStore[R] {
	return &PGStore[R]{db: db, scan: scan}
}

// Count implements Store.
func (s *PGStore[R]) Count(ctx context.Context, spec Spec) (int64, error) {
	query, args := CountSQL(spec)
	var total int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("listing: count %s: %w", spec.Table, err)
	}
	return total, nil
}

// Fetch implements Store.
func (s *PGStore[R]) Fetch(ctx context.Context, spec Spec, w Window) ([]R, error) {
	query, args := FetchSQL(spec, w)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing: fetch %s: %w", spec.Table, err)
	}
	out, err := pgx.CollectRows(rows, s.scan)
	if err != nil {
		return nil, fmt.Errorf("listing: scan %s: %w", spec.Table, err)
	}
	return out, nil
}

// CountSQL renders the count query for spec.
func CountSQL(spec Spec) (string, []any) {
	where, args := whereClause(spec)
	return "SELECT COUNT(*) FROM " + ident(spec.Table) + where, args
}

// FetchSQL renders the bounded, ordered fetch query for spec.
func FetchSQL(spec Spec, w Window) (string, []any) {
	where, args := whereClause(spec)

	cols := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = ident(c)
	}
	tie := spec.TieBreaker
	if tie == "" {
		tie = "id"
	}
	dir := "DESC"
	if w.SortDir == SortAsc {
		dir = "ASC"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(ident(spec.Table))
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	if w.SortBy != "" && w.SortBy != tie {
		b.WriteString(ident(w.SortBy) + " " + dir + ", ")
	}
	b.WriteString(ident(tie) + " " + dir)

	args = append(args, w.Limit, w.Skip)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)-1))
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	return b.String(), args
}

func whereClause(spec Spec) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	for _, f := range spec.Filters {
		col := ident(f.Column)
		switch f.Op {
		case OpEq:
			clauses = append(clauses, col+" = "+next(f.Value))
		case OpContains:
			needle, _ := f.Value.(string)
			clauses = append(clauses, col+" ILIKE "+next(containsPattern(needle))+` ESCAPE '\'`)
		case OpGte:
			clauses = append(clauses, col+" >= "+next(f.Value))
		case OpLte:
			clauses = append(clauses, col+" <= "+next(f.Value))
		case OpIsNull:
			clauses = append(clauses, col+" IS NULL")
		}
	}
	if !spec.IncludeDeleted {
		clauses = append(clauses, ident(SoftDeleteColumn)+" IS NULL")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
