package listing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Op is a filter comparison.
type Op int

const (
	OpEq Op = iota
	OpContains
	OpGte
	OpLte
	OpIsNull
)

// Filter is one predicate of a listing WHERE clause.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches column = value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Contains matches a case-insensitive substring.
func Contains(column, needle string) Filter {
	return Filter{Column: column, Op: OpContains, Value: needle}
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIsNull}
}

// Range returns the bounds that are set. Either bound may be nil.
func Range[V any](column string, gte, lte *V) []Filter {
	var out []Filter
	if gte != nil {
		out = append(out, Filter{Column: column, Op: OpGte, Value: *gte})
	}
	if lte != nil {
		out = append(out, Filter{Column: column, Op: OpLte, Value: *lte})
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds the ILIKE pattern for needle.
func containsPattern(needle string) string {
	needle = norm.NFC.String(strings.TrimSpace(needle))
	return "%" + likeEscaper.Replace(needle) + "%"
}
