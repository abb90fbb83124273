// Package listing implements the filtered pagination contract shared by every
// listing endpoint.
package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// maxPage bounds the page number so skip never overflows.
const maxPage = 1_000_000

// Request is the raw pagination input. Nil pointers mean "not supplied".
type Request struct {
	Page    *int
	Limit   *int
	SortBy  string
	SortDir string
}

// Window is a normalized request: the values reported back to the caller and
// the offset used against storage.
type Window struct {
	Page    int
	Limit   int
	Skip    int
	SortBy  string
	SortDir string
}

// Policy describes how one entity family treats pagination input.
type Policy struct {
	DefaultLimit int
	MaxLimit     int
	// ZeroBased makes the first page 0 instead of 1.
	ZeroBased bool
	// Strict rejects out-of-range input with shared.ErrValidation instead of
	// substituting defaults.
	Strict bool
	// SortFields maps public sort names onto columns.
	SortFields  map[string]string
	DefaultSort string
	DefaultDir  string
}

func (p Policy) firstPage() int {
	if p.ZeroBased {
		return 0
	}
	return 1
}

func (p Policy) defaultDir() string {
	if p.DefaultDir == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// Normalize applies defaults and bounds to req.
func (p Policy) Normalize(req Request) (Window, error) {
	first := p.firstPage()
	w := Window{Page: first, Limit: p.DefaultLimit}

	if req.Page != nil {
		switch page := *req.Page; {
		case page >= first && page <= maxPage:
			w.Page = page
		case p.Strict:
			return Window{}, fmt.Errorf("%w: page must be between %d and %d", shared.ErrValidation, first, maxPage)
		case page > maxPage:
			w.Page = maxPage
		}
	}

	if req.Limit != nil {
		switch limit := *req.Limit; {
		case limit > 0 && limit <= p.MaxLimit:
			w.Limit = limit
		case p.Strict && limit <= 0:
			return Window{}, fmt.Errorf("%w: limit must be positive", shared.ErrValidation)
		case p.Strict:
			return Window{}, fmt.Errorf("%w: limit must not exceed %d", shared.ErrValidation, p.MaxLimit)
		case limit > p.MaxLimit:
			w.Limit = p.MaxLimit
		}
	}
	if w.Limit > p.MaxLimit {
		w.Limit = p.MaxLimit
	}

	w.SortBy = p.SortFields[p.DefaultSort]
	if name := strings.TrimSpace(req.SortBy); name != "" {
		col, ok := p.SortFields[name]
		switch {
		case ok:
			w.SortBy = col
		case p.Strict:
			return Window{}, fmt.Errorf("%w: unsupported sort field %q", shared.ErrValidation, name)
		}
	}

	w.SortDir = p.defaultDir()
	if dir := strings.ToLower(strings.TrimSpace(req.SortDir)); dir != "" {
		switch {
		case dir == SortAsc || dir == SortDesc:
			w.SortDir = dir
		case p.Strict:
			return Window{}, fmt.Errorf("%w: sort direction must be asc or desc", shared.ErrValidation)
		}
	}

	w.Skip = (w.Page - first) * w.Limit
	return w, nil
}

// Parse reads page, limit, sort and dir from query values and normalizes them.
// Non-numeric page/limit values are ignored by lenient policies and rejected
// by strict ones.
func (p Policy) Parse(values url.Values) (Window, error) {
	var req Request
	var err error
	if req.Page, err = p.intParam(values, "page"); err != nil {
		return Window{}, err
	}
	if req.Limit, err = p.intParam(values, "limit"); err != nil {
		return Window{}, err
	}
	req.SortBy = values.Get("sort")
	req.SortDir = values.Get("dir")
	return p.Normalize(req)
}

func (p Policy) intParam(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if p.Strict {
			return nil, fmt.Errorf("%w: %s must be an integer", shared.ErrValidation, key)
		}
		return nil, nil
	}
	return &n, nil
}
