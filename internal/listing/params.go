package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// Params reads filter values from a query string. Lenient params drop values
// that fail to parse; strict params report them as shared.ErrValidation.
type Params struct {
	values url.Values
	strict bool
	errs   []string
}

// NewParams wraps values. strict should match the family's Policy.Strict.
func NewParams(values url.Values, strict bool) *Params {
	return &Params{values: values, strict: strict}
}

// String returns the trimmed value of key.
func (p *Params) String(key string) string {
	return strings.TrimSpace(p.values.Get(key))
}

// OneOf returns the value of key when it is one of allowed.
func (p *Params) OneOf(key string, allowed ...string) string {
	v := p.String(key)
	if v == "" {
		return ""
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	p.fail(key, "must be one of ["+strings.Join(allowed, " ")+"]")
	return ""
}

// Time parses an RFC3339 timestamp or a YYYY-MM-DD date. A date is midnight UTC.
func (p *Params) Time(key string) *time.Time {
	t, _ := p.parseTime(key)
	return t
}

// TimeUntil parses an inclusive upper bound. A date covers the whole day, so
// it runs to the last microsecond before the next midnight UTC.
func (p *Params) TimeUntil(key string) *time.Time {
	t, dateOnly := p.parseTime(key)
	if t == nil || !dateOnly {
		return t
	}
	end := t.AddDate(0, 0, 1).Add(-time.Microsecond)
	return &end
}

func (p *Params) parseTime(key string) (*time.Time, bool) {
	raw := p.String(key)
	if raw == "" {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, false
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, true
	}
	p.fail(key, "must be an RFC3339 timestamp or YYYY-MM-DD date")
	return nil, false
}

// Int64 parses a base-10 integer.
func (p *Params) Int64(key string) *int64 {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(key, "must be an integer")
		return nil
	}
	return &n
}

// UUID parses a UUID.
func (p *Params) UUID(key string) *uuid.UUID {
	raw := p.String(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		p.fail(key, "must be a UUID")
		return nil
	}
	return &id
}

// Bool parses a boolean flag.
func (p *Params) Bool(key string) bool {
	raw := p.String(key)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, "must be a boolean")
		return false
	}
	return b
}

// Err reports collected parse failures for strict params.
func (p *Params) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(p.errs, "; "))
}

func (p *Params) fail(key, msg string) {
	if p.strict {
		p.errs = append(p.errs, key+" "+msg)
	}
}
