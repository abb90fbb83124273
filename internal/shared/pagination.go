package shared

// Page is the envelope returned by every listing endpoint.
type Page[T any] struct {
	Current int   `json:"current"`
	Limit   int   `json:"limit"`
	Records int64 `json:"records"`
	Pages   int64 `json:"pages"`
	Data    []T   `json:"data"`
}

// TotalPages computes ceil(records/limit). It is zero when there are no records.
func TotalPages(records int64, limit int) int64 {
	if records <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return records/l + min(records%l, 1)
}

// NewPage assembles the pagination envelope. Data is never nil so that it
// serializes as an empty JSON array.
func NewPage[T any](current, limit int, records int64, data []T) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Current: current,
		Limit:   limit,
		Records: records,
		Pages:   TotalPages(records, limit),
		Data:    data,
	}
}
