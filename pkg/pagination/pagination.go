package pagination

import "math"

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

// Params are the page query parameters accepted by list endpoints
type Params struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Default returns the first page with the default size
func Default() Params {
	return Params{Page: 1, PerPage: defaultPerPage}
}

// Normalize clamps the parameters into their valid ranges
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

// Offset calculates the row offset for SQL queries
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta describes where a page sits within the full result
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewMeta builds page metadata for a result of total rows
func NewMeta(p Params, total int64) *Meta {
	p = p.Normalize()
	totalPages := int(math.Ceil(float64(total) / float64(p.PerPage)))

	return &Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

// Page is one page of items plus its metadata
type Page[T any] struct {
	Items      []T   `json:"items"`
	Pagination *Meta `json:"pagination"`
}

// Slice cuts one page out of an already ordered in-memory slice
func Slice[T any](all []T, p Params) Page[T] {
	p = p.Normalize()
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PerPage
	if end > len(all) {
		end = len(all)
	}

	items := make([]T, end-start)
	copy(items, all[start:end])
	return Page[T]{Items: items, Pagination: NewMeta(p, int64(len(all)))}
}
