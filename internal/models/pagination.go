package models

import "math"

// MaxPageLimit caps the page size a caller may request.
const MaxPageLimit = 100

// PageRequest is a 1-based page and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to page >= 1 and 1 <= limit <= MaxPageLimit,
// falling back to defaultLimit.
func (r PageRequest) Normalize(defaultLimit int) PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > MaxPageLimit {
		r.Limit = MaxPageLimit
	}
	return r
}

// Offset is (page-1)*limit. ok is false when that does not fit in an int.
func (r PageRequest) Offset() (offset int, ok bool) {
	if r.Page < 1 || r.Limit < 1 {
		return 0, true
	}
	if r.Page-1 > math.MaxInt/r.Limit {
		return 0, false
	}
	return (r.Page - 1) * r.Limit, true
}

// Page is one slice of a filtered listing.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	Limit       int   `json:"limit"`
}

// NewPage builds a page; TotalPages is ceil(total/limit).
// A page beyond TotalPages is returned empty.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Limit)))
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		Limit:       req.Limit,
	}
}
