package common

import (
	"net/http"
	"strconv"
)

// Front-desk lists (payments, housekeeping tasks) stay small; the caps keep
// hostile page/limit query values from reaching the store as absurd or
// overflowed offsets.
const (
	maxPage    = 100000
	maxPerPage = 100
)

// Pagination describes the window a list endpoint returned.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// ParsePagination reads page/limit query parameters, applying the fallback
// per-page size and clamping both values into range.
func ParsePagination(r *http.Request, defaultPerPage int) Pagination {
	p := Pagination{Page: 1, PerPage: defaultPerPage}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = min(v, maxPage)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.PerPage = v
	}
	p.PerPage = min(p.PerPage, maxPerPage)
	return p
}

// Limit returns the per-page size as the store layer takes it.
func (p Pagination) Limit() int32 {
	return int32(p.PerPage)
}

// Offset returns the row offset for the window. The parse caps guarantee the
// product fits in an int32.
func (p Pagination) Offset() int32 {
	return int32((p.Page - 1) * p.PerPage)
}
