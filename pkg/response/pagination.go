package response

import (
	"net/http"
	"strconv"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// PageParams reads page and per_page from the query string, clamping them
// to page >= 1 and 1 <= per_page <= 100 (20 when out of range)
func PageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return ClampPage(page, perPage)
}

// ClampPage applies the pagination defaults
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

// Paginate returns one page of items, already filtered in memory
func Paginate[T any](items []T, page, perPage int) []T {
	page, perPage = ClampPage(page, perPage)

	offset := (page - 1) * perPage
	if offset >= len(items) {
		return []T{}
	}
	end := offset + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// NewMeta builds pagination metadata for a page of total items
func NewMeta(page, perPage, total int) *Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return &Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
