// Package pagination provides offset-based page handling for list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

// Page describes the requested slice of a listing.
type Page struct {
	Number int
	Size   int
}

// Result wraps a page of items with listing metadata.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// FromRequest extracts page and pageSize query parameters, clamping to the
// configured bounds.
func FromRequest(r *http.Request, cfg *Config) Page {
	page := Page{Number: 1, Size: cfg.DefaultPageSize}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page.Number = n
		}
	}

	if v := r.URL.Query().Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page.Size = n
		}
	}

	if page.Size > cfg.MaxPageSize {
		page.Size = cfg.MaxPageSize
	}

	return page
}

// Offset returns the row offset for SQL LIMIT/OFFSET queries.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// NewResult assembles a Result from items and a total row count.
func NewResult[T any](items []T, page Page, total int64) Result[T] {
	totalPages := total / int64(page.Size)
	if total%int64(page.Size) != 0 {
		totalPages++
	}

	return Result[T]{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
