// Package pagination provides page requests and results shared by list pages,
// the client-side data table and the backend list endpoints.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/lingua-web/pkg/query"
)

// PageRequest represents a request for a page of data with optional search and sorting.
type PageRequest struct {
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Search   string            `json:"search,omitempty"`
	Sort     []query.SortField `json:"sort,omitempty"`
}

// Normalize adjusts the request to ensure valid pagination values based on the config.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Values encodes the request as query parameters. The same names are used for
// page links and for backend list endpoints.
func (r PageRequest) Values() url.Values {
	v := url.Values{}
	if r.Page > 0 {
		v.Set("page", strconv.Itoa(r.Page))
	}
	if r.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(r.PageSize))
	}
	if r.Search != "" {
		v.Set("search", r.Search)
	}
	if len(r.Sort) > 0 {
		v.Set("sort", query.EncodeSortFields(r.Sort))
	}
	return v
}

// WithPage returns a copy of the request pointing at page.
func (r PageRequest) WithPage(page int) PageRequest {
	r.Page = page
	return r
}

// PageRequestFromQuery parses pagination parameters from URL query values.
// Supported parameters: page, page_size, search, sort (comma-separated, "-" prefix for desc).
// The result is normalized according to the provided config.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	pageSize, _ := strconv.Atoi(values.Get("page_size"))

	req := PageRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   values.Get("search"),
		Sort:     query.ParseSortFields(values.Get("sort")),
	}

	req.Normalize(cfg)
	return req
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// HasPrev reports whether a previous page exists.
func (p PageResult[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p PageResult[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Window returns up to size page numbers centred on the current page.
func (p PageResult[T]) Window(size int) []int {
	if size < 1 || p.TotalPages < 1 {
		return nil
	}
	start := min(p.Page, p.TotalPages) - size/2
	if start < 1 {
		start = 1
	}
	end := p.TotalPages
	if size-1 < end-start {
		end = start + size - 1
	}
	start = max(1, min(start, end-size+1))

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
