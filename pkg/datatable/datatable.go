// Package datatable filters, sorts and pages tabular data for list pages.
// A table either holds already-fetched rows and works on them in memory, or
// delegates each page to a server-side PageFunc.
package datatable

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/query"
)

// Column describes one rendered column.
type Column[T any] struct {
	Key        string
	Header     string
	Value      func(T) string
	Sortable   bool
	Searchable bool
}

// PageFunc fetches one page from the backend.
type PageFunc[T any] func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[T], error)

// Table binds columns to either in-memory rows or a PageFunc.
type Table[T any] struct {
	Columns  []Column[T]
	Rows     []T
	PageFunc PageFunc[T]
	RowKey   func(T) string
	Config   pagination.Config
}

// Load normalizes req and returns the requested page. When PageFunc is set the
// backend does the filtering, sorting and paging.
func (t *Table[T]) Load(ctx context.Context, req pagination.PageRequest) (pagination.PageResult[T], error) {
	req.Normalize(t.Config)
	if t.PageFunc != nil {
		return t.PageFunc(ctx, req)
	}
	return Apply(t.Rows, req, t.Columns), nil
}

// Apply filters, sorts then paginates rows.
func Apply[T any](rows []T, req pagination.PageRequest, cols []Column[T]) pagination.PageResult[T] {
	filtered := Filter(rows, req.Search, cols)
	sorted := Sort(filtered, req.Sort, cols)
	return Paginate(sorted, req.Page, req.PageSize)
}

// Filter keeps rows where any searchable column contains search, ignoring case.
// When no column is marked searchable every column is searched. An empty
// search returns rows unchanged.
func Filter[T any](rows []T, search string, cols []Column[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return rows
	}

	searchable := make([]Column[T], 0, len(cols))
	for _, c := range cols {
		if c.Searchable && c.Value != nil {
			searchable = append(searchable, c)
		}
	}
	if len(searchable) == 0 {
		for _, c := range cols {
			if c.Value != nil {
				searchable = append(searchable, c)
			}
		}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, c := range searchable {
			if strings.Contains(strings.ToLower(c.Value(row)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy of rows. Fields that do not name a
// sortable column are ignored. Values that both parse as numbers compare
// numerically; everything else compares case-insensitively.
func Sort[T any](rows []T, fields []query.SortField, cols []Column[T]) []T {
	type key struct {
		value func(T) string
		desc  bool
	}

	var keys []key
	for _, f := range fields {
		for _, c := range cols {
			if c.Key == f.Field && c.Sortable && c.Value != nil {
				keys = append(keys, key{value: c.Value, desc: f.Descending})
				break
			}
		}
	}

	out := slices.Clone(rows)
	if len(keys) == 0 {
		return out
	}

	slices.SortStableFunc(out, func(a, b T) int {
		for _, k := range keys {
			c := compareValues(k.value(a), k.value(b))
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(fa, fb)
	}
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Paginate slices rows into the requested page. A page past the end yields no
// data but keeps the totals.
func Paginate[T any](rows []T, page, size int) pagination.PageResult[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	if page-1 >= (len(rows)+size-1)/size {
		return pagination.NewPageResult([]T{}, len(rows), page, size)
	}
	start := (page - 1) * size
	end := min(start+size, len(rows))
	return pagination.NewPageResult(slices.Clone(rows[start:end]), len(rows), page, size)
}
