package pagination_test

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 10, MaxPageSize: 50}

func TestConfig_Finalize(t *testing.T) {
	c := pagination.Config{}
	require.NoError(t, c.Finalize(nil))
	assert.Equal(t, 10, c.DefaultPageSize)
	assert.Equal(t, 100, c.MaxPageSize)

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	assert.Error(t, bad.Finalize(nil))
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 10},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 5}, 1, 5},
		{"page size clamped", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			assert.Equal(t, tt.wantPage, tt.req.Page)
			assert.Equal(t, tt.wantPageSize, tt.req.PageSize)
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"3"},
		"page_size": {"20"},
		"search":    {"verbs"},
		"sort":      {"-level,title"},
	}

	req := pagination.PageRequestFromQuery(values, cfg)

	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, "verbs", req.Search)
	assert.Equal(t, []query.SortField{{Field: "level", Descending: true}, {Field: "title"}}, req.Sort)
	assert.Equal(t, 40, req.Offset())
}

func TestPageRequest_ValuesRoundTrip(t *testing.T) {
	req := pagination.PageRequest{Page: 2, PageSize: 25, Search: "a b", Sort: []query.SortField{{Field: "email"}}}

	back := pagination.PageRequestFromQuery(req.Values(), cfg)
	assert.Equal(t, req, back)
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"exact", 20, 10, 2},
		{"remainder", 21, 10, 3},
		{"empty", 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pagination.NewPageResult[int](nil, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.wantPages, r.TotalPages)
			assert.NotNil(t, r.Data)
		})
	}
}

func TestPageResult_Navigation(t *testing.T) {
	r := pagination.NewPageResult([]int{1}, 95, 5, 10)

	assert.True(t, r.HasPrev())
	assert.True(t, r.HasNext())
	assert.Equal(t, []int{3, 4, 5, 6, 7}, r.Window(5))

	last := pagination.NewPageResult([]int{1}, 95, 10, 10)
	assert.False(t, last.HasNext())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, last.Window(5))
}

func TestPageResult_WindowPastEnd(t *testing.T) {
	r := pagination.NewPageResult([]int{}, 95, math.MaxInt, 10)
	assert.False(t, r.HasNext())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, r.Window(5))

	short := pagination.NewPageResult([]int{}, 25, math.MaxInt, 10)
	assert.Equal(t, []int{1, 2, 3}, short.Window(5))
}

func TestCollect(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	calls := 0

	all, err := pagination.Collect(context.Background(), 3, func(ctx context.Context, req pagination.PageRequest) (*pagination.PageResult[int], error) {
		calls++
		start := req.Offset()
		end := min(start+req.PageSize, len(items))
		r := pagination.NewPageResult(items[start:end], len(items), req.Page, req.PageSize)
		return &r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, all)
	assert.Equal(t, 3, calls)
}

func TestCollect_Error(t *testing.T) {
	_, err := pagination.Collect(context.Background(), 3, func(ctx context.Context, req pagination.PageRequest) (*pagination.PageResult[int], error) {
		return nil, errors.New("backend down")
	})
	assert.Error(t, err)
}
