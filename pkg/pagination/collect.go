package pagination

import (
	"context"
	"fmt"
)

// maxCollectPages bounds Collect against a backend that never reports the last page.
const maxCollectPages = 1000

// Collect fetches every page with the given page size and concatenates the data.
func Collect[T any](ctx context.Context, pageSize int, fetch func(context.Context, PageRequest) (*PageResult[T], error)) ([]T, error) {
	var all []T
	for page := 1; page <= maxCollectPages; page++ {
		result, err := fetch(ctx, PageRequest{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, result.Data...)
		if len(result.Data) == 0 || page >= result.TotalPages {
			return all, nil
		}
	}
	return nil, fmt.Errorf("collect: more than %d pages", maxCollectPages)
}
