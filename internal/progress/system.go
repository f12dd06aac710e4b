// Package progress is the admin view of learner progress.
package progress

import (
	"context"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[UserProgress], error)

	// All walks every page, for export and the summary.
	All(ctx context.Context) ([]UserProgress, error)
}
