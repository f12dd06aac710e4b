// Package courses manages the course catalogue through the backend.
package courses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

// System defines course operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Course], error)

	// All pages through the whole catalogue, for exports.
	All(ctx context.Context) ([]Course, error)

	Find(ctx context.Context, id uuid.UUID) (*Course, error)
	Create(ctx context.Context, cmd Command) (*Course, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
