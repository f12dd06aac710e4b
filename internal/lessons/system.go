// Package lessons manages the ordered lessons of a course.
package lessons

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

// System defines lesson operations.
type System interface {
	// ListByCourse returns a page of the course's lessons, ordered by
	// position unless the request sorts otherwise.
	ListByCourse(ctx context.Context, courseID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Lesson], error)
	Find(ctx context.Context, id uuid.UUID) (*Lesson, error)
	Create(ctx context.Context, courseID uuid.UUID, cmd Command) (*Lesson, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Move swaps the lesson with its neighbour; delta is -1 (up) or +1 (down).
	Move(ctx context.Context, id uuid.UUID, delta int) error
}
