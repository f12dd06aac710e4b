// Package quizzes lets learners take multiple-choice quizzes graded by the
// backend.
package quizzes

import (
	"context"

	"github.com/google/uuid"
)

type System interface {
	List(ctx context.Context) ([]Quiz, error)
	Find(ctx context.Context, id uuid.UUID) (*Quiz, error)
	Submit(ctx context.Context, id uuid.UUID, answers []Answer) (*Result, error)
}
