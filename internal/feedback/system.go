// Package feedback collects learner feedback and lets admins triage it.
package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Feedback], error)
	Submit(ctx context.Context, cmd Command) (*Feedback, error)
	Resolve(ctx context.Context, id uuid.UUID) (*Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
