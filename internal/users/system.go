// Package users manages learner and staff accounts.
package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/lingua-web/pkg/bulk"
	"github.com/JaimeStill/lingua-web/pkg/pagination"
)

// System defines user operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[User], error)
	All(ctx context.Context, filters Filters) ([]User, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*User, error)
	AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkDelete deletes ids on a bounded pool and reports each outcome.
	// Repeated ids are deleted once.
	BulkDelete(ctx context.Context, ids []uuid.UUID) bulk.Report[uuid.UUID]
}
