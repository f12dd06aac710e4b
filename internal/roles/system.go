// Package roles manages roles and the permissions they grant.
package roles

import (
	"context"

	"github.com/google/uuid"
)

type System interface {
	// List returns every role; the admin list filters and pages it in memory.
	List(ctx context.Context) ([]Role, error)
	Find(ctx context.Context, id uuid.UUID) (*Role, error)
	Create(ctx context.Context, cmd Command) (*Role, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Role, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetPermissions makes the role grant exactly permissionIDs. Grants and
	// revokes run concurrently; a partial failure returns ErrPartial along
	// with the changes that did apply.
	SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) (Change, error)
}
