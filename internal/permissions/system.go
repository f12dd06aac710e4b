// Package permissions manages the permission keys that roles grant.
package permissions

import (
	"context"

	"github.com/google/uuid"
)

type System interface {
	// List returns every permission ordered by key.
	List(ctx context.Context) ([]Permission, error)
	Create(ctx context.Context, cmd Command) (*Permission, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Permission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
