// Package scenarios runs conversation practice against backend role-play
// scenarios. The conversation lives in the page form, not on the server.
package scenarios

import (
	"context"

	"github.com/google/uuid"
)

type System interface {
	List(ctx context.Context) ([]Scenario, error)
	Find(ctx context.Context, id uuid.UUID) (*Scenario, error)

	// Send posts message with the preceding history and returns the reply.
	Send(ctx context.Context, id uuid.UUID, history []Message, message string) (*Reply, error)
}
