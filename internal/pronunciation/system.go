// Package pronunciation uploads learner recordings for assessment and keeps
// them on disk so the result page can replay them.
package pronunciation

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type System interface {
	// Assess stores audio, sends it with the reference text to the backend
	// and returns the scored result.
	Assess(ctx context.Context, reference string, audio Audio) (*Assessment, error)

	// Recording opens a recording stored by Assess for the signed-in learner.
	Recording(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)

	// MaxUploadSize is the largest accepted recording in bytes.
	MaxUploadSize() int64
}
