// Package grammar checks learner text and highlights the reported errors.
package grammar

import "context"

type System interface {
	// Check validates the length of text and asks the backend for errors.
	Check(ctx context.Context, text string) (*Response, error)

	// MaxLength is the longest accepted text, in code points.
	MaxLength() int
}
