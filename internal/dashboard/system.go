// Package dashboard loads the learner's home page.
package dashboard

import "context"

type System interface {
	Stats(ctx context.Context) (*Stats, error)

	// Overview loads stats, enrolled courses and scenarios concurrently.
	// The first failure cancels the other calls.
	Overview(ctx context.Context) (*Overview, error)
}
