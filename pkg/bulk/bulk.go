// Package bulk applies one action to many items on a bounded worker pool and
// reports the outcome per item.
package bulk

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
)

// DefaultWorkers bounds concurrent backend calls for admin bulk actions.
const DefaultWorkers = 4

// Report lists the items that succeeded and the error of each that failed.
// Succeeded keeps the input order.
type Report[K comparable] struct {
	Succeeded []K
	Failed    map[K]error
}

// OK reports whether every item succeeded.
func (r Report[K]) OK() bool {
	return len(r.Failed) == 0
}

// Run calls fn for each item with at most workers calls in flight. Items not
// yet started when ctx is cancelled fail with ctx.Err().
func Run[K comparable](ctx context.Context, workers int, items []K, fn func(context.Context, K) error) Report[K] {
	if workers < 1 {
		workers = DefaultWorkers
	}

	wp := workerpool.New(workers)

	var mu sync.Mutex
	errs := make([]error, len(items))

	for i, item := range items {
		wp.Submit(func() {
			err := ctx.Err()
			if err == nil {
				err = fn(ctx, item)
			}
			mu.Lock()
			errs[i] = err
			mu.Unlock()
		})
	}
	wp.StopWait()

	report := Report[K]{Failed: map[K]error{}}
	for i, item := range items {
		if errs[i] != nil {
			report.Failed[item] = errs[i]
			continue
		}
		report.Succeeded = append(report.Succeeded, item)
	}
	return report
}
