package bulk_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/lingua-web/pkg/bulk"
)

func TestRun(t *testing.T) {
	boom := errors.New("boom")

	report := bulk.Run(context.Background(), 2, []int{1, 2, 3, 4, 5}, func(_ context.Context, n int) error {
		if n%2 == 0 {
			return boom
		}
		return nil
	})

	assert.False(t, report.OK())
	assert.Equal(t, []int{1, 3, 5}, report.Succeeded)
	assert.Len(t, report.Failed, 2)
	assert.ErrorIs(t, report.Failed[2], boom)
	assert.ErrorIs(t, report.Failed[4], boom)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	report := bulk.Run(context.Background(), 3, make([]int, 12), func(context.Context, int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	assert.True(t, report.OK())
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	report := bulk.Run(ctx, 1, []string{"a", "b"}, func(context.Context, string) error {
		calls.Add(1)
		return nil
	})

	assert.Zero(t, calls.Load())
	assert.ErrorIs(t, report.Failed["a"], context.Canceled)
	assert.Empty(t, report.Succeeded)
}

func TestRun_Empty(t *testing.T) {
	report := bulk.Run(context.Background(), 0, nil, func(context.Context, int) error { return nil })
	assert.True(t, report.OK())
	assert.Empty(t, report.Succeeded)
}
