package adapter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// pool runs submitted work on background goroutines, at most size at a time.
// Submission never blocks the caller.
type pool struct {
	sem  *semaphore.Weighted
	size int64
}

func newPool(size int) *pool {
	if size <= 0 {
		size = 1
	}
	return &pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

func (p *pool) Go(fn func()) {
	go func() {
		// Background never cancels, so Acquire cannot fail.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		fn()
	}()
}
