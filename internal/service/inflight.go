package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// inflight collapses concurrent calls for the same logical operation into one
// remote call; every caller receives its result.
type inflight struct {
	group singleflight.Group

	mu      sync.Mutex
	pending map[string]int
}

func newInflight() *inflight {
	return &inflight{pending: make(map[string]int)}
}

// Pending reports whether an operation with key is outstanding.
func (f *inflight) Pending(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[key] > 0
}

func (f *inflight) track(key string, delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[key] += delta
	if f.pending[key] <= 0 {
		delete(f.pending, key)
	}
}

// share runs fn once per key at a time. The first caller's function does the
// work; a caller whose ctx ends stops waiting without affecting the others.
func share[T any](ctx context.Context, f *inflight, key string, fn func() (T, error)) (T, error) {
	f.track(key, 1)
	defer f.track(key, -1)

	ch := f.group.DoChan(key, func() (any, error) {
		return fn()
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}
