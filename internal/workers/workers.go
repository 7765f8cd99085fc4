// Package workers fans independent work units out over a bounded pool.
//
// Every unit owns exactly one output slot (index i), so callers never need
// locks: the shared inputs are read-only and each goroutine writes its own
// element of a pre-sized result slice.
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Limit normalizes a requested worker count: n<=0 means GOMAXPROCS.
func Limit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEach runs fn(ctx, i) for i in [0,n) with at most limit concurrent
// calls. The first error cancels ctx for the remaining units and is
// returned; partial results are the caller's to discard.
func ForEach(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Limit(limit))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
