package bitget

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bitgetx/pkg/core"
)

// Call is one catalog call bound to its arguments.
type Call[T any] func(ctx context.Context) (T, error)

// Gather runs calls concurrently, at most limit at a time (no limit when limit <= 0),
// and returns their results in call order. A failed call does not cancel the others.
func Gather[T any](ctx context.Context, limit int, calls ...Call[T]) []core.Result[T] {
	results := make([]core.Result[T], len(calls))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, call := range calls {
		g.Go(func() error {
			v, err := call(ctx)
			results[i] = core.From(v, err)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Async starts call on its own goroutine. The returned channel yields exactly one
// result and is then closed.
func Async[T any](ctx context.Context, call Call[T]) <-chan core.Result[T] {
	ch := make(chan core.Result[T], 1)
	go func() {
		defer close(ch)
		v, err := call(ctx)
		ch <- core.From(v, err)
	}()
	return ch
}
