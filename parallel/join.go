package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// JoinAll runs every task concurrently and waits for all of them.  Results
// are in task order; the error is the first one any task returned.
func JoinAll[T any](ctx context.Context, tasks ...func(context.Context) (T, error)) ([]T, error) {
	out := make([]T, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			v, err := protect(func() (T, error) { return task(ctx) })
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Race runs every task concurrently and returns whichever finishes first,
// successful or not.  The losers keep running; their results are dropped.
func Race[T any](ctx context.Context, tasks ...func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	if len(tasks) == 0 {
		var zero T
		return zero, ErrNoTasks
	}
	done := make(chan result, len(tasks))
	for _, task := range tasks {
		go func() {
			v, err := protect(func() (T, error) { return task(ctx) })
			done <- result{v, err}
		}()
	}
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
