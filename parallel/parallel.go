// Package parallel runs independent pieces of a computation concurrently.
// Every operation here restores input order in its result.  Map, Filter,
// Reduce and the task helpers never cancel tasks that have already started:
// the caller's context only aborts waits for a permit.  Sample is the
// exception, since its workers are loops of independent draws: a failing
// worker or a cancelled context stops the other workers before their next
// draw.
package parallel

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"sync"

	gfn "github.com/panyam/goutils/fn"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// permits returns the semaphore size for a requested concurrency.  A
// non-positive request means GOMAXPROCS.
func permits(maxConcurrency int) int64 {
	if maxConcurrency <= 0 {
		return int64(runtime.GOMAXPROCS(0))
	}
	return int64(maxConcurrency)
}

// Map applies f to every item, running at most maxConcurrency calls at a
// time.  Results are in input order.  The first error is returned once all
// spawned calls have finished.
func Map[T, U any](ctx context.Context, items []T, f func(T) (U, error), maxConcurrency int) ([]U, error) {
	out := make([]U, len(items))
	sem := semaphore.NewWeighted(permits(maxConcurrency))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			v, err := protect(func() (U, error) { return f(item) })
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type indexed[T any] struct {
	index int
	item  T
}

// Filter keeps the items for which pred holds, in input order.
func Filter[T any](ctx context.Context, items []T, pred func(T) (bool, error), maxConcurrency int) ([]T, error) {
	var mu sync.Mutex
	var kept []indexed[T]
	sem := semaphore.NewWeighted(permits(maxConcurrency))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			ok, err := protect(func() (bool, error) { return pred(item) })
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			kept = append(kept, indexed[T]{i, item})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(kept, func(a, b indexed[T]) int { return cmp.Compare(a.index, b.index) })
	return gfn.Map(kept, func(p indexed[T]) T { return p.item }), nil
}

// Reduce folds [initial, items...] with f as a balanced tree: each round
// combines adjacent pairs concurrently, carrying an odd last element over, so
// there are log2(n) rounds.  f must be associative; the result equals the
// sequential left fold only under that condition.
func Reduce[T any](ctx context.Context, items []T, initial T, f func(T, T) (T, error), maxConcurrency int) (T, error) {
	level := append([]T{initial}, items...)
	for len(level) > 1 {
		pairs := make([]int, len(level)/2)
		for i := range pairs {
			pairs[i] = 2 * i
		}
		next, err := Map(ctx, pairs, func(i int) (T, error) {
			return f(level[i], level[i+1])
		}, maxConcurrency)
		if err != nil {
			var zero T
			return zero, err
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0], nil
}
