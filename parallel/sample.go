package parallel

import (
	"context"
	"runtime"
	"slices"

	"github.com/hyperpolymath/betlang/core"
	"golang.org/x/sync/errgroup"
)

// Sample draws n values from d across numWorkers goroutines.  The draws are
// split evenly with the remainder going to the first workers, and each
// worker gets its own generator split from rng before anything starts, so a
// seeded rng gives the same result on every run.  The first failing worker,
// or cancelling ctx, stops the others before their next draw.
func Sample(ctx context.Context, d *core.Distribution, n, numWorkers int, rng *core.RNG) ([]core.Value, error) {
	if n < 0 {
		return nil, ErrInvalidLimit
	}
	if n == 0 {
		return []core.Value{}, nil
	}
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	numWorkers = min(numWorkers, n)

	rngs := rng.SplitN(numWorkers)
	chunks := make([][]core.Value, numWorkers)
	base, rem := n/numWorkers, n%numWorkers

	g, ctx := errgroup.WithContext(ctx)
	for w := range numWorkers {
		count := base
		if w < rem {
			count++
		}
		g.Go(func() error {
			out := make([]core.Value, 0, count)
			for range count {
				if err := ctx.Err(); err != nil {
					return err
				}
				v, err := protect(func() (core.Value, error) { return d.Sample(rngs[w]) })
				if err != nil {
					return err
				}
				out = append(out, v)
			}
			chunks[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(chunks...), nil
}

// ExpectedValue estimates the mean of d from n parallel draws.  Non-numeric
// draws are ignored.
func ExpectedValue(ctx context.Context, d *core.Distribution, n, numWorkers int, rng *core.RNG) (float64, error) {
	samples, err := Sample(ctx, d, n, numWorkers, rng)
	if err != nil {
		return 0, err
	}
	return core.Mean(samples)
}
