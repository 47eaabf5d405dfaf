package ffi

import (
	"math"

	"github.com/hyperpolymath/betlang/core"
)

// FillUniform writes uniform [0, 1) draws into out.
func FillUniform(g *Generator, out []float64) error {
	_, err := guard("fill_uniform", func() (struct{}, error) {
		rng := g.source()
		for i := range out {
			out[i] = rng.Float64()
		}
		return struct{}{}, nil
	})
	return err
}

// FillNormal writes normal draws into out.
func FillNormal(g *Generator, out []float64, mean, stddev float64) error {
	_, err := guard("fill_normal", func() (struct{}, error) {
		d, err := core.Normal(mean, stddev)
		if err != nil {
			return struct{}{}, err
		}
		rng := g.source()
		for i := range out {
			v, err := d.Sample(rng)
			if err != nil {
				return struct{}{}, err
			}
			out[i] = float64(v.(core.FloatVal))
		}
		return struct{}{}, nil
	})
	return err
}

func shuffle[T any](entry string, g *Generator, xs []T) error {
	_, err := guard(entry, func() (struct{}, error) {
		g.source().Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
		return struct{}{}, nil
	})
	return err
}

// ShuffleInts shuffles xs in place.
func ShuffleInts(g *Generator, xs []int64) error { return shuffle("shuffle_int", g, xs) }

// ShuffleFloats shuffles xs in place.
func ShuffleFloats(g *Generator, xs []float64) error { return shuffle("shuffle_real", g, xs) }

// SampleIndices fills out with distinct indices from [0, n) and returns how
// many it wrote: min(len(out), n).
func SampleIndices(g *Generator, out []int64, n int) (int, error) {
	return guard("sample_indices", func() (int, error) {
		if n < 0 {
			return 0, invalidArg("sample_indices", "population %d", n)
		}
		idx := core.SampleIndices(n, len(out), g.source())
		for i, j := range idx {
			out[i] = int64(j)
		}
		return len(idx), nil
	})
}

func stat(entry string, xs []float64, fn func([]core.Value) (float64, error)) (float64, error) {
	return guard(entry, func() (float64, error) {
		if len(xs) == 0 {
			return math.NaN(), invalidArg(entry, "empty input")
		}
		return fn(core.Floats(xs))
	})
}

func pairStat(entry string, xs, ys []float64, fn func(a, b []core.Value) (float64, error)) (float64, error) {
	return guard(entry, func() (float64, error) {
		if len(xs) == 0 || len(xs) != len(ys) {
			return math.NaN(), invalidArg(entry, "lengths %d and %d", len(xs), len(ys))
		}
		return fn(core.Floats(xs), core.Floats(ys))
	})
}

func Mean(xs []float64) (float64, error)     { return stat("mean", xs, core.Mean) }
func Variance(xs []float64) (float64, error) { return stat("variance", xs, core.Variance) }
func Std(xs []float64) (float64, error)      { return stat("std", xs, core.Std) }

func Covariance(xs, ys []float64) (float64, error) {
	return pairStat("covariance", xs, ys, core.Covariance)
}

func Correlation(xs, ys []float64) (float64, error) {
	return pairStat("correlation", xs, ys, core.Correlation)
}
