// Package ffi is the subset of the runtime offered to foreign callers.  Every
// entry point takes plain numbers and slices, recovers panics and reports bad
// parameters as errors instead of substituting defaults.
//
// Functions take a *Generator.  A nil generator means a fresh one seeded from
// entropy for that call alone, so concurrent foreign threads share no mutable
// state.  Callers that need reproducible draws create a generator with
// NewGenerator and keep passing it.
package ffi

import (
	"math"

	"github.com/hyperpolymath/betlang/core"
)

// Generator is a seeded random source owned by one caller.
type Generator struct {
	rng *core.RNG
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: core.NewRNG(seed)}
}

func (g *Generator) source() *core.RNG {
	if g == nil {
		return core.NewRandomRNG()
	}
	return g.rng
}

func Version() string { return core.Version }

// Ternary draws 0, 1 or 2 uniformly.
func Ternary(g *Generator) (int, error) {
	return guard("ternary", func() (int, error) {
		return g.source().Index3(), nil
	})
}

// WeightedTernary draws 0, 1 or 2 in proportion to the weights.
func WeightedTernary(g *Generator, w0, w1, w2 float64) (int, error) {
	return guard("weighted_ternary", func() (int, error) {
		total := 0.0
		for _, w := range []float64{w0, w1, w2} {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return 0, invalidArg("weighted_ternary", "weight %v", w)
			}
			total += w
		}
		if total <= 0 {
			return 0, invalidArg("weighted_ternary", "weights sum to %v", total)
		}
		return g.source().WeightedIndex3(w0, w1, w2), nil
	})
}

// TernaryLogic draws a Kleene value encoded as -1 (false), 0 (unknown) or 1
// (true).
func TernaryLogic(g *Generator) (int, error) {
	return guard("ternary_logic", func() (int, error) {
		return g.source().Ternary().Int(), nil
	})
}

func draw(g *Generator, d *core.Distribution, err error) (core.Value, error) {
	if err != nil {
		return nil, err
	}
	return d.Sample(g.source())
}

func drawFloat(entry string, g *Generator, d *core.Distribution, err error) (float64, error) {
	return guard(entry, func() (float64, error) {
		v, err := draw(g, d, err)
		if err != nil {
			return math.NaN(), err
		}
		return float64(v.(core.FloatVal)), nil
	})
}

func drawInt(entry string, g *Generator, d *core.Distribution, err error) (int64, error) {
	return guard(entry, func() (int64, error) {
		v, err := draw(g, d, err)
		if err != nil {
			return -1, err
		}
		return int64(v.(core.IntVal)), nil
	})
}

func Uniform(g *Generator, low, high float64) (float64, error) {
	d, err := core.Uniform(low, high)
	return drawFloat("uniform", g, d, err)
}

func UniformInt(g *Generator, low, high int64) (int64, error) {
	d, err := core.UniformInt(low, high)
	return drawInt("uniform_int", g, d, err)
}

func Bernoulli(g *Generator, p float64) (bool, error) {
	d, err := core.Bernoulli(p)
	return guard("bernoulli", func() (bool, error) {
		v, err := draw(g, d, err)
		if err != nil {
			return false, err
		}
		return bool(v.(core.BoolVal)), nil
	})
}

func Binomial(g *Generator, n int64, p float64) (int64, error) {
	d, err := core.Binomial(n, p)
	return drawInt("binomial", g, d, err)
}

func Poisson(g *Generator, lambda float64) (int64, error) {
	d, err := core.Poisson(lambda)
	return drawInt("poisson", g, d, err)
}

// Categorical draws an index into weights in proportion to its entries.
func Categorical(g *Generator, weights []float64) (int, error) {
	return guard("categorical", func() (int, error) {
		choices := make([]core.Weighted, len(weights))
		for i, w := range weights {
			choices[i] = core.Weighted{Value: core.IntVal(i), Weight: w}
		}
		d, err := core.Categorical(choices)
		v, err := draw(g, d, err)
		if err != nil {
			return -1, err
		}
		return int(v.(core.IntVal)), nil
	})
}

func Normal(g *Generator, mean, stddev float64) (float64, error) {
	d, err := core.Normal(mean, stddev)
	return drawFloat("normal", g, d, err)
}

func StandardNormal(g *Generator) (float64, error) {
	return drawFloat("standard_normal", g, core.StandardNormal(), nil)
}

func Exponential(g *Generator, rate float64) (float64, error) {
	d, err := core.Exponential(rate)
	return drawFloat("exponential", g, d, err)
}

func Gamma(g *Generator, shape, scale float64) (float64, error) {
	d, err := core.Gamma(shape, scale)
	return drawFloat("gamma", g, d, err)
}

func Beta(g *Generator, alpha, beta float64) (float64, error) {
	d, err := core.Beta(alpha, beta)
	return drawFloat("beta", g, d, err)
}
