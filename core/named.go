package core

import (
	"fmt"
	"math"

	"github.com/hyperpolymath/betlang/decl"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxEnumerable bounds the support size enumerated for integer ranges.
const maxEnumerable = 1 << 16

func requireFinite(dist string, params map[string]float64) error {
	for name, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return paramError(dist, name, "must be finite, got %g", v)
		}
	}
	return nil
}

func requirePositive(dist, param string, v float64) error {
	if !(v > 0) {
		return paramError(dist, param, "must be > 0, got %g", v)
	}
	return nil
}

func requireProbability(dist string, p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return paramError(dist, "p", "must be in [0, 1], got %g", p)
	}
	return nil
}

func floatSampler(fn func(rng *RNG) float64) func(rng *RNG) Value {
	return func(rng *RNG) Value { return FloatVal(fn(rng)) }
}

// Uniform is continuous on [low, high).
func Uniform(low, high float64) (*Distribution, error) {
	if err := requireFinite("uniform", map[string]float64{"low": low, "high": high}); err != nil {
		return nil, err
	}
	if !(low < high) {
		return nil, paramError("uniform", "range", "low (%g) must be < high (%g)", low, high)
	}
	return NewPrimitive(fmt.Sprintf("uniform(%g, %g)", low, high), floatSampler(func(rng *RNG) float64 {
		return distuv.Uniform{Min: low, Max: high, Src: rng}.Rand()
	})), nil
}

// UniformInt is uniform over the integers low..high inclusive.
func UniformInt(low, high int64) (*Distribution, error) {
	if low > high {
		return nil, paramError("uniform_int", "range", "low (%d) must be <= high (%d)", low, high)
	}
	// span is 0 only for the full int64 range, where every 64-bit draw is valid
	span := uint64(high) - uint64(low) + 1
	d := &primitive{draw: func(rng *RNG) Value {
		if span == 0 {
			return IntVal(int64(rng.Uint64()))
		}
		return IntVal(low + int64(rng.Uint64N(span)))
	}}
	if span != 0 && span <= maxEnumerable {
		d.support = func() (out *Outcomes[Value]) {
			for i := range span {
				out = out.Add(1, IntVal(low+int64(i)))
			}
			return
		}
	}
	return &Distribution{Name: fmt.Sprintf("uniform_int(%d, %d)", low, high), node: d}, nil
}

// Bernoulli yields true with probability p.
func Bernoulli(p float64) (*Distribution, error) {
	if err := requireProbability("bernoulli", p); err != nil {
		return nil, err
	}
	return &Distribution{Name: fmt.Sprintf("bernoulli(%g)", p), node: &primitive{
		draw: func(rng *RNG) Value {
			return BoolVal(distuv.Bernoulli{P: p, Src: rng}.Rand() == 1)
		},
		support: func() *Outcomes[Value] {
			return (*Outcomes[Value])(nil).Add(p, BoolVal(true)).Add(1-p, BoolVal(false))
		},
	}}, nil
}

// Binomial counts successes in n trials of probability p.
func Binomial(n int64, p float64) (*Distribution, error) {
	if n < 0 {
		return nil, paramError("binomial", "n", "must be >= 0, got %d", n)
	}
	if err := requireProbability("binomial", p); err != nil {
		return nil, err
	}
	d := &primitive{draw: func(rng *RNG) Value {
		if n == 0 {
			return IntVal(0)
		}
		return IntVal(distuv.Binomial{N: float64(n), P: p, Src: rng}.Rand())
	}}
	if n <= maxEnumerable {
		d.support = func() (out *Outcomes[Value]) {
			if n == 0 {
				return out.Add(1, IntVal(0))
			}
			b := distuv.Binomial{N: float64(n), P: p}
			for k := int64(0); k <= n; k++ {
				out = out.Add(b.Prob(float64(k)), IntVal(k))
			}
			return
		}
	}
	return &Distribution{Name: fmt.Sprintf("binomial(%d, %g)", n, p), node: d}, nil
}

// Poisson counts events at rate lambda.
func Poisson(lambda float64) (*Distribution, error) {
	if err := requireFinite("poisson", map[string]float64{"lambda": lambda}); err != nil {
		return nil, err
	}
	if err := requirePositive("poisson", "lambda", lambda); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("poisson(%g)", lambda), func(rng *RNG) Value {
		return IntVal(distuv.Poisson{Lambda: lambda, Src: rng}.Rand())
	}), nil
}

func Normal(mean, stddev float64) (*Distribution, error) {
	if err := requireFinite("normal", map[string]float64{"mean": mean, "std_dev": stddev}); err != nil {
		return nil, err
	}
	if err := requirePositive("normal", "std_dev", stddev); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("normal(%g, %g)", mean, stddev), floatSampler(func(rng *RNG) float64 {
		return distuv.Normal{Mu: mean, Sigma: stddev, Src: rng}.Rand()
	})), nil
}

func StandardNormal() *Distribution {
	return NewPrimitive("normal(0, 1)", floatSampler(func(rng *RNG) float64 {
		return distuv.Normal{Mu: 0, Sigma: 1, Src: rng}.Rand()
	}))
}

// LogNormal is exp of a normal with the given mean and standard deviation.
func LogNormal(mean, stddev float64) (*Distribution, error) {
	if err := requireFinite("log_normal", map[string]float64{"mean": mean, "std_dev": stddev}); err != nil {
		return nil, err
	}
	if err := requirePositive("log_normal", "std_dev", stddev); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("log_normal(%g, %g)", mean, stddev), floatSampler(func(rng *RNG) float64 {
		return distuv.LogNormal{Mu: mean, Sigma: stddev, Src: rng}.Rand()
	})), nil
}

func Exponential(rate float64) (*Distribution, error) {
	if err := requireFinite("exponential", map[string]float64{"rate": rate}); err != nil {
		return nil, err
	}
	if err := requirePositive("exponential", "rate", rate); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("exponential(%g)", rate), floatSampler(func(rng *RNG) float64 {
		return distuv.Exponential{Rate: rate, Src: rng}.Rand()
	})), nil
}

// Gamma is parameterized by shape and scale.
func Gamma(shape, scale float64) (*Distribution, error) {
	if err := requireFinite("gamma", map[string]float64{"shape": shape, "scale": scale}); err != nil {
		return nil, err
	}
	if err := requirePositive("gamma", "shape", shape); err != nil {
		return nil, err
	}
	if err := requirePositive("gamma", "scale", scale); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("gamma(%g, %g)", shape, scale), floatSampler(func(rng *RNG) float64 {
		// gonum's Beta is the rate
		return distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: rng}.Rand()
	})), nil
}

func Beta(alpha, beta float64) (*Distribution, error) {
	if err := requireFinite("beta", map[string]float64{"alpha": alpha, "beta": beta}); err != nil {
		return nil, err
	}
	if err := requirePositive("beta", "alpha", alpha); err != nil {
		return nil, err
	}
	if err := requirePositive("beta", "beta", beta); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("beta(%g, %g)", alpha, beta), floatSampler(func(rng *RNG) float64 {
		return distuv.Beta{Alpha: alpha, Beta: beta, Src: rng}.Rand()
	})), nil
}

func ChiSquared(k float64) (*Distribution, error) {
	if err := requireFinite("chi_squared", map[string]float64{"k": k}); err != nil {
		return nil, err
	}
	if err := requirePositive("chi_squared", "k", k); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("chi_squared(%g)", k), floatSampler(func(rng *RNG) float64 {
		return distuv.ChiSquared{K: k, Src: rng}.Rand()
	})), nil
}

// StudentT is the standard t distribution with nu degrees of freedom.
func StudentT(nu float64) (*Distribution, error) {
	if err := requireFinite("student_t", map[string]float64{"nu": nu}); err != nil {
		return nil, err
	}
	if err := requirePositive("student_t", "nu", nu); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("student_t(%g)", nu), floatSampler(func(rng *RNG) float64 {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu, Src: rng}.Rand()
	})), nil
}

// Cauchy is a t distribution with one degree of freedom.
func Cauchy(location, scale float64) (*Distribution, error) {
	if err := requireFinite("cauchy", map[string]float64{"location": location, "scale": scale}); err != nil {
		return nil, err
	}
	if err := requirePositive("cauchy", "scale", scale); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("cauchy(%g, %g)", location, scale), floatSampler(func(rng *RNG) float64 {
		return distuv.StudentsT{Mu: location, Sigma: scale, Nu: 1, Src: rng}.Rand()
	})), nil
}

func Weibull(scale, shape float64) (*Distribution, error) {
	if err := requireFinite("weibull", map[string]float64{"scale": scale, "shape": shape}); err != nil {
		return nil, err
	}
	if err := requirePositive("weibull", "scale", scale); err != nil {
		return nil, err
	}
	if err := requirePositive("weibull", "shape", shape); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("weibull(%g, %g)", scale, shape), floatSampler(func(rng *RNG) float64 {
		return distuv.Weibull{K: shape, Lambda: scale, Src: rng}.Rand()
	})), nil
}

func Pareto(scale, shape float64) (*Distribution, error) {
	if err := requireFinite("pareto", map[string]float64{"scale": scale, "shape": shape}); err != nil {
		return nil, err
	}
	if err := requirePositive("pareto", "scale", scale); err != nil {
		return nil, err
	}
	if err := requirePositive("pareto", "shape", shape); err != nil {
		return nil, err
	}
	return NewPrimitive(fmt.Sprintf("pareto(%g, %g)", scale, shape), floatSampler(func(rng *RNG) float64 {
		return distuv.Pareto{Xm: scale, Alpha: shape, Src: rng}.Rand()
	})), nil
}

func Triangular(low, high, mode float64) (*Distribution, error) {
	if err := requireFinite("triangular", map[string]float64{"min": low, "max": high, "mode": mode}); err != nil {
		return nil, err
	}
	if !(low < high) {
		return nil, paramError("triangular", "range", "min (%g) must be < max (%g)", low, high)
	}
	if mode < low || mode > high {
		return nil, paramError("triangular", "mode", "must be within [%g, %g], got %g", low, high, mode)
	}
	return NewPrimitive(fmt.Sprintf("triangular(%g, %g, %g)", low, high, mode), floatSampler(func(rng *RNG) float64 {
		return distuv.NewTriangle(low, high, mode, rng).Rand()
	})), nil
}

// NewTernary is uniform over True, False and Unknown.
func NewTernary() *Distribution {
	return &Distribution{Name: "ternary", node: &primitive{
		draw: func(rng *RNG) Value { return TernaryVal(rng.Ternary()) },
		support: func() (out *Outcomes[Value]) {
			for _, t := range decl.TernaryValues {
				out = out.Add(1, TernaryVal(t))
			}
			return
		},
	}}
}
