package runtime

import (
	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/types"
)

func wrapDist(d *core.Distribution, err error) (core.Value, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

func floatDist1(name string, t *types.Type, mk func(float64) (*core.Distribution, error)) *core.NativeFunction {
	return pure(name, fun(t, types.FloatType), 1, func(args []core.Value) (core.Value, error) {
		p, err := argFloat(name, args, 0)
		if err != nil {
			return nil, err
		}
		return wrapDist(mk(p))
	})
}

func floatDist2(name string, t *types.Type, mk func(float64, float64) (*core.Distribution, error)) *core.NativeFunction {
	return pure(name, fun(t, types.FloatType, types.FloatType), 2, func(args []core.Value) (core.Value, error) {
		p, err := floats(name, args, 0, 1)
		if err != nil {
			return nil, err
		}
		return wrapDist(mk(p[0], p[1]))
	})
}

func registerDistributions(n *Natives) {
	dFloat := types.DistType(types.FloatType)
	dInt := types.DistType(types.IntType)
	dA := types.DistType(tA)

	n.mustRegister(
		floatDist2("uniform", dFloat, core.Uniform),
		floatDist2("normal", dFloat, core.Normal),
		floatDist2("log_normal", dFloat, core.LogNormal),
		floatDist2("gamma", dFloat, core.Gamma),
		floatDist2("beta", dFloat, core.Beta),
		floatDist2("cauchy", dFloat, core.Cauchy),
		floatDist2("weibull", dFloat, core.Weibull),
		floatDist2("pareto", dFloat, core.Pareto),
		floatDist1("exponential", dFloat, core.Exponential),
		floatDist1("chi_squared", dFloat, core.ChiSquared),
		floatDist1("student_t", dFloat, core.StudentT),
		floatDist1("poisson", dInt, core.Poisson),
		floatDist1("bernoulli", types.DistType(types.BoolType), core.Bernoulli),

		pure("triangular", fun(dFloat, types.FloatType, types.FloatType, types.FloatType), 3,
			func(args []core.Value) (core.Value, error) {
				p, err := floats("triangular", args, 0, 1, 2)
				if err != nil {
					return nil, err
				}
				return wrapDist(core.Triangular(p[0], p[1], p[2]))
			}),
		pure("uniform_int", fun(dInt, types.IntType, types.IntType), 2,
			func(args []core.Value) (core.Value, error) {
				lo, err := argInt("uniform_int", args, 0)
				if err != nil {
					return nil, err
				}
				hi, err := argInt("uniform_int", args, 1)
				if err != nil {
					return nil, err
				}
				return wrapDist(core.UniformInt(lo, hi))
			}),
		pure("binomial", fun(dInt, types.IntType, types.FloatType), 2,
			func(args []core.Value) (core.Value, error) {
				trials, err := argInt("binomial", args, 0)
				if err != nil {
					return nil, err
				}
				p, err := argFloat("binomial", args, 1)
				if err != nil {
					return nil, err
				}
				return wrapDist(core.Binomial(trials, p))
			}),
		pure("standard_normal", dFloat, 0, func([]core.Value) (core.Value, error) {
			return core.StandardNormal(), nil
		}),
		pure("ternary_dist", types.DistType(types.TernaryType), 0, func([]core.Value) (core.Value, error) {
			return core.NewTernary(), nil
		}),
		pure("constant", fun(dA, tA), 1, func(args []core.Value) (core.Value, error) {
			return core.Constant(args[0]), nil
		}),
		pure("bet_dist", fun(dA, tA, tA, tA), 3, func(args []core.Value) (core.Value, error) {
			return core.Bet(args[0], args[1], args[2]), nil
		}),
		pure("weighted_bet", fun(dA, tA, types.FloatType, tA, types.FloatType, tA, types.FloatType), 6,
			func(args []core.Value) (core.Value, error) {
				w, err := floats("weighted_bet", args, 1, 3, 5)
				if err != nil {
					return nil, err
				}
				return wrapDist(core.WeightedBet(args[0], w[0], args[2], w[1], args[4], w[2]))
			}),
		pure("categorical", fun(dA, types.ListType(types.TupleType(tA, types.FloatType))), 1,
			func(args []core.Value) (core.Value, error) {
				pairs, err := argList("categorical", args, 0)
				if err != nil {
					return nil, err
				}
				choices := make([]core.Weighted, len(pairs))
				for i, p := range pairs {
					t, ok := p.(*core.TupleVal)
					if !ok || len(t.Elems) != 2 {
						return nil, argError("categorical", 0, "a list of (value, weight) pairs", p)
					}
					w, ok := core.ToFloat(t.Elems[1])
					if !ok {
						return nil, argError("categorical", 0, "a list of (value, weight) pairs", t.Elems[1])
					}
					choices[i] = core.Weighted{Value: t.Elems[0], Weight: w}
				}
				return wrapDist(core.Categorical(choices))
			}),
		pure("mixture", fun(dA, dA, types.FloatType, dA, types.FloatType), 4,
			func(args []core.Value) (core.Value, error) {
				d1, err := argDist("mixture", args, 0)
				if err != nil {
					return nil, err
				}
				d2, err := argDist("mixture", args, 2)
				if err != nil {
					return nil, err
				}
				w, err := floats("mixture", args, 1, 3)
				if err != nil {
					return nil, err
				}
				return wrapDist(core.Mixture(d1, w[0], d2, w[1]))
			}),
	)
}
