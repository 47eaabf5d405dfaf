package runtime

import (
	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/types"
)

func registerSampling(n *Natives) {
	dA := types.DistType(tA)
	n.mustRegister(
		caller("sample", fun(tA, dA), 1, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("sample", args, 0)
			if err != nil {
				return nil, err
			}
			return d.Sample(c.RNG())
		}),
		caller("sample_n", fun(types.ListType(tA), dA, types.IntType), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("sample_n", args, 0)
			if err != nil {
				return nil, err
			}
			count, err := argInt("sample_n", args, 1)
			if err != nil {
				return nil, err
			}
			if count < 0 {
				return nil, argError("sample_n", 1, "non-negative", args[1])
			}
			vs, err := core.SampleN(d, int(count), c.RNG())
			if err != nil {
				return nil, err
			}
			return core.NewList(vs...), nil
		}),
		caller("expected_value", fun(types.FloatType, dA, types.IntType), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("expected_value", args, 0)
			if err != nil {
				return nil, err
			}
			count, err := argInt("expected_value", args, 1)
			if err != nil {
				return nil, err
			}
			ev, err := core.ExpectedValue(d, int(count), c.RNG())
			if err != nil {
				return nil, err
			}
			return core.FloatVal(ev), nil
		}),
		pure("exact_expectation", fun(types.FloatType, dA), 1, func(args []core.Value) (core.Value, error) {
			d, err := argDist("exact_expectation", args, 0)
			if err != nil {
				return nil, err
			}
			ev, err := core.ExactExpectation(d)
			if err != nil {
				return nil, err
			}
			return core.FloatVal(ev), nil
		}),
		pure("outcomes", fun(types.ListType(types.TupleType(tA, types.FloatType)), dA), 1, func(args []core.Value) (core.Value, error) {
			d, err := argDist("outcomes", args, 0)
			if err != nil {
				return nil, err
			}
			o, err := d.Enumerate()
			if err != nil {
				return nil, err
			}
			out := make([]core.Value, o.Len())
			for i, b := range o.Buckets {
				out[i] = core.NewTuple(b.Value, core.FloatVal(b.Weight))
			}
			return core.NewList(out...), nil
		}),
		caller("map_dist", fun(types.DistType(tB), fun(tB, tA), dA), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("map_dist", args, 1)
			if err != nil {
				return nil, err
			}
			f := args[0]
			return core.Map(d, "", func(v core.Value) (core.Value, error) { return c.Apply(f, v) }), nil
		}),
		caller("bind_dist", fun(types.DistType(tB), dA, fun(types.DistType(tB), tA)), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("bind_dist", args, 0)
			if err != nil {
				return nil, err
			}
			f := args[1]
			return core.Chain(d, "", func(v core.Value) (core.Value, error) { return c.Apply(f, v) }), nil
		}),
		caller("condition", fun(dA, dA, fun(types.BoolType, tA)), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			d, err := argDist("condition", args, 0)
			if err != nil {
				return nil, err
			}
			pred := args[1]
			return core.Condition(d, func(v core.Value) (bool, error) {
				out, err := c.Apply(pred, v)
				if err != nil {
					return false, err
				}
				truth, known, ok := core.Truthy(out)
				if !ok {
					return false, argError("condition", 1, "a predicate", out)
				}
				return truth && known, nil
			}, core.DefaultMaxTries), nil
		}),
		pure("joint", fun(types.DistType(tB), types.ListType(dA)), 1, func(args []core.Value) (core.Value, error) {
			elems, err := argList("joint", args, 0)
			if err != nil {
				return nil, err
			}
			ds := make([]*core.Distribution, len(elems))
			for i, e := range elems {
				d, ok := e.(*core.Distribution)
				if !ok {
					return nil, argError("joint", 0, "a list of distributions", e)
				}
				ds[i] = d
			}
			return core.Joint(ds...), nil
		}),
		caller("random_ternary", types.TernaryType, 0, func(c core.Caller, _ []core.Value) (core.Value, error) {
			return core.TernaryVal(c.RNG().Ternary()), nil
		}),
	)
}
