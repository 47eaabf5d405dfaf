package runtime

import (
	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/types"
)

func listStat(name string, stat func([]core.Value) (float64, error)) *core.NativeFunction {
	return pure(name, fun(types.FloatType, types.ListType(tA)), 1, func(args []core.Value) (core.Value, error) {
		xs, err := argList(name, args, 0)
		if err != nil {
			return nil, err
		}
		f, err := stat(xs)
		if err != nil {
			return nil, err
		}
		return core.FloatVal(f), nil
	})
}

func pairStat(name string, stat func(xs, ys []core.Value) (float64, error)) *core.NativeFunction {
	return pure(name, fun(types.FloatType, types.ListType(tA), types.ListType(tB)), 2, func(args []core.Value) (core.Value, error) {
		xs, err := argList(name, args, 0)
		if err != nil {
			return nil, err
		}
		ys, err := argList(name, args, 1)
		if err != nil {
			return nil, err
		}
		f, err := stat(xs, ys)
		if err != nil {
			return nil, err
		}
		return core.FloatVal(f), nil
	})
}

func registerStats(n *Natives) {
	n.mustRegister(
		listStat("mean", core.Mean),
		listStat("variance", core.Variance),
		listStat("std", core.Std),
		listStat("median", core.Median),
		pairStat("covariance", core.Covariance),
		pairStat("correlation", core.Correlation),
		pure("percentile", fun(types.FloatType, types.ListType(tA), types.FloatType), 2, func(args []core.Value) (core.Value, error) {
			xs, err := argList("percentile", args, 0)
			if err != nil {
				return nil, err
			}
			p, err := argFloat("percentile", args, 1)
			if err != nil {
				return nil, err
			}
			f, err := core.Percentile(xs, p)
			if err != nil {
				return nil, err
			}
			return core.FloatVal(f), nil
		}),
		pure("summarize", fun(types.MapType(types.StrType, types.FloatType), types.ListType(tA)), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("summarize", args, 0)
			if err != nil {
				return nil, err
			}
			s, err := core.Summarize(xs)
			if err != nil {
				return nil, err
			}
			return s.AsMap(), nil
		}),
	)
}
