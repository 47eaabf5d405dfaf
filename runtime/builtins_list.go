package runtime

import (
	"fmt"
	"slices"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/types"
)

func registerLists(n *Natives) {
	lA := types.ListType(tA)
	lB := types.ListType(tB)

	n.mustRegister(
		pure("length", fun(types.IntType, lA), 1, func(args []core.Value) (core.Value, error) {
			switch v := args[0].(type) {
			case *core.ListVal:
				return core.IntVal(v.Len()), nil
			case *core.TupleVal:
				return core.IntVal(len(v.Elems)), nil
			case *core.MapVal:
				return core.IntVal(v.Len()), nil
			case *core.SetVal:
				return core.IntVal(v.Len()), nil
			case core.StringVal:
				return core.IntVal(len([]rune(string(v)))), nil
			case core.BytesVal:
				return core.IntVal(len(v)), nil
			}
			return nil, argError("length", 0, "a collection", args[0])
		}),
		pure("head", fun(tA, lA), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("head", args, 0)
			if err != nil {
				return nil, err
			}
			if len(xs) == 0 {
				return nil, fmt.Errorf("head: %w", core.ErrEmpty)
			}
			return xs[0], nil
		}),
		pure("tail", fun(lA, lA), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("tail", args, 0)
			if err != nil {
				return nil, err
			}
			if len(xs) == 0 {
				return nil, fmt.Errorf("tail: %w", core.ErrEmpty)
			}
			return core.NewList(slices.Clone(xs[1:])...), nil
		}),
		pure("reverse", fun(lA, lA), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("reverse", args, 0)
			if err != nil {
				return nil, err
			}
			out := slices.Clone(xs)
			slices.Reverse(out)
			return core.NewList(out...), nil
		}),
		pure("range", fun(types.ListType(types.IntType), types.IntType, types.IntType), 2, func(args []core.Value) (core.Value, error) {
			lo, err := argInt("range", args, 0)
			if err != nil {
				return nil, err
			}
			hi, err := argInt("range", args, 1)
			if err != nil {
				return nil, err
			}
			out := make([]core.Value, 0, max(0, hi-lo))
			for i := lo; i < hi; i++ {
				out = append(out, core.IntVal(i))
			}
			return core.NewList(out...), nil
		}),
		pure("sum", fun(tA, lA), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("sum", args, 0)
			if err != nil {
				return nil, err
			}
			var acc core.Value = core.IntVal(0)
			for _, x := range xs {
				if acc, err = arithmetic(decl.OpAdd, acc, x); err != nil {
					return nil, fmt.Errorf("sum: %w", err)
				}
			}
			return acc, nil
		}),
		caller("map", fun(lB, fun(tB, tA), lA), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("map", args, 1)
			if err != nil {
				return nil, err
			}
			out := make([]core.Value, len(xs))
			for i, x := range xs {
				if out[i], err = c.Apply(args[0], x); err != nil {
					return nil, err
				}
			}
			return core.NewList(out...), nil
		}),
		caller("filter", fun(lA, fun(types.BoolType, tA), lA), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("filter", args, 1)
			if err != nil {
				return nil, err
			}
			var out []core.Value
			for _, x := range xs {
				keep, err := c.Apply(args[0], x)
				if err != nil {
					return nil, err
				}
				truth, known, ok := core.Truthy(keep)
				if !ok {
					return nil, argError("filter", 0, "a predicate", keep)
				}
				if truth && known {
					out = append(out, x)
				}
			}
			return core.NewList(out...), nil
		}),
		caller("fold", fun(tB, fun(tB, tB, tA), tB, lA), 3, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("fold", args, 2)
			if err != nil {
				return nil, err
			}
			acc := args[1]
			for _, x := range xs {
				if acc, err = c.Apply(args[0], acc, x); err != nil {
					return nil, err
				}
			}
			return acc, nil
		}),
		pure("zip", fun(types.ListType(types.TupleType(tA, tB)), lA, lB), 2, func(args []core.Value) (core.Value, error) {
			xs, err := argList("zip", args, 0)
			if err != nil {
				return nil, err
			}
			ys, err := argList("zip", args, 1)
			if err != nil {
				return nil, err
			}
			out := make([]core.Value, min(len(xs), len(ys)))
			for i := range out {
				out[i] = core.NewTuple(xs[i], ys[i])
			}
			return core.NewList(out...), nil
		}),
		caller("shuffle", fun(lA, lA), 1, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("shuffle", args, 0)
			if err != nil {
				return nil, err
			}
			return core.NewList(core.Shuffle(xs, c.RNG())...), nil
		}),
		caller("choose", fun(tA, lA), 1, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("choose", args, 0)
			if err != nil {
				return nil, err
			}
			return core.Choose(xs, c.RNG())
		}),
		caller("sample_with_replacement", fun(lA, lA, types.IntType), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("sample_with_replacement", args, 0)
			if err != nil {
				return nil, err
			}
			k, err := argInt("sample_with_replacement", args, 1)
			if err != nil {
				return nil, err
			}
			out, err := core.SampleWithReplacement(xs, int(k), c.RNG())
			if err != nil {
				return nil, err
			}
			return core.NewList(out...), nil
		}),
		caller("sample_without_replacement", fun(lA, lA, types.IntType), 2, func(c core.Caller, args []core.Value) (core.Value, error) {
			xs, err := argList("sample_without_replacement", args, 0)
			if err != nil {
				return nil, err
			}
			k, err := argInt("sample_without_replacement", args, 1)
			if err != nil {
				return nil, err
			}
			return core.NewList(core.SampleWithoutReplacement(xs, int(k), c.RNG())...), nil
		}),
		pure("set", fun(types.SetType(tA), lA), 1, func(args []core.Value) (core.Value, error) {
			xs, err := argList("set", args, 0)
			if err != nil {
				return nil, err
			}
			return core.NewSet(xs...), nil
		}),
		pure("contains", fun(types.BoolType, types.SetType(tA), tA), 2, func(args []core.Value) (core.Value, error) {
			switch coll := args[0].(type) {
			case *core.SetVal:
				return core.BoolVal(coll.Has(args[1])), nil
			case *core.ListVal:
				return core.BoolVal(slices.ContainsFunc(coll.Elems, func(v core.Value) bool { return valuesEqual(v, args[1]) })), nil
			}
			return nil, argError("contains", 0, "a Set or List", args[0])
		}),
		pure("keys", fun(types.ListType(types.StrType), types.MapType(types.StrType, tA)), 1, func(args []core.Value) (core.Value, error) {
			m, ok := args[0].(*core.MapVal)
			if !ok {
				return nil, argError("keys", 0, "a Map", args[0])
			}
			keys := m.Keys()
			out := make([]core.Value, len(keys))
			for i, k := range keys {
				out[i] = core.StringVal(k)
			}
			return core.NewList(out...), nil
		}),
	)
}
