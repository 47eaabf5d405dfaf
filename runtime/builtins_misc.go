package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/types"
)

func registerMisc(n *Natives) {
	n.mustRegister(
		// Option and Result constructors; None is installed as a value.
		pure("Some", fun(types.OptionType(tA), tA), 1, func(args []core.Value) (core.Value, error) {
			return core.NewVariant("Some", args[0]), nil
		}),
		pure("Ok", fun(types.ResultType(tA, tB), tA), 1, func(args []core.Value) (core.Value, error) {
			return core.NewVariant("Ok", args[0]), nil
		}),
		pure("Err", fun(types.ResultType(tA, tB), tB), 1, func(args []core.Value) (core.Value, error) {
			return core.NewVariant("Err", args[0]), nil
		}),
		pure("error", fun(tA, types.StrType), 1, func(args []core.Value) (core.Value, error) {
			if s, ok := args[0].(core.StringVal); ok {
				return core.ErrorVal{Message: string(s)}, nil
			}
			return core.ErrorVal{Message: args[0].String()}, nil
		}),

		pure("to_int", fun(types.IntType, tA), 1, toInt),
		pure("to_float", fun(types.FloatType, tA), 1, toFloat),
		pure("to_string", fun(types.StrType, tA), 1, func(args []core.Value) (core.Value, error) {
			if s, ok := args[0].(core.StringVal); ok {
				return s, nil
			}
			return core.StringVal(args[0].String()), nil
		}),
		pure("kind_of", fun(types.StrType, tA), 1, func(args []core.Value) (core.Value, error) {
			return core.StringVal(args[0].Kind().String()), nil
		}),

		pure("to_ternary", fun(types.TernaryType, tA), 1, func(args []core.Value) (core.Value, error) {
			switch v := args[0].(type) {
			case core.TernaryVal:
				return v, nil
			case core.BoolVal:
				return core.TernaryVal(decl.TernaryFromBool(bool(v))), nil
			case core.StringVal:
				t, err := decl.ParseTernary(string(v))
				if err != nil {
					return nil, err
				}
				return core.TernaryVal(t), nil
			}
			return nil, argError("to_ternary", 0, "a Bool, Ternary or String", args[0])
		}),
		pure("is_known", fun(types.BoolType, types.TernaryType), 1, func(args []core.Value) (core.Value, error) {
			t, ok := toTernary(args[0])
			if !ok {
				return nil, argError("is_known", 0, "a Ternary", args[0])
			}
			return core.BoolVal(t != decl.TernaryUnknown), nil
		}),
	)
}

func toInt(args []core.Value) (core.Value, error) {
	switch v := args[0].(type) {
	case core.IntVal:
		return v, nil
	case core.FloatVal:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, argError("to_int", 0, "a finite number in Int range", v)
		}
		return core.IntVal(int64(f)), nil
	case core.BoolVal:
		if v {
			return core.IntVal(1), nil
		}
		return core.IntVal(0), nil
	case core.TernaryVal:
		return core.IntVal(int64(v.Ternary().Int())), nil
	case core.StringVal:
		i, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, err
		}
		return core.IntVal(i), nil
	}
	return nil, argError("to_int", 0, "convertible to Int", args[0])
}

func toFloat(args []core.Value) (core.Value, error) {
	switch v := args[0].(type) {
	case core.IntVal:
		return core.FloatVal(v), nil
	case core.FloatVal:
		return v, nil
	case core.TernaryVal:
		return core.FloatVal(v.Ternary().Float()), nil
	case core.StringVal:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, err
		}
		return core.FloatVal(f), nil
	}
	return nil, argError("to_float", 0, "convertible to Float", args[0])
}
