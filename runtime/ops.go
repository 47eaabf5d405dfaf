package runtime

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
)

// evalBinary evaluates both operands, left first, then applies the operator.
// Logical operators do not short-circuit.
func (in *Interpreter) evalBinary(e *decl.BinaryExpr, env *ValueEnv) (core.Value, error) {
	l, err := in.Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := in.Eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	out, err := BinaryOp(e.Op, l, r)
	return out, located(e, err)
}

// BinaryOp applies op to two values.
func BinaryOp(op decl.BinOp, l, r core.Value) (core.Value, error) {
	switch {
	case op.IsArithmetic():
		return arithmetic(op, l, r)
	case op == decl.OpEq:
		return core.BoolVal(valuesEqual(l, r)), nil
	case op == decl.OpNe:
		return core.BoolVal(!valuesEqual(l, r)), nil
	case op.IsComparison():
		return ordering(op, l, r)
	case op.IsLogical():
		return logical(op, l, r)
	}
	switch op {
	case decl.OpConcat:
		return concat(l, r)
	case decl.OpCons:
		list, ok := r.(*core.ListVal)
		if !ok {
			return nil, operandError(op, r)
		}
		return core.NewList(append([]core.Value{l}, list.Elems...)...), nil
	case decl.OpAppend:
		a, aok := l.(*core.ListVal)
		b, bok := r.(*core.ListVal)
		if !aok || !bok {
			return nil, operandsError(op, l, r)
		}
		return core.NewList(slices.Concat(a.Elems, b.Elems)...), nil
	case decl.OpCompose:
		return compose(l, r), nil
	}
	return nil, fmt.Errorf("operator %s: %w", op, ErrUnsupported)
}

func operandError(op decl.BinOp, v core.Value) error {
	return fmt.Errorf("operator %s on %s: %w", op, v.Kind(), ErrUnsupportedType)
}

func operandsError(op decl.BinOp, l, r core.Value) error {
	return fmt.Errorf("operator %s on %s and %s: %w", op, l.Kind(), r.Kind(), ErrUnsupportedType)
}

// arithmetic keeps Int op Int as Int and promotes to Float when either side
// is a Float.  Division and remainder by zero are errors for both.
func arithmetic(op decl.BinOp, l, r core.Value) (core.Value, error) {
	li, lInt := l.(core.IntVal)
	ri, rInt := r.(core.IntVal)
	if lInt && rInt {
		switch op {
		case decl.OpAdd:
			return li + ri, nil
		case decl.OpSub:
			return li - ri, nil
		case decl.OpMul:
			return li * ri, nil
		case decl.OpDiv, decl.OpMod:
			if ri == 0 {
				return nil, ErrDivisionByZero
			}
			if op == decl.OpDiv {
				return li / ri, nil
			}
			return li % ri, nil
		case decl.OpPow:
			if ri < 0 {
				return nil, fmt.Errorf("negative Int exponent %d: %w", ri, ErrUnsupported)
			}
			return intPow(li, ri), nil
		}
	}
	lf, lok := core.ToFloat(l)
	rf, rok := core.ToFloat(r)
	if !lok || !rok {
		return nil, operandsError(op, l, r)
	}
	switch op {
	case decl.OpAdd:
		return core.FloatVal(lf + rf), nil
	case decl.OpSub:
		return core.FloatVal(lf - rf), nil
	case decl.OpMul:
		return core.FloatVal(lf * rf), nil
	case decl.OpDiv:
		if rf == 0 {
			return nil, ErrDivisionByZero
		}
		return core.FloatVal(lf / rf), nil
	case decl.OpMod:
		if rf == 0 {
			return nil, ErrDivisionByZero
		}
		return core.FloatVal(math.Mod(lf, rf)), nil
	}
	return core.FloatVal(math.Pow(lf, rf)), nil
}

func intPow(base, exp core.IntVal) core.IntVal {
	out := core.IntVal(1)
	for exp > 0 {
		if exp&1 == 1 {
			out *= base
		}
		base *= base
		exp >>= 1
	}
	return out
}

// valuesEqual is structural equality with Int and Float compared by value.
func valuesEqual(l, r core.Value) bool {
	lf, lok := core.ToFloat(l)
	rf, rok := core.ToFloat(r)
	if lok && rok {
		return lf == rf
	}
	return core.Equal(l, r)
}

func ordering(op decl.BinOp, l, r core.Value) (core.Value, error) {
	c, err := compareValues(l, r)
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", op, err)
	}
	switch op {
	case decl.OpLt:
		return core.BoolVal(c < 0), nil
	case decl.OpLe:
		return core.BoolVal(c <= 0), nil
	case decl.OpGt:
		return core.BoolVal(c > 0), nil
	}
	return core.BoolVal(c >= 0), nil
}

// compareValues orders numbers, strings, bytes, bools (false < true) and
// ternaries (False < Unknown < True).
func compareValues(l, r core.Value) (int, error) {
	if lf, ok := core.ToFloat(l); ok {
		if rf, ok := core.ToFloat(r); ok {
			return cmp.Compare(lf, rf), nil
		}
	}
	switch a := l.(type) {
	case core.StringVal:
		if b, ok := r.(core.StringVal); ok {
			return cmp.Compare(a, b), nil
		}
	case core.BytesVal:
		if b, ok := r.(core.BytesVal); ok {
			return cmp.Compare(a, b), nil
		}
	case core.BoolVal:
		if b, ok := r.(core.BoolVal); ok {
			return cmp.Compare(boolInt(bool(a)), boolInt(bool(b))), nil
		}
	case core.TernaryVal:
		if b, ok := r.(core.TernaryVal); ok {
			return cmp.Compare(a, b), nil
		}
	}
	return 0, fmt.Errorf("cannot order %s and %s: %w", l.Kind(), r.Kind(), ErrUnsupportedType)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// logical applies and/or/xor.  Two Bools give a Bool; a Ternary on either
// side lifts both to Kleene logic.
func logical(op decl.BinOp, l, r core.Value) (core.Value, error) {
	lb, lBool := l.(core.BoolVal)
	rb, rBool := r.(core.BoolVal)
	if lBool && rBool {
		switch op {
		case decl.OpAnd:
			return lb && rb, nil
		case decl.OpOr:
			return lb || rb, nil
		}
		return core.BoolVal(lb != rb), nil
	}
	lt, lok := toTernary(l)
	rt, rok := toTernary(r)
	if !lok || !rok {
		return nil, operandsError(op, l, r)
	}
	switch op {
	case decl.OpAnd:
		return core.TernaryVal(lt.And(rt)), nil
	case decl.OpOr:
		return core.TernaryVal(lt.Or(rt)), nil
	}
	return core.TernaryVal(lt.Xor(rt)), nil
}

func toTernary(v core.Value) (decl.TernaryValue, bool) {
	switch v := v.(type) {
	case core.BoolVal:
		return decl.TernaryFromBool(bool(v)), true
	case core.TernaryVal:
		return v.Ternary(), true
	}
	return decl.TernaryUnknown, false
}

func concat(l, r core.Value) (core.Value, error) {
	switch a := l.(type) {
	case core.StringVal:
		if b, ok := r.(core.StringVal); ok {
			return a + b, nil
		}
	case core.BytesVal:
		if b, ok := r.(core.BytesVal); ok {
			return a + b, nil
		}
	case *core.ListVal:
		if b, ok := r.(*core.ListVal); ok {
			return core.NewList(slices.Concat(a.Elems, b.Elems)...), nil
		}
	}
	return nil, operandsError(decl.OpConcat, l, r)
}

// compose builds f >> g.  When f returns a distribution, g is applied to a
// sample of it drawn from the caller's generator.
func compose(f, g core.Value) core.Value {
	return &core.NativeFunction{
		Name:  fmt.Sprintf("%s >> %s", f, g),
		Arity: 1,
		Call: func(c core.Caller, args []core.Value) (core.Value, error) {
			mid, err := c.Apply(f, args[0])
			if err != nil {
				return nil, err
			}
			if d, ok := mid.(*core.Distribution); ok {
				if mid, err = d.Sample(c.RNG()); err != nil {
					return nil, err
				}
			}
			return c.Apply(g, mid)
		},
	}
}

func (in *Interpreter) evalUnary(e *decl.UnaryExpr, env *ValueEnv) (core.Value, error) {
	if e.Op == decl.OpSample {
		return in.evalSample(e.Operand, env, e)
	}
	v, err := in.Eval(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case decl.OpNeg:
		switch n := v.(type) {
		case core.IntVal:
			return -n, nil
		case core.FloatVal:
			return -n, nil
		}
	case decl.OpNot:
		switch b := v.(type) {
		case core.BoolVal:
			return !b, nil
		case core.TernaryVal:
			return core.TernaryVal(b.Ternary().Not()), nil
		}
	}
	return nil, errorf(e, ErrUnsupportedType, "operator %s on %s", e.Op, v.Kind())
}
