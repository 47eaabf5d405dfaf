package types

import (
	"github.com/hyperpolymath/betlang/decl"
)

func (c *Checker) inferBinary(e *decl.BinaryExpr, env *TypeEnv) (*Type, error) {
	lt, err := c.infer(e.Left, env)
	if err != nil {
		return nil, err
	}
	rt, err := c.infer(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch op := e.Op; {
	case op.IsArithmetic():
		return c.arithmetic(lt, rt, e)
	case op.IsComparison():
		l, r := c.prune(lt), c.prune(rt)
		if l.IsNumeric() && r.IsNumeric() {
			return BoolType, nil
		}
		if err := c.expect(l, r, e.Right); err != nil {
			return nil, err
		}
		return BoolType, nil
	case op.IsLogical():
		if err := c.expectCondition(lt, e.Left); err != nil {
			return nil, err
		}
		if err := c.expectCondition(rt, e.Right); err != nil {
			return nil, err
		}
		if c.prune(lt).Tag == TypeTagTernary || c.prune(rt).Tag == TypeTagTernary {
			return TernaryType, nil
		}
		return BoolType, nil
	case op == decl.OpConcat:
		if err := c.expect(lt, rt, e.Right); err != nil {
			return nil, err
		}
		switch t := c.prune(lt); t.Tag {
		case TypeTagString, TypeTagBytes, TypeTagList, TypeTagVar:
			return t, nil
		default:
			return nil, mismatch(StrType, t, e.Left)
		}
	case op == decl.OpCons:
		list := ListType(lt)
		if err := c.expect(list, rt, e.Right); err != nil {
			return nil, err
		}
		return list, nil
	case op == decl.OpAppend:
		elem := c.fresh()
		if err := c.expect(ListType(elem), lt, e.Left); err != nil {
			return nil, err
		}
		if err := c.expect(ListType(elem), rt, e.Right); err != nil {
			return nil, err
		}
		return ListType(elem), nil
	case op == decl.OpCompose:
		return c.compose(lt, rt, e)
	}
	return nil, invalid(e, "unknown operator %s", e.Op)
}

// arithmetic types + - * / % ^.  Int with Int stays Int; any Float operand
// makes the result Float.
func (c *Checker) arithmetic(lt, rt *Type, at *decl.BinaryExpr) (*Type, error) {
	l, r := c.prune(lt), c.prune(rt)
	switch {
	case l.IsNumeric() && r.IsNumeric():
		if l.Tag == TypeTagInt && r.Tag == TypeTagInt {
			return IntType, nil
		}
		return FloatType, nil
	case l.IsVar() && r.IsNumeric():
		return r, c.unify(l, r, at.Left)
	case r.IsVar() && l.IsNumeric():
		return l, c.unify(r, l, at.Right)
	case l.IsVar() && r.IsVar():
		return l, c.unify(l, r, at)
	case !l.IsNumeric() && !l.IsVar():
		return nil, mismatch(FloatType, l, at.Left)
	}
	return nil, mismatch(FloatType, r, at.Right)
}

// compose types Kleisli composition f >> g.  When f yields a distribution,
// g receives a sample from it.
func (c *Checker) compose(ft, gt *Type, at *decl.BinaryExpr) (*Type, error) {
	a, b := c.fresh(), c.fresh()
	if err := c.unify(ft, FunType(a, b), at.Left); err != nil {
		return nil, err
	}
	x, y := c.fresh(), c.fresh()
	if err := c.unify(gt, FunType(x, y), at.Right); err != nil {
		return nil, err
	}
	mid := c.prune(b)
	if mid.Tag == TypeTagDist {
		mid = mid.Elem()
	}
	if err := c.expect(x, mid, at); err != nil {
		return nil, err
	}
	return FunType(a, y), nil
}

func (c *Checker) inferUnary(e *decl.UnaryExpr, env *TypeEnv) (*Type, error) {
	if e.Op == decl.OpSample {
		return c.inferSample(e.Operand, env, e)
	}
	t, err := c.infer(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case decl.OpNeg:
		if err := c.expectNumeric(t, e.Operand); err != nil {
			return nil, err
		}
		return c.prune(t), nil
	case decl.OpNot:
		if err := c.expectCondition(t, e.Operand); err != nil {
			return nil, err
		}
		return c.prune(t), nil
	}
	return nil, invalid(e, "unknown operator %s", e.Op)
}
