package types

import (
	"github.com/hyperpolymath/betlang/decl"
)

// TypeEnv maps identifiers to their types.
type TypeEnv = decl.Env[*Type]

func NewTypeEnv() *TypeEnv { return decl.NewEnv[*Type]() }

// Checker infers types for expressions and modules.  It carries the symbol
// table for diagnostics and the substitution built up by unification, so one
// Checker should be used per program.
type Checker struct {
	Names    *decl.Interner
	subst    map[uint32]*Type
	nextVar  uint32
	typeDefs map[decl.Symbol]*Type
	annVars  map[decl.Symbol]*Type
}

func NewChecker(names *decl.Interner) *Checker {
	return &Checker{
		Names:    names,
		subst:    map[uint32]*Type{},
		typeDefs: map[decl.Symbol]*Type{},
		annVars:  map[decl.Symbol]*Type{},
	}
}

// Check infers the type of expr in env with a throwaway Checker.
func Check(names *decl.Interner, expr decl.Expr, env *TypeEnv) (*Type, error) {
	return NewChecker(names).Check(expr, env)
}

// Check returns the fully resolved type of expr.
func (c *Checker) Check(expr decl.Expr, env *TypeEnv) (*Type, error) {
	t, err := c.infer(expr, env)
	if err != nil {
		return nil, err
	}
	return c.Resolve(t), nil
}

// CheckModule checks items in order.  Let items extend the environment for
// the items after them.  It returns the final environment and the type of the
// last expression item (Unit if there is none).
func (c *Checker) CheckModule(mod *decl.Module, env *TypeEnv) (*TypeEnv, *Type, error) {
	last := UnitType
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *decl.LetItem:
			var value decl.Expr = it.Body
			if len(it.Params) > 0 {
				value = &decl.LambdaExpr{ExprBase: decl.ExprBase{NodeInfo: it.NodeInfo}, Params: it.Params, Body: it.Body}
			}
			t, inner, err := c.inferBinding(decl.PVar(it.Name), it.TypeAnn, value, it.IsRec, env)
			if err != nil {
				return nil, nil, err
			}
			env = inner
			last = t
		case *decl.TypeDefItem:
			for _, p := range it.Params {
				c.annVars[p] = GenericType(c.Names.Resolve(p))
			}
			t, err := c.resolveTypeExpr(it.Body)
			if err != nil {
				return nil, nil, err
			}
			c.typeDefs[it.Name] = t
		case *decl.ImportItem:
			// imports are resolved by the loader before checking
		case *decl.ExprItem:
			t, err := c.infer(it.Expr, env)
			if err != nil {
				return nil, nil, err
			}
			last = t
		}
	}
	return env, c.Resolve(last), nil
}

// CheckAlternatives applies the bet rule to an arbitrary list of
// alternatives.  Trees built by the parser always have three; trees from
// untrusted sources may not.
func (c *Checker) CheckAlternatives(alts []decl.Expr, env *TypeEnv, at decl.Node) (*Type, error) {
	if len(alts) != 3 {
		return nil, &TypeError{Kind: InvalidBet, Span: spanOf(at)}
	}
	var first *Type
	for i, alt := range alts {
		if alt == nil {
			return nil, &TypeError{Kind: InvalidBet, Span: spanOf(at)}
		}
		t, err := c.infer(alt, env)
		if err != nil {
			return nil, err
		}
		t = c.Resolve(t)
		if i == 0 {
			first = t
		} else if !first.Equals(t) {
			return nil, mismatch(first, t, alt)
		}
	}
	return first, nil
}

func (c *Checker) infer(expr decl.Expr, env *TypeEnv) (*Type, error) {
	switch e := expr.(type) {
	case *decl.LiteralExpr:
		return literalType(e.Value), nil
	case *decl.VarExpr:
		t, ok := env.Get(e.Name)
		if !ok {
			return nil, undefined(c.Names.Resolve(e.Name), e)
		}
		return c.instantiate(t), nil
	case *decl.BetExpr:
		return c.CheckAlternatives(e.Alternatives[:], env, e)
	case *decl.WeightedBetExpr:
		return c.inferWeightedBet(e, env)
	case *decl.ConditionalBetExpr:
		return c.inferConditionalBet(e, env)
	case *decl.AppExpr:
		return c.inferApp(e, env)
	case *decl.LambdaExpr:
		return c.inferLambda(e, env)
	case *decl.LetExpr:
		scope, err := c.bindLet(e, env)
		if err != nil {
			return nil, err
		}
		return c.infer(e.Body, scope)
	case *decl.DoExpr:
		return c.inferDo(e, env)
	case *decl.IfExpr:
		return c.inferIf(e, env)
	case *decl.MatchExpr:
		return c.inferMatch(e, env)
	case *decl.TupleExpr:
		elems := make([]*Type, len(e.Elems))
		for i, el := range e.Elems {
			t, err := c.infer(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return TupleType(elems...), nil
	case *decl.ListExpr:
		elem, err := c.inferHomogeneous(e.Elems, env)
		if err != nil {
			return nil, err
		}
		return ListType(elem), nil
	case *decl.RecordExpr:
		values := make([]decl.Expr, len(e.Fields))
		for i, f := range e.Fields {
			values[i] = f.Value
		}
		elem, err := c.inferHomogeneous(values, env)
		if err != nil {
			return nil, err
		}
		return MapType(StrType, elem), nil
	case *decl.FieldExpr:
		rt, err := c.infer(e.Receiver, env)
		if err != nil {
			return nil, err
		}
		field := c.fresh()
		if err := c.unify(rt, MapType(StrType, field), e); err != nil {
			return nil, err
		}
		return field, nil
	case *decl.IndexExpr:
		return c.inferIndex(e, env)
	case *decl.BinaryExpr:
		return c.inferBinary(e, env)
	case *decl.UnaryExpr:
		return c.inferUnary(e, env)
	case *decl.SampleExpr:
		return c.inferSample(e.Dist, env, e)
	case *decl.ObserveExpr:
		elem, err := c.inferSample(e.Dist, env, e)
		if err != nil {
			return nil, err
		}
		vt, err := c.infer(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := c.unify(elem, vt, e.Value); err != nil {
			return nil, err
		}
		return UnitType, nil
	case *decl.InferExpr:
		for _, p := range e.Params {
			if _, err := c.infer(p.Value, env); err != nil {
				return nil, err
			}
		}
		mt, err := c.infer(e.Model, env)
		if err != nil {
			return nil, err
		}
		if mt = c.prune(mt); mt.Tag == TypeTagDist {
			return mt, nil
		}
		return DistType(mt), nil
	case *decl.ParallelExpr:
		ct, err := c.infer(e.Count, env)
		if err != nil {
			return nil, err
		}
		if err := c.expect(IntType, ct, e.Count); err != nil {
			return nil, err
		}
		bt, err := c.infer(e.Body, env)
		if err != nil {
			return nil, err
		}
		return ListType(bt), nil
	case *decl.AnnotateExpr:
		t, err := c.infer(e.Expr, env)
		if err != nil {
			return nil, err
		}
		ann, err := c.resolveTypeExpr(e.Type)
		if err != nil {
			return nil, err
		}
		if err := c.expect(ann, t, e); err != nil {
			return nil, err
		}
		return ann, nil
	case *decl.HoleExpr:
		return c.fresh(), nil
	case *decl.ErrorExpr:
		return nil, invalid(e, "cannot check an error node")
	case nil:
		return nil, invalid(nil, "missing expression")
	}
	return nil, invalid(expr, "unsupported expression %T", expr)
}

// expect unifies found against expected and reports a failure as a mismatch
// naming both types.
func (c *Checker) expect(expected, found *Type, at decl.Node) error {
	if err := c.unify(expected, found, at); err != nil {
		return mismatch(c.Resolve(expected), c.Resolve(found), at)
	}
	return nil
}

func literalType(l decl.Literal) *Type {
	switch l.Kind {
	case decl.LitBool:
		return BoolType
	case decl.LitTernary:
		return TernaryType
	case decl.LitInt:
		return IntType
	case decl.LitFloat:
		return FloatType
	case decl.LitString:
		return StrType
	}
	return UnitType
}

func (c *Checker) inferHomogeneous(exprs []decl.Expr, env *TypeEnv) (*Type, error) {
	elem := c.fresh()
	for _, el := range exprs {
		t, err := c.infer(el, env)
		if err != nil {
			return nil, err
		}
		if err := c.unify(elem, t, el); err != nil {
			return nil, err
		}
	}
	return elem, nil
}

func (c *Checker) inferWeightedBet(e *decl.WeightedBetExpr, env *TypeEnv) (*Type, error) {
	values := make([]decl.Expr, 3)
	for i, alt := range e.Alternatives {
		values[i] = alt.Value
		if alt.Weight == nil {
			return nil, &TypeError{Kind: InvalidBet, Span: spanOf(e)}
		}
		wt, err := c.infer(alt.Weight, env)
		if err != nil {
			return nil, err
		}
		if err := c.expectNumeric(wt, alt.Weight); err != nil {
			return nil, err
		}
	}
	return c.CheckAlternatives(values, env, e)
}

func (c *Checker) inferConditionalBet(e *decl.ConditionalBetExpr, env *TypeEnv) (*Type, error) {
	ct, err := c.infer(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if err := c.expectCondition(ct, e.Condition); err != nil {
		return nil, err
	}
	if e.IfTrue == nil {
		return nil, &TypeError{Kind: InvalidBet, Span: spanOf(e)}
	}
	tt, err := c.infer(e.IfTrue, env)
	if err != nil {
		return nil, err
	}
	ft, err := c.CheckAlternatives(e.IfFalse[:], env, e)
	if err != nil {
		return nil, err
	}
	if tt = c.Resolve(tt); !tt.Equals(ft) {
		return nil, mismatch(tt, ft, e.IfFalse[0])
	}
	return tt, nil
}

func (c *Checker) expectNumeric(t *Type, at decl.Node) error {
	t = c.prune(t)
	if t.IsVar() {
		return c.unify(t, FloatType, at)
	}
	if !t.IsNumeric() {
		return mismatch(FloatType, t, at)
	}
	return nil
}

// expectCondition accepts Bool or Ternary.
func (c *Checker) expectCondition(t *Type, at decl.Node) error {
	t = c.prune(t)
	if t.Tag == TypeTagTernary {
		return nil
	}
	return c.expect(BoolType, t, at)
}

func (c *Checker) inferApp(e *decl.AppExpr, env *TypeEnv) (*Type, error) {
	ft, err := c.infer(e.Func, env)
	if err != nil {
		return nil, err
	}
	for _, arg := range e.Args {
		at, err := c.infer(arg, env)
		if err != nil {
			return nil, err
		}
		result := c.fresh()
		if err := c.unify(ft, FunType(at, result), arg); err != nil {
			return nil, err
		}
		ft = result
	}
	return ft, nil
}

func (c *Checker) inferLambda(e *decl.LambdaExpr, env *TypeEnv) (*Type, error) {
	params := make([]*Type, len(e.Params))
	scope := env
	for i, p := range e.Params {
		params[i] = c.fresh()
		var err error
		if scope, err = c.bindPattern(p, params[i], scope); err != nil {
			return nil, err
		}
	}
	bt, err := c.infer(e.Body, scope)
	if err != nil {
		return nil, err
	}
	return CurriedFunType(bt, params...), nil
}

func (c *Checker) bindLet(e *decl.LetExpr, env *TypeEnv) (*TypeEnv, error) {
	_, scope, err := c.inferBinding(e.Pattern, e.TypeAnn, e.Value, e.IsRec, env)
	return scope, err
}

// inferBinding checks `let [rec] pattern [: ann] = value` and returns the
// value's type and the environment extended with the pattern's bindings.
func (c *Checker) inferBinding(p decl.Pattern, ann decl.TypeExpr, value decl.Expr, isRec bool, env *TypeEnv) (*Type, *TypeEnv, error) {
	valueEnv := env
	var self *Type
	if isRec {
		vp, ok := p.(*decl.VarPattern)
		if !ok {
			return nil, nil, invalid(p, "recursive bindings must bind a single name")
		}
		self = c.fresh()
		valueEnv = env.Bind(vp.Name, self)
	}
	vt, err := c.infer(value, valueEnv)
	if err != nil {
		return nil, nil, err
	}
	if self != nil {
		if err := c.unify(self, vt, value); err != nil {
			return nil, nil, err
		}
	}
	if ann != nil {
		at, err := c.resolveTypeExpr(ann)
		if err != nil {
			return nil, nil, err
		}
		if err := c.expect(at, vt, value); err != nil {
			return nil, nil, err
		}
	}
	if _, isLambda := value.(*decl.LambdaExpr); isLambda {
		if vp, ok := p.(*decl.VarPattern); ok {
			return vt, env.Bind(vp.Name, c.generalize(vt, env)), nil
		}
	}
	scope, err := c.bindPattern(p, vt, env)
	return vt, scope, err
}

func (c *Checker) inferDo(e *decl.DoExpr, env *TypeEnv) (*Type, error) {
	last := UnitType
	for _, s := range e.Stmts {
		t, err := c.infer(s.Expr, env)
		if err != nil {
			return nil, err
		}
		switch s.Kind {
		case decl.StmtBind:
			if pt := c.prune(t); pt.Tag == TypeTagDist {
				t = pt.Elem()
			}
			fallthrough
		case decl.StmtLet:
			if env, err = c.bindPattern(s.Pattern, t, env); err != nil {
				return nil, err
			}
		}
		last = t
	}
	return last, nil
}

func (c *Checker) inferIf(e *decl.IfExpr, env *TypeEnv) (*Type, error) {
	ct, err := c.infer(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if err := c.expectCondition(ct, e.Condition); err != nil {
		return nil, err
	}
	tt, err := c.infer(e.Then, env)
	if err != nil {
		return nil, err
	}
	et, err := c.infer(e.Else, env)
	if err != nil {
		return nil, err
	}
	if err := c.expect(tt, et, e.Else); err != nil {
		return nil, err
	}
	return tt, nil
}

func (c *Checker) inferMatch(e *decl.MatchExpr, env *TypeEnv) (*Type, error) {
	st, err := c.infer(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	result := c.fresh()
	for _, arm := range e.Arms {
		scope, err := c.bindPattern(arm.Pattern, st, env)
		if err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			gt, err := c.infer(arm.Guard, scope)
			if err != nil {
				return nil, err
			}
			if err := c.expectCondition(gt, arm.Guard); err != nil {
				return nil, err
			}
		}
		bt, err := c.infer(arm.Body, scope)
		if err != nil {
			return nil, err
		}
		if err := c.expect(result, bt, arm.Body); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Checker) inferIndex(e *decl.IndexExpr, env *TypeEnv) (*Type, error) {
	rt, err := c.infer(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	it, err := c.infer(e.Index, env)
	if err != nil {
		return nil, err
	}
	switch rt = c.prune(rt); rt.Tag {
	case TypeTagMap:
		if err := c.expect(rt.Args[0], it, e.Index); err != nil {
			return nil, err
		}
		return rt.Args[1], nil
	case TypeTagTuple:
		lit, ok := e.Index.(*decl.LiteralExpr)
		if !ok || lit.Value.Kind != decl.LitInt {
			return nil, invalid(e.Index, "tuple index must be an integer literal")
		}
		if lit.Value.Int < 0 || lit.Value.Int >= int64(len(rt.Args)) {
			return nil, invalid(e.Index, "tuple index %d out of range for %s", lit.Value.Int, rt)
		}
		return rt.Args[lit.Value.Int], nil
	case TypeTagString:
		if err := c.expect(IntType, it, e.Index); err != nil {
			return nil, err
		}
		return StrType, nil
	case TypeTagBytes:
		if err := c.expect(IntType, it, e.Index); err != nil {
			return nil, err
		}
		return IntType, nil
	}
	elem := c.fresh()
	if err := c.unify(rt, ListType(elem), e.Receiver); err != nil {
		return nil, err
	}
	if err := c.expect(IntType, it, e.Index); err != nil {
		return nil, err
	}
	return elem, nil
}

func (c *Checker) inferSample(dist decl.Expr, env *TypeEnv, at decl.Node) (*Type, error) {
	dt, err := c.infer(dist, env)
	if err != nil {
		return nil, err
	}
	elem := c.fresh()
	if err := c.unify(DistType(elem), dt, at); err != nil {
		return nil, mismatch(DistType(c.Resolve(elem)), c.Resolve(dt), dist)
	}
	return elem, nil
}
