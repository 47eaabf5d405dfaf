package runtime

import (
	"fmt"
	"math"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/parallel"
)

// Eval evaluates expr in env.
func (in *Interpreter) Eval(expr decl.Expr, env *ValueEnv) (core.Value, error) {
	switch e := expr.(type) {
	case *decl.LiteralExpr:
		return literalValue(e.Value), nil
	case *decl.VarExpr:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, errorf(e, ErrNotFound, "%s", in.Names.Resolve(e.Name))
		}
		return v, nil
	case *decl.BetExpr:
		return in.evalBet(e, e.Alternatives, env)
	case *decl.WeightedBetExpr:
		return in.evalWeightedBet(e, env)
	case *decl.ConditionalBetExpr:
		return in.evalConditionalBet(e, env)
	case *decl.AppExpr:
		return in.evalApp(e, env)
	case *decl.LambdaExpr:
		return &core.Closure{Params: e.Params, Body: e.Body, Env: env}, nil
	case *decl.LetExpr:
		scope, _, err := in.bindValue(e.Pattern, e.Value, e.IsRec, env)
		if err != nil {
			return nil, err
		}
		return in.Eval(e.Body, scope)
	case *decl.DoExpr:
		return in.evalDo(e, env)
	case *decl.IfExpr:
		return in.evalIf(e, env)
	case *decl.MatchExpr:
		return in.evalMatch(e, env)
	case *decl.TupleExpr:
		elems, err := in.evalAll(e.Elems, env)
		if err != nil {
			return nil, err
		}
		return core.NewTuple(elems...), nil
	case *decl.ListExpr:
		elems, err := in.evalAll(e.Elems, env)
		if err != nil {
			return nil, err
		}
		return core.NewList(elems...), nil
	case *decl.RecordExpr:
		fields := make(map[string]core.Value, len(e.Fields))
		for _, f := range e.Fields {
			v, err := in.Eval(f.Value, env)
			if err != nil {
				return nil, err
			}
			fields[in.Names.Resolve(f.Name)] = v
		}
		return core.NewMap(fields), nil
	case *decl.FieldExpr:
		return in.evalField(e, env)
	case *decl.IndexExpr:
		return in.evalIndex(e, env)
	case *decl.BinaryExpr:
		return in.evalBinary(e, env)
	case *decl.UnaryExpr:
		return in.evalUnary(e, env)
	case *decl.SampleExpr:
		return in.evalSample(e.Dist, env, e)
	case *decl.ObserveExpr:
		return nil, errorf(e, ErrUnsupported, "observe")
	case *decl.InferExpr:
		return nil, errorf(e, ErrUnsupported, "infer %s", e.Method)
	case *decl.ParallelExpr:
		return in.evalParallel(e, env)
	case *decl.AnnotateExpr:
		return in.Eval(e.Expr, env)
	case *decl.HoleExpr:
		if e.Named {
			return nil, errorf(e, ErrHole, "?%s", in.Names.Resolve(e.Name))
		}
		return nil, errorf(e, ErrHole, "?")
	case *decl.ErrorExpr:
		return nil, errorf(e, nil, "cannot evaluate malformed expression: %s", e.Message)
	case nil:
		panic("Eval called with a nil expression")
	}
	return nil, errorf(expr, ErrUnsupported, "%T", expr)
}

func literalValue(l decl.Literal) core.Value {
	switch l.Kind {
	case decl.LitBool:
		return core.BoolVal(l.Bool)
	case decl.LitTernary:
		return core.TernaryVal(l.Ternary)
	case decl.LitInt:
		return core.IntVal(l.Int)
	case decl.LitFloat:
		return core.FloatVal(l.Float)
	case decl.LitString:
		return core.StringVal(l.Str)
	}
	return core.Unit
}

func (in *Interpreter) evalAll(exprs []decl.Expr, env *ValueEnv) ([]core.Value, error) {
	out := make([]core.Value, len(exprs))
	for i, e := range exprs {
		v, err := in.Eval(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalBet evaluates all three alternatives and then picks one uniformly.
func (in *Interpreter) evalBet(at decl.Node, alts [3]decl.Expr, env *ValueEnv) (core.Value, error) {
	var results [3]core.Value
	for i, alt := range alts {
		if alt == nil {
			panic(fmt.Sprintf("bet at %s has a nil alternative", at.Span()))
		}
		v, err := in.Eval(alt, env)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return in.choose(at, results, in.rng.Index3()), nil
}

func (in *Interpreter) choose(at decl.Node, results [3]core.Value, chosen int) core.Value {
	if in.Observer != nil {
		in.Observer(at, results, chosen)
	}
	return results[chosen]
}

func (in *Interpreter) evalWeightedBet(e *decl.WeightedBetExpr, env *ValueEnv) (core.Value, error) {
	var results [3]core.Value
	var weights [3]float64
	total := 0.0
	for i, alt := range e.Alternatives {
		if alt.Value == nil || alt.Weight == nil {
			panic(fmt.Sprintf("weighted bet at %s has a nil alternative", e.Span()))
		}
		v, err := in.Eval(alt.Value, env)
		if err != nil {
			return nil, err
		}
		wv, err := in.Eval(alt.Weight, env)
		if err != nil {
			return nil, err
		}
		w, ok := core.ToFloat(wv)
		if !ok {
			return nil, errorf(alt.Weight, ErrUnsupportedType, "weight must be a number, got %s", wv.Kind())
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errorf(alt.Weight, ErrInvalidWeight, "weight %v", w)
		}
		results[i], weights[i] = v, w
		total += w
	}
	if total <= 0 {
		return nil, errorf(e, ErrInvalidWeight, "weights sum to %v", total)
	}
	chosen := in.rng.WeightedIndex3(weights[0], weights[1], weights[2])
	return in.choose(e, results, chosen), nil
}

func (in *Interpreter) evalConditionalBet(e *decl.ConditionalBetExpr, env *ValueEnv) (core.Value, error) {
	cond, err := in.Eval(e.Condition, env)
	if err != nil {
		return nil, err
	}
	truth, known, ok := core.Truthy(cond)
	if !ok {
		return nil, errorf(e.Condition, ErrUnsupportedType, "condition must be Bool or Ternary, got %s", cond.Kind())
	}
	if truth && known {
		return in.Eval(e.IfTrue, env)
	}
	return in.evalBet(e, e.IfFalse, env)
}

func (in *Interpreter) evalApp(e *decl.AppExpr, env *ValueEnv) (core.Value, error) {
	fn, err := in.Eval(e.Func, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalAll(e.Args, env)
	if err != nil {
		return nil, err
	}
	out, err := in.Apply(fn, args...)
	return out, located(e, err)
}

// Apply calls fn with args.  Closures and natives are curried: fewer
// arguments than parameters give a partially applied function, and extra
// arguments are applied to the result.  A closure without parameters is
// evaluated when applied to nothing.
func (in *Interpreter) Apply(fn core.Value, args ...core.Value) (core.Value, error) {
	for {
		switch f := fn.(type) {
		case *core.Closure:
			if len(args) == 0 && len(f.Params) > 0 {
				return f, nil
			}
			n := min(len(args), len(f.Params))
			env := f.Env
			for i := range n {
				scope, ok, err := in.bind(f.Params[i], args[i], env)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, errorf(f.Params[i], ErrNoMatch, "argument %s does not match parameter", args[i])
				}
				env = scope
			}
			if n < len(f.Params) {
				return &core.Closure{Name: f.Name, Params: f.Params[n:], Body: f.Body, Env: env}, nil
			}
			v, err := in.Eval(f.Body, env)
			if err != nil {
				return nil, err
			}
			fn, args = v, args[n:]
			if len(args) == 0 {
				return fn, nil
			}
		case *core.NativeFunction:
			return f.Apply(in, args)
		default:
			if len(args) == 0 {
				return fn, nil
			}
			return nil, fmt.Errorf("%s: %w", fn, core.ErrNotCallable)
		}
	}
}

// bindValue evaluates value and binds it to p on top of env.  A recursive
// binding requires a variable pattern and sees itself while being evaluated.
func (in *Interpreter) bindValue(p decl.Pattern, value decl.Expr, isRec bool, env *ValueEnv) (*ValueEnv, core.Value, error) {
	if isRec {
		vp, ok := p.(*decl.VarPattern)
		if !ok {
			return nil, nil, errorf(p, ErrUnsupported, "recursive binding of a non-variable pattern")
		}
		scope := env.Push()
		v, err := in.Eval(value, scope)
		if err != nil {
			return nil, nil, err
		}
		v = named(v, in.Names.Resolve(vp.Name))
		scope.Set(vp.Name, v)
		return scope, v, nil
	}
	v, err := in.Eval(value, env)
	if err != nil {
		return nil, nil, err
	}
	if vp, ok := p.(*decl.VarPattern); ok {
		v = named(v, in.Names.Resolve(vp.Name))
	}
	scope, ok, err := in.bind(p, v, env)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errorf(p, ErrNoMatch, "%s does not match %s", v, p)
	}
	return scope, v, nil
}

// named gives an anonymous closure a name for display.
func named(v core.Value, name string) core.Value {
	if c, ok := v.(*core.Closure); ok && c.Name == "" {
		out := *c
		out.Name = name
		return &out
	}
	return v
}

func (in *Interpreter) evalDo(e *decl.DoExpr, env *ValueEnv) (core.Value, error) {
	var last core.Value = core.Unit
	scope := env
	for _, st := range e.Stmts {
		v, err := in.Eval(st.Expr, scope)
		if err != nil {
			return nil, err
		}
		switch st.Kind {
		case decl.StmtBind:
			if d, ok := v.(*core.Distribution); ok {
				if v, err = d.Sample(in.rng); err != nil {
					return nil, located(st.Expr, err)
				}
			}
			fallthrough
		case decl.StmtLet:
			next, ok, err := in.bind(st.Pattern, v, scope)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errorf(st, ErrNoMatch, "%s does not match %s", v, st.Pattern)
			}
			scope = next
		}
		last = v
	}
	return last, nil
}

// condition evaluates a Bool or Ternary condition.  Unknown is an error.
func (in *Interpreter) condition(cond decl.Expr, env *ValueEnv) (bool, error) {
	v, err := in.Eval(cond, env)
	if err != nil {
		return false, err
	}
	truth, known, ok := core.Truthy(v)
	if !ok {
		return false, errorf(cond, ErrUnsupportedType, "condition must be Bool or Ternary, got %s", v.Kind())
	}
	if !known {
		return false, errorf(cond, ErrUnknownCondition, "")
	}
	return truth, nil
}

func (in *Interpreter) evalIf(e *decl.IfExpr, env *ValueEnv) (core.Value, error) {
	truth, err := in.condition(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if truth {
		return in.Eval(e.Then, env)
	}
	return in.Eval(e.Else, env)
}

// evalMatch runs the first arm whose pattern matches and whose guard, if
// any, is true.  A guard that is Unknown does not select its arm.
func (in *Interpreter) evalMatch(e *decl.MatchExpr, env *ValueEnv) (core.Value, error) {
	v, err := in.Eval(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range e.Arms {
		scope, ok, err := in.bind(arm.Pattern, v, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if arm.Guard != nil {
			g, err := in.Eval(arm.Guard, scope)
			if err != nil {
				return nil, err
			}
			truth, known, isCond := core.Truthy(g)
			if !isCond {
				return nil, errorf(arm.Guard, ErrUnsupportedType, "guard must be Bool or Ternary, got %s", g.Kind())
			}
			if !truth || !known {
				continue
			}
		}
		return in.Eval(arm.Body, scope)
	}
	return nil, errorf(e, ErrNoMatch, "%s", v)
}

func (in *Interpreter) evalField(e *decl.FieldExpr, env *ValueEnv) (core.Value, error) {
	recv, err := in.Eval(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	name := in.Names.Resolve(e.Field)
	m, ok := recv.(*core.MapVal)
	if !ok {
		return nil, errorf(e, ErrUnsupportedType, "field %s of %s", name, recv.Kind())
	}
	v, ok := m.Get(name)
	if !ok {
		return nil, errorf(e, ErrNotFound, "field %s", name)
	}
	return v, nil
}

func (in *Interpreter) evalIndex(e *decl.IndexExpr, env *ValueEnv) (core.Value, error) {
	recv, err := in.Eval(e.Receiver, env)
	if err != nil {
		return nil, err
	}
	idx, err := in.Eval(e.Index, env)
	if err != nil {
		return nil, err
	}
	out, err := index(recv, idx)
	return out, located(e, err)
}

func index(recv, idx core.Value) (core.Value, error) {
	if m, ok := recv.(*core.MapVal); ok {
		key, ok := idx.(core.StringVal)
		if !ok {
			return nil, fmt.Errorf("map key must be a String, got %s: %w", idx.Kind(), ErrUnsupportedType)
		}
		v, found := m.Get(string(key))
		if !found {
			return nil, fmt.Errorf("key %s: %w", key, ErrNotFound)
		}
		return v, nil
	}
	i, ok := idx.(core.IntVal)
	if !ok {
		return nil, fmt.Errorf("index must be an Int, got %s: %w", idx.Kind(), ErrUnsupportedType)
	}
	at := func(n int) (int, error) {
		if i < 0 || int(i) >= n {
			return 0, fmt.Errorf("index %d with length %d: %w", i, n, ErrIndexOutOfRange)
		}
		return int(i), nil
	}
	switch r := recv.(type) {
	case *core.ListVal:
		n, err := at(len(r.Elems))
		if err != nil {
			return nil, err
		}
		return r.Elems[n], nil
	case *core.TupleVal:
		n, err := at(len(r.Elems))
		if err != nil {
			return nil, err
		}
		return r.Elems[n], nil
	case core.StringVal:
		runes := []rune(string(r))
		n, err := at(len(runes))
		if err != nil {
			return nil, err
		}
		return core.StringVal(string(runes[n])), nil
	case core.BytesVal:
		n, err := at(len(r))
		if err != nil {
			return nil, err
		}
		return core.IntVal(r[n]), nil
	}
	return nil, fmt.Errorf("cannot index %s: %w", recv.Kind(), ErrUnsupportedType)
}

// evalSample draws once from a distribution.  Sampling a plain value yields
// the value.
func (in *Interpreter) evalSample(dist decl.Expr, env *ValueEnv, at decl.Node) (core.Value, error) {
	v, err := in.Eval(dist, env)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*core.Distribution)
	if !ok {
		return v, nil
	}
	out, err := d.Sample(in.rng)
	return out, located(at, err)
}

// evalParallel evaluates the body count times on the parallel layer.  Each
// run gets a generator split from this interpreter's before any run starts.
func (in *Interpreter) evalParallel(e *decl.ParallelExpr, env *ValueEnv) (core.Value, error) {
	cv, err := in.Eval(e.Count, env)
	if err != nil {
		return nil, err
	}
	count, ok := cv.(core.IntVal)
	if !ok {
		return nil, errorf(e.Count, ErrUnsupportedType, "parallel count must be an Int, got %s", cv.Kind())
	}
	if count < 0 {
		return nil, errorf(e.Count, ErrIndexOutOfRange, "parallel count %d", count)
	}
	runs := in.rng.SplitN(int(count))
	in.Logger.Debug("parallel block with %d runs", count)
	out, err := parallel.Map(in.Context, runs, func(rng *core.RNG) (core.Value, error) {
		return in.fork(rng).Eval(e.Body, env)
	}, in.MaxConcurrency)
	if err != nil {
		return nil, located(e, err)
	}
	return core.NewList(out...), nil
}
