package runtime

import (
	"errors"
	goruntime "runtime"
	"testing"
	"weak"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterpreter(t *testing.T, seed uint64) (*Interpreter, *decl.Interner) {
	t.Helper()
	names := decl.NewInterner()
	return NewInterpreter(names, core.NewRNG(seed)), names
}

func call(names *decl.Interner, fn string, args ...decl.Expr) *decl.AppExpr {
	return decl.App(decl.Var(names.Intern(fn)), args...)
}

func TestBetPicksEachAlternative(t *testing.T) {
	in, _ := newTestInterpreter(t, 1)
	bet := decl.Bet(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3))
	counts := map[core.Value]int{}
	for range 3000 {
		v, err := in.Run(bet)
		require.NoError(t, err)
		counts[v]++
	}
	require.Len(t, counts, 3)
	for v, n := range counts {
		assert.True(t, n > 800 && n < 1200, "%s chosen %d times", v, n)
	}
}

func TestBetEvaluatesEveryAlternative(t *testing.T) {
	in, _ := newTestInterpreter(t, 2)
	var seen [3]core.Value
	var picked int
	in.Observer = func(_ decl.Node, results [3]core.Value, chosen int) {
		seen, picked = results, chosen
	}
	v, err := in.Run(decl.Bet(decl.StringLit("a"), decl.StringLit("b"), decl.StringLit("c")))
	require.NoError(t, err)
	assert.Equal(t, [3]core.Value{core.StringVal("a"), core.StringVal("b"), core.StringVal("c")}, seen)
	assert.Equal(t, seen[picked], v)

	// an error in any alternative fails the bet
	_, err = in.Run(decl.Bet(decl.IntLit(1), decl.Binary(decl.OpDiv, decl.IntLit(1), decl.IntLit(0)), decl.IntLit(3)))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestSameSeedSameResults(t *testing.T) {
	a, _ := newTestInterpreter(t, 77)
	b, _ := newTestInterpreter(t, 77)
	bet := decl.Bet(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3))
	for range 50 {
		va, err := a.Run(bet)
		require.NoError(t, err)
		vb, err := b.Run(bet)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestWeightedBet(t *testing.T) {
	in, _ := newTestInterpreter(t, 3)
	zeroed := decl.WeightedBet(
		decl.IntLit(1), decl.IntLit(0),
		decl.IntLit(2), decl.FloatLit(2.5),
		decl.IntLit(3), decl.IntLit(0))
	for range 200 {
		v, err := in.Run(zeroed)
		require.NoError(t, err)
		assert.Equal(t, core.IntVal(2), v)
	}

	cases := map[string]struct {
		w   [3]decl.Expr
		err error
	}{
		"negative": {[3]decl.Expr{decl.IntLit(-1), decl.IntLit(1), decl.IntLit(1)}, ErrInvalidWeight},
		"all zero": {[3]decl.Expr{decl.IntLit(0), decl.FloatLit(0), decl.IntLit(0)}, ErrInvalidWeight},
		"string":   {[3]decl.Expr{decl.StringLit("heavy"), decl.IntLit(1), decl.IntLit(1)}, ErrUnsupportedType},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := in.Run(decl.WeightedBet(
				decl.IntLit(1), c.w[0], decl.IntLit(2), c.w[1], decl.IntLit(3), c.w[2]))
			assert.ErrorIs(t, err, c.err)
			var re *RuntimeError
			assert.True(t, errors.As(err, &re))
		})
	}
}

func TestConditionalBet(t *testing.T) {
	in, _ := newTestInterpreter(t, 4)
	sure := decl.ConditionalBet(decl.BoolLit(true), decl.StringLit("yes"),
		decl.StringLit("a"), decl.StringLit("b"), decl.StringLit("c"))
	for range 20 {
		v, err := in.Run(sure)
		require.NoError(t, err)
		assert.Equal(t, core.StringVal("yes"), v)
	}

	unsure := decl.ConditionalBet(decl.TernaryLit(decl.TernaryUnknown), decl.StringLit("yes"),
		decl.StringLit("a"), decl.StringLit("b"), decl.StringLit("c"))
	for range 20 {
		v, err := in.Run(unsure)
		require.NoError(t, err)
		assert.Contains(t, []core.Value{core.StringVal("a"), core.StringVal("b"), core.StringVal("c")}, v)
	}

	_, err := in.Run(decl.ConditionalBet(decl.IntLit(1), decl.IntLit(0),
		decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestClosuresAndCurrying(t *testing.T) {
	in, names := newTestInterpreter(t, 5)
	add, add1, x, y := names.Intern("add"), names.Intern("add1"), names.Intern("x"), names.Intern("y")
	prog := decl.Let(decl.PVar(add),
		decl.Lambda(decl.Binary(decl.OpAdd, decl.Var(x), decl.Var(y)), decl.PVar(x), decl.PVar(y)),
		decl.Let(decl.PVar(add1), decl.App(decl.Var(add), decl.IntLit(1)),
			decl.Tuple(
				decl.App(decl.Var(add1), decl.IntLit(41)),
				decl.App(decl.Var(add), decl.IntLit(2), decl.FloatLit(0.5)),
				decl.Var(add1))))
	v, err := in.Run(prog)
	require.NoError(t, err)
	tup := v.(*core.TupleVal)
	assert.Equal(t, core.IntVal(42), tup.Elems[0])
	assert.Equal(t, core.FloatVal(2.5), tup.Elems[1])
	_, isClosure := tup.Elems[2].(*core.Closure)
	assert.True(t, isClosure)

	_, err = in.Run(decl.App(decl.IntLit(3), decl.IntLit(4)))
	assert.ErrorIs(t, err, core.ErrNotCallable)
}

func TestLetRecFactorial(t *testing.T) {
	in, names := newTestInterpreter(t, 6)
	fact, n := names.Intern("fact"), names.Intern("n")
	body := decl.If(
		decl.Binary(decl.OpLe, decl.Var(n), decl.IntLit(1)),
		decl.IntLit(1),
		decl.Binary(decl.OpMul, decl.Var(n),
			decl.App(decl.Var(fact), decl.Binary(decl.OpSub, decl.Var(n), decl.IntLit(1)))))
	v, err := in.Run(decl.LetRec(fact, decl.Lambda(body, decl.PVar(n)), decl.App(decl.Var(fact), decl.IntLit(10))))
	require.NoError(t, err)
	assert.Equal(t, core.IntVal(3628800), v)
}

func TestDoSamplesDistributions(t *testing.T) {
	in, names := newTestInterpreter(t, 7)
	x, y := names.Intern("x"), names.Intern("y")
	prog := &decl.DoExpr{Stmts: []*decl.DoStmt{
		{Kind: decl.StmtBind, Pattern: decl.PVar(x), Expr: call(names, "uniform_int", decl.IntLit(1), decl.IntLit(6))},
		{Kind: decl.StmtLet, Pattern: decl.PVar(y), Expr: decl.Binary(decl.OpMul, decl.Var(x), decl.IntLit(2))},
		{Kind: decl.StmtExpr, Expr: decl.Var(y)},
	}}
	for range 100 {
		v, err := in.Run(prog)
		require.NoError(t, err)
		n := int64(v.(core.IntVal))
		assert.True(t, n >= 2 && n <= 12 && n%2 == 0, "got %d", n)
	}

	// a plain value is bound as is
	plain := &decl.DoExpr{Stmts: []*decl.DoStmt{
		{Kind: decl.StmtBind, Pattern: decl.PVar(x), Expr: decl.IntLit(9)},
		{Kind: decl.StmtExpr, Expr: decl.Var(x)},
	}}
	v, err := in.Run(plain)
	require.NoError(t, err)
	assert.Equal(t, core.IntVal(9), v)
}

func TestMatchVariantsAndGuards(t *testing.T) {
	in, names := newTestInterpreter(t, 8)
	n := names.Intern("n")
	match := func(scrutinee decl.Expr) *decl.MatchExpr {
		return &decl.MatchExpr{Scrutinee: scrutinee, Arms: []decl.MatchArm{
			{
				Pattern: &decl.ConstructorPattern{Name: names.Intern("Some"), Args: []decl.Pattern{decl.PVar(n)}},
				Guard:   decl.TernaryLit(decl.TernaryUnknown),
				Body:    decl.StringLit("unknown guard"),
			},
			{
				Pattern: &decl.ConstructorPattern{Name: names.Intern("Some"), Args: []decl.Pattern{decl.PVar(n)}},
				Guard:   decl.Binary(decl.OpGt, decl.Var(n), decl.IntLit(5)),
				Body:    decl.StringLit("big"),
			},
			{
				Pattern: &decl.ConstructorPattern{Name: names.Intern("Some"), Args: []decl.Pattern{decl.PWild()}},
				Body:    decl.StringLit("small"),
			},
			{
				Pattern: &decl.ConstructorPattern{Name: names.Intern("None")},
				Body:    decl.StringLit("none"),
			},
		}}
	}
	for want, scrutinee := range map[string]decl.Expr{
		"big":   call(names, "Some", decl.IntLit(9)),
		"small": call(names, "Some", decl.IntLit(2)),
		"none":  decl.Var(names.Intern("None")),
	} {
		v, err := in.Run(match(scrutinee))
		require.NoError(t, err)
		assert.Equal(t, core.StringVal(want), v)
	}

	_, err := in.Run(match(call(names, "Ok", decl.IntLit(1))))
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestListPatterns(t *testing.T) {
	in, names := newTestInterpreter(t, 9)
	h, rest := names.Intern("h"), names.Intern("rest")
	m := &decl.MatchExpr{
		Scrutinee: decl.List(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)),
		Arms: []decl.MatchArm{
			{Pattern: &decl.ListPattern{}, Body: decl.IntLit(0)},
			{
				Pattern: &decl.ListPattern{Elems: []decl.Pattern{decl.PVar(h)}, Rest: decl.PVar(rest)},
				Body:    decl.Tuple(decl.Var(h), call(names, "length", decl.Var(rest))),
			},
		},
	}
	v, err := in.Run(m)
	require.NoError(t, err)
	assert.Equal(t, core.NewTuple(core.IntVal(1), core.IntVal(2)), v)
}

func TestArithmeticErrors(t *testing.T) {
	in, _ := newTestInterpreter(t, 10)
	for _, op := range []decl.BinOp{decl.OpDiv, decl.OpMod} {
		_, err := in.Run(decl.Binary(op, decl.IntLit(1), decl.IntLit(0)))
		assert.ErrorIs(t, err, ErrDivisionByZero)
		_, err = in.Run(decl.Binary(op, decl.FloatLit(1), decl.FloatLit(0)))
		assert.ErrorIs(t, err, ErrDivisionByZero)
	}
	_, err := in.Run(decl.Binary(decl.OpAdd, decl.IntLit(1), decl.StringLit("x")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	v, err := in.Run(decl.Binary(decl.OpPow, decl.IntLit(2), decl.IntLit(10)))
	require.NoError(t, err)
	assert.Equal(t, core.IntVal(1024), v)
}

func TestTernaryLogic(t *testing.T) {
	in, _ := newTestInterpreter(t, 11)
	unknown := decl.TernaryLit(decl.TernaryUnknown)
	cases := []struct {
		expr decl.Expr
		want core.Value
	}{
		{decl.Binary(decl.OpAnd, unknown, decl.BoolLit(false)), core.TernaryVal(decl.TernaryFalse)},
		{decl.Binary(decl.OpAnd, unknown, decl.BoolLit(true)), core.TernaryVal(decl.TernaryUnknown)},
		{decl.Binary(decl.OpOr, unknown, decl.BoolLit(true)), core.TernaryVal(decl.TernaryTrue)},
		{decl.Binary(decl.OpAnd, decl.BoolLit(true), decl.BoolLit(false)), core.BoolVal(false)},
		{decl.Unary(decl.OpNot, unknown), core.TernaryVal(decl.TernaryUnknown)},
	}
	for _, c := range cases {
		v, err := in.Run(c.expr)
		require.NoError(t, err)
		assert.Equal(t, c.want, v, "%s", c.expr)
	}

	_, err := in.Run(decl.If(unknown, decl.IntLit(1), decl.IntLit(2)))
	assert.ErrorIs(t, err, ErrUnknownCondition)
}

func TestCompose(t *testing.T) {
	in, names := newTestInterpreter(t, 12)
	x := names.Intern("x")
	inc := decl.Lambda(call(names, "constant", decl.Binary(decl.OpAdd, decl.Var(x), decl.IntLit(1))), decl.PVar(x))
	double := decl.Lambda(decl.Binary(decl.OpMul, decl.Var(x), decl.IntLit(2)), decl.PVar(x))
	v, err := in.Run(decl.App(decl.Binary(decl.OpCompose, inc, double), decl.IntLit(3)))
	require.NoError(t, err)
	assert.Equal(t, core.IntVal(8), v)
}

func TestParallelIsReproducible(t *testing.T) {
	block := &decl.ParallelExpr{
		Count: decl.IntLit(64),
		Body:  decl.Bet(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)),
	}
	run := func(workers int) core.Value {
		in, _ := newTestInterpreter(t, 2024)
		in.MaxConcurrency = workers
		v, err := in.Run(block)
		require.NoError(t, err)
		return v
	}
	first := run(1)
	assert.Equal(t, 64, first.(*core.ListVal).Len())
	assert.Equal(t, first, run(8))

	in, _ := newTestInterpreter(t, 1)
	_, err := in.Run(&decl.ParallelExpr{Count: decl.IntLit(-1), Body: decl.IntLit(0)})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = in.Run(&decl.ParallelExpr{Count: decl.StringLit("many"), Body: decl.IntLit(0)})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	v, err := in.Run(&decl.ParallelExpr{Count: decl.IntLit(0), Body: decl.IntLit(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, v.(*core.ListVal).Len())
}

func TestUnsupportedForms(t *testing.T) {
	in, names := newTestInterpreter(t, 13)
	_, err := in.Run(&decl.ObserveExpr{Dist: decl.IntLit(1), Value: decl.IntLit(1)})
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = in.Run(&decl.InferExpr{Method: decl.InferMCMC, Model: decl.IntLit(1)})
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = in.Run(&decl.HoleExpr{Name: names.Intern("todo"), Named: true})
	assert.ErrorIs(t, err, ErrHole)
	assert.Contains(t, err.Error(), "?todo")

	_, err = in.Run(decl.Var(names.Intern("nowhere")))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestBuiltinsThroughInterpreter(t *testing.T) {
	in, names := newTestInterpreter(t, 14)
	x := names.Intern("x")
	nums := decl.List(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3), decl.IntLit(4))
	cases := []struct {
		expr decl.Expr
		want core.Value
	}{
		{call(names, "sum", nums), core.IntVal(10)},
		{call(names, "mean", nums), core.FloatVal(2.5)},
		{call(names, "length", nums), core.IntVal(4)},
		{call(names, "map", decl.Lambda(decl.Binary(decl.OpMul, decl.Var(x), decl.Var(x)), decl.PVar(x)), decl.List(decl.IntLit(2), decl.IntLit(3))),
			core.NewList(core.IntVal(4), core.IntVal(9))},
		{call(names, "to_int", decl.FloatLit(3.9)), core.IntVal(3)},
		{call(names, "to_string", decl.StringLit("raw")), core.StringVal("raw")},
		{call(names, "is_known", decl.TernaryLit(decl.TernaryUnknown)), core.BoolVal(false)},
		{call(names, "Some", decl.IntLit(1)), core.NewVariant("Some", core.IntVal(1))},
	}
	for _, c := range cases {
		v, err := in.Run(c.expr)
		require.NoError(t, err, "%s", c.expr)
		assert.Equal(t, c.want, v, "%s", c.expr)
	}

	v, err := in.Run(call(names, "exact_expectation", call(names, "bet_dist", decl.IntLit(0), decl.IntLit(3), decl.IntLit(6))))
	require.NoError(t, err)
	assert.InDelta(t, 3, float64(v.(core.FloatVal)), 1e-12)

	v, err = in.Run(call(names, "sample_n", call(names, "uniform", decl.FloatLit(0), decl.FloatLit(1)), decl.IntLit(25)))
	require.NoError(t, err)
	assert.Equal(t, 25, v.(*core.ListVal).Len())

	_, err = in.Run(call(names, "head", decl.List()))
	assert.ErrorIs(t, err, core.ErrEmpty)
	_, err = in.Run(call(names, "mean", decl.StringLit("nope")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNativesRegistry(t *testing.T) {
	n := DefaultNatives()
	assert.Greater(t, n.Len(), 40)
	names := n.Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "uniform")
	assert.Contains(t, names, "Some")

	err := n.Register(&core.NativeFunction{Name: "mean", Arity: 1, Fn: func([]core.Value) (core.Value, error) { return core.Unit, nil }})
	assert.ErrorIs(t, err, ErrDuplicateNative)
	assert.Error(t, n.Register(&core.NativeFunction{Name: "empty", Arity: 1}))

	fn, ok := n.Get("normal")
	require.True(t, ok)
	assert.Equal(t, 2, fn.Arity)
}

func TestNativeTypesCheck(t *testing.T) {
	names := decl.NewInterner()
	env := DefaultNatives().TypeEnv(names)

	ty, err := types.Check(names, call(names, "mean", decl.List(decl.IntLit(1), decl.IntLit(2))), env)
	require.NoError(t, err)
	assert.Equal(t, types.FloatType, ty)

	ty, err = types.Check(names, call(names, "Some", decl.IntLit(1)), env)
	require.NoError(t, err)
	assert.Equal(t, "Option[Int]", ty.String())

	ty, err = types.Check(names, call(names, "normal", decl.FloatLit(0), decl.FloatLit(1)), env)
	require.NoError(t, err)
	assert.Equal(t, "Dist[Float]", ty.String())

	_, err = types.Check(names, call(names, "length", decl.IntLit(1)), env)
	assert.Error(t, err)
}

func TestEvalModule(t *testing.T) {
	in, names := newTestInterpreter(t, 15)
	double, x := names.Intern("double"), names.Intern("x")
	mod := &decl.Module{Items: []decl.Item{
		&decl.LetItem{Name: double, Params: []decl.Pattern{decl.PVar(x)},
			Body: decl.Binary(decl.OpMul, decl.Var(x), decl.IntLit(2))},
		&decl.ExprItem{Expr: decl.App(decl.Var(double), decl.IntLit(21))},
	}}
	env, v, err := in.EvalModule(mod, in.Globals())
	require.NoError(t, err)
	assert.Equal(t, core.IntVal(42), v)
	fn, ok := env.Get(double)
	require.True(t, ok)
	assert.Equal(t, "double", fn.(*core.Closure).Name)
}

func TestRepeatedApplyReleasesFrames(t *testing.T) {
	in, names := newTestInterpreter(t, 16)
	x, y := names.Intern("x"), names.Intern("y")
	globalKeys := len(in.Globals().Keys())

	add, err := in.Run(decl.Lambda(decl.Binary(decl.OpAdd, decl.Var(x), decl.Var(y)), decl.PVar(x), decl.PVar(y)))
	require.NoError(t, err)

	var frames []weak.Pointer[ValueEnv]
	for i := range 1000 {
		partial, err := in.Apply(add, core.IntVal(i))
		require.NoError(t, err)
		frames = append(frames, weak.Make(partial.(*core.Closure).Env))

		v, err := in.Apply(partial, core.IntVal(1))
		require.NoError(t, err)
		require.Equal(t, core.IntVal(i+1), v)
	}
	goruntime.GC()

	live := 0
	for _, f := range frames {
		if f.Value() != nil {
			live++
		}
	}
	assert.Zero(t, live, "argument frames outlived their closures")
	assert.Len(t, in.Globals().Keys(), globalKeys)
	assert.Zero(t, in.Globals().Depth())
	goruntime.KeepAlive(add)
}

func TestFailedEvaluationIsLogged(t *testing.T) {
	logs, cleanup := core.CaptureLog(t, core.LogLevelWarn)
	defer cleanup()

	in, names := newTestInterpreter(t, 17)
	_, err := in.Run(decl.Binary(decl.OpDiv, decl.IntLit(1), decl.IntLit(0)))
	require.ErrorIs(t, err, ErrDivisionByZero)
	core.AssertLogContains(t, logs.String(), "[WARN] [run "+in.RunID[:8]+"] evaluation failed")

	bad := names.Intern("bad")
	mod := &decl.Module{Items: []decl.Item{
		&decl.LetItem{Name: bad, Body: decl.Binary(decl.OpMod, decl.IntLit(1), decl.IntLit(0))},
	}}
	_, _, err = in.EvalModule(mod, in.Globals())
	require.Error(t, err)
	core.AssertLogContains(t, logs.String(), "binding bad failed")
}
