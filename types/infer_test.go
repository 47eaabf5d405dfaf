package types

import (
	"errors"
	"testing"

	"github.com/hyperpolymath/betlang/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkExpr(t *testing.T, names *decl.Interner, e decl.Expr) (*Type, error) {
	t.Helper()
	return Check(names, e, NewTypeEnv())
}

func TestBetUniformAlternatives(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.Bet(decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)))
	require.NoError(t, err)
	assert.Equal(t, "Int", ty.String())
}

func TestBetMismatchedAlternatives(t *testing.T) {
	names := decl.NewInterner()
	_, err := checkExpr(t, names, decl.Bet(decl.IntLit(1), decl.IntLit(2), decl.StringLit("x")))
	require.Error(t, err)

	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, TypeMismatch, te.Kind)
	assert.Equal(t, "Int", te.Expected)
	assert.Equal(t, "String", te.Found)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestCheckAlternativesArity(t *testing.T) {
	names := decl.NewInterner()
	c := NewChecker(names)
	_, err := c.CheckAlternatives([]decl.Expr{decl.IntLit(1), decl.IntLit(2)}, NewTypeEnv(), nil)
	assert.ErrorIs(t, err, ErrInvalidBet)
	assert.Equal(t, "invalid ternary bet: must have exactly 3 alternatives", err.Error())

	_, err = c.CheckAlternatives([]decl.Expr{decl.IntLit(1), nil, decl.IntLit(2)}, NewTypeEnv(), nil)
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestUndefinedVariable(t *testing.T) {
	names := decl.NewInterner()
	_, err := checkExpr(t, names, decl.Var(names.Intern("missing")))
	assert.ErrorIs(t, err, ErrUndefinedVariable)
	assert.Contains(t, err.Error(), "undefined variable: missing")
}

func TestWeightedBet(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.WeightedBet(
		decl.StringLit("a"), decl.IntLit(1),
		decl.StringLit("b"), decl.FloatLit(2.5),
		decl.StringLit("c"), decl.IntLit(3)))
	require.NoError(t, err)
	assert.Equal(t, StrType, ty)

	_, err = checkExpr(t, names, decl.WeightedBet(
		decl.IntLit(1), decl.StringLit("heavy"),
		decl.IntLit(2), decl.IntLit(1),
		decl.IntLit(3), decl.IntLit(1)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestConditionalBet(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.ConditionalBet(
		decl.TernaryLit(decl.TernaryUnknown),
		decl.IntLit(0), decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)))
	require.NoError(t, err)
	assert.Equal(t, IntType, ty)

	_, err = checkExpr(t, names, decl.ConditionalBet(
		decl.IntLit(1),
		decl.IntLit(0), decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = checkExpr(t, names, decl.ConditionalBet(
		decl.BoolLit(true),
		decl.StringLit("t"), decl.IntLit(1), decl.IntLit(2), decl.IntLit(3)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestLambdaApplication(t *testing.T) {
	names := decl.NewInterner()
	x := names.Intern("x")
	double := decl.Lambda(decl.Binary(decl.OpMul, decl.Var(x), decl.IntLit(2)), decl.PVar(x))

	ty, err := checkExpr(t, names, double)
	require.NoError(t, err)
	assert.Equal(t, "Int -> Int", ty.String())

	ty, err = checkExpr(t, names, decl.App(double, decl.IntLit(21)))
	require.NoError(t, err)
	assert.Equal(t, IntType, ty)

	_, err = checkExpr(t, names, decl.App(double, decl.StringLit("no")))
	assert.ErrorIs(t, err, ErrUnification)
}

func TestLetGeneralizesFunctions(t *testing.T) {
	names := decl.NewInterner()
	id, x := names.Intern("id"), names.Intern("x")
	prog := decl.Let(decl.PVar(id), decl.Lambda(decl.Var(x), decl.PVar(x)),
		decl.Tuple(
			decl.App(decl.Var(id), decl.IntLit(1)),
			decl.App(decl.Var(id), decl.StringLit("s"))))

	ty, err := checkExpr(t, names, prog)
	require.NoError(t, err)
	assert.Equal(t, "Tuple(Int, String)", ty.String())
}

func TestLetRec(t *testing.T) {
	names := decl.NewInterner()
	fact, n := names.Intern("fact"), names.Intern("n")
	body := decl.If(
		decl.Binary(decl.OpLe, decl.Var(n), decl.IntLit(1)),
		decl.IntLit(1),
		decl.Binary(decl.OpMul, decl.Var(n),
			decl.App(decl.Var(fact), decl.Binary(decl.OpSub, decl.Var(n), decl.IntLit(1)))))
	prog := decl.LetRec(fact, decl.Lambda(body, decl.PVar(n)), decl.App(decl.Var(fact), decl.IntLit(5)))

	ty, err := checkExpr(t, names, prog)
	require.NoError(t, err)
	assert.Equal(t, IntType, ty)
}

func TestArithmeticPromotion(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.Binary(decl.OpAdd, decl.IntLit(1), decl.FloatLit(0.5)))
	require.NoError(t, err)
	assert.Equal(t, FloatType, ty)

	_, err = checkExpr(t, names, decl.Binary(decl.OpAdd, decl.IntLit(1), decl.StringLit("1")))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestTernaryLogic(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.Binary(decl.OpAnd, decl.BoolLit(true), decl.TernaryLit(decl.TernaryUnknown)))
	require.NoError(t, err)
	assert.Equal(t, TernaryType, ty)

	ty, err = checkExpr(t, names, decl.Unary(decl.OpNot, decl.BoolLit(false)))
	require.NoError(t, err)
	assert.Equal(t, BoolType, ty)
}

func TestListsAndSampling(t *testing.T) {
	names := decl.NewInterner()
	ty, err := checkExpr(t, names, decl.List(decl.IntLit(1), decl.IntLit(2)))
	require.NoError(t, err)
	assert.Equal(t, "List[Int]", ty.String())

	_, err = checkExpr(t, names, decl.List(decl.IntLit(1), decl.BoolLit(true)))
	assert.ErrorIs(t, err, ErrUnification)

	d := names.Intern("d")
	env := NewTypeEnv().Bind(d, DistType(FloatType))
	ty, err = Check(names, decl.Sample(decl.Var(d)), env)
	require.NoError(t, err)
	assert.Equal(t, FloatType, ty)

	_, err = checkExpr(t, names, decl.Sample(decl.IntLit(3)))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDoBindUnwrapsDistributions(t *testing.T) {
	names := decl.NewInterner()
	d, x := names.Intern("d"), names.Intern("x")
	env := NewTypeEnv().Bind(d, DistType(IntType))
	do := &decl.DoExpr{Stmts: []*decl.DoStmt{
		{Kind: decl.StmtBind, Pattern: decl.PVar(x), Expr: decl.Var(d)},
		{Kind: decl.StmtExpr, Expr: decl.Binary(decl.OpAdd, decl.Var(x), decl.IntLit(1))},
	}}
	ty, err := Check(names, do, env)
	require.NoError(t, err)
	assert.Equal(t, IntType, ty)
}

func TestMatchArmsAgree(t *testing.T) {
	names := decl.NewInterner()
	some, v := names.Intern("Some"), names.Intern("v")
	o := names.Intern("o")
	env := NewTypeEnv().Bind(o, OptionType(IntType))
	m := &decl.MatchExpr{
		Scrutinee: decl.Var(o),
		Arms: []decl.MatchArm{
			{Pattern: &decl.ConstructorPattern{Name: some, Args: []decl.Pattern{decl.PVar(v)}}, Body: decl.Var(v)},
			{Pattern: decl.PWild(), Body: decl.IntLit(0)},
		},
	}
	ty, err := Check(names, m, env)
	require.NoError(t, err)
	assert.Equal(t, IntType, ty)

	m.Arms[1].Body = decl.StringLit("none")
	_, err = Check(names, m, env)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAnnotationMismatch(t *testing.T) {
	names := decl.NewInterner()
	x := names.Intern("x")
	let := decl.Let(decl.PVar(x), decl.StringLit("s"), decl.Var(x))
	let.TypeAnn = decl.TNamed(names.Intern("Int"))
	_, err := checkExpr(t, names, let)

	var te *TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Int", te.Expected)
	assert.Equal(t, "String", te.Found)
}

func TestCheckModule(t *testing.T) {
	names := decl.NewInterner()
	inc, n := names.Intern("inc"), names.Intern("n")
	mod := &decl.Module{Items: []decl.Item{
		&decl.LetItem{
			Name:   inc,
			Params: []decl.Pattern{decl.PVar(n)},
			Body:   decl.Binary(decl.OpAdd, decl.Var(n), decl.IntLit(1)),
		},
		&decl.ExprItem{Expr: decl.App(decl.Var(inc), decl.IntLit(41))},
	}}
	env, last, err := NewChecker(names).CheckModule(mod, NewTypeEnv())
	require.NoError(t, err)
	assert.Equal(t, IntType, last)
	incType, ok := env.Get(inc)
	require.True(t, ok)
	assert.Equal(t, "Int -> Int", incType.String())
}

func TestCompose(t *testing.T) {
	names := decl.NewInterner()
	f, g := names.Intern("f"), names.Intern("g")
	env := NewTypeEnv().
		Bind(f, FunType(IntType, DistType(FloatType))).
		Bind(g, FunType(FloatType, StrType))
	ty, err := Check(names, decl.Binary(decl.OpCompose, decl.Var(f), decl.Var(g)), env)
	require.NoError(t, err)
	assert.Equal(t, "Int -> String", ty.String())
}
