package decl

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRenderExpressions(t *testing.T) {
	in := NewInterner()
	x, f := in.Intern("x"), in.Intern("f")

	bet := Bet(IntLit(1), IntLit(2), IntLit(3))
	assert.Equal(t, Render(in, bet), "bet { 1, 2, 3 }")

	w := WeightedBet(StringLit("a"), FloatLit(1), StringLit("b"), FloatLit(2.5), StringLit("c"), IntLit(3))
	assert.Equal(t, Render(in, w), `bet { "a" @ 1.0, "b" @ 2.5, "c" @ 3 }`)

	let := Let(PVar(x), IntLit(41), Binary(OpAdd, Var(x), IntLit(1)))
	assert.Equal(t, Render(in, let), "let x = 41 in (x + 1)")

	app := App(Lambda(Var(x), PVar(x)), TernaryLit(TernaryUnknown))
	assert.Equal(t, Render(in, app), "fun x -> x(unknown)")

	cb := ConditionalBet(BoolLit(true), Var(f), UnitLit(), UnitLit(), UnitLit())
	assert.Equal(t, Render(in, cb), "bet if true then f else { (), (), () }")

	assert.Equal(t, Render(nil, Var(x)), "#0")
}

func TestRenderBlocks(t *testing.T) {
	in := NewInterner()
	d, x := in.Intern("d"), in.Intern("x")

	do := &DoExpr{Stmts: []*DoStmt{
		{Kind: StmtBind, Pattern: PVar(x), Expr: Var(d)},
		{Kind: StmtExpr, Expr: Binary(OpMul, Var(x), IntLit(2))},
	}}
	assert.Equal(t, Render(in, do), "do {\n  x <- d\n  (x * 2)\n}")

	m := &MatchExpr{
		Scrutinee: Var(x),
		Arms: []MatchArm{
			{Pattern: PLit(IntLit(0)), Body: StringLit("zero")},
			{Pattern: PWild(), Guard: Binary(OpGt, Var(x), IntLit(0)), Body: StringLit("pos")},
		},
	}
	assert.Equal(t, Render(in, m), "match x {\n  | 0 -> \"zero\"\n  | _ if (x > 0) -> \"pos\"\n}")
}

func TestRenderModule(t *testing.T) {
	in := NewInterner()
	name, coin := in.Intern("demo"), in.Intern("coin")
	mod := &Module{
		Name: &name,
		Items: []Item{
			&LetItem{Name: coin, Body: Bet(TernaryLit(TernaryTrue), TernaryLit(TernaryFalse), TernaryLit(TernaryUnknown))},
			&ExprItem{Expr: Sample(Var(coin))},
		},
	}
	assert.Equal(t, Render(in, mod), "module demo\nlet coin = bet { true, false, unknown }\nsample coin")
}
