package decl

// Builders for trees constructed outside a parser: tests, the CLI and tools
// that synthesize programs.  All nodes get an empty span.

func IntLit(v int64) *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitInt, Int: v}}
}

func FloatLit(v float64) *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitFloat, Float: v}}
}

func StringLit(s string) *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitString, Str: s}}
}

func BoolLit(b bool) *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitBool, Bool: b}}
}

func TernaryLit(t TernaryValue) *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitTernary, Ternary: t}}
}

func UnitLit() *LiteralExpr {
	return &LiteralExpr{Value: Literal{Kind: LitUnit}}
}

func Var(name Symbol) *VarExpr {
	return &VarExpr{Name: name}
}

func Bet(a, b, c Expr) *BetExpr {
	return &BetExpr{Alternatives: [3]Expr{a, b, c}}
}

func WeightedBet(a, wa, b, wb, c, wc Expr) *WeightedBetExpr {
	return &WeightedBetExpr{Alternatives: [3]WeightedAlt{{a, wa}, {b, wb}, {c, wc}}}
}

func ConditionalBet(cond, ifTrue, a, b, c Expr) *ConditionalBetExpr {
	return &ConditionalBetExpr{Condition: cond, IfTrue: ifTrue, IfFalse: [3]Expr{a, b, c}}
}

func App(f Expr, args ...Expr) *AppExpr {
	return &AppExpr{Func: f, Args: args}
}

func Lambda(body Expr, params ...Pattern) *LambdaExpr {
	return &LambdaExpr{Params: params, Body: body}
}

func Let(p Pattern, value, body Expr) *LetExpr {
	return &LetExpr{Pattern: p, Value: value, Body: body}
}

func LetRec(name Symbol, value, body Expr) *LetExpr {
	return &LetExpr{Pattern: PVar(name), Value: value, Body: body, IsRec: true}
}

func If(cond, then, els Expr) *IfExpr {
	return &IfExpr{Condition: cond, Then: then, Else: els}
}

func Binary(op BinOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

func Unary(op UnOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand}
}

func List(elems ...Expr) *ListExpr {
	return &ListExpr{Elems: elems}
}

func Tuple(elems ...Expr) *TupleExpr {
	return &TupleExpr{Elems: elems}
}

func Sample(dist Expr) *SampleExpr {
	return &SampleExpr{Dist: dist}
}

func PVar(name Symbol) *VarPattern {
	return &VarPattern{Name: name}
}

func PWild() *WildcardPattern {
	return &WildcardPattern{}
}

func PLit(lit *LiteralExpr) *LiteralPattern {
	return &LiteralPattern{Value: lit.Value}
}

func TNamed(name Symbol) *NamedTypeExpr {
	return &NamedTypeExpr{Name: name}
}
