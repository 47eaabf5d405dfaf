package decl

import (
	"fmt"
	"strings"
)

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode() // Marker method for expressions
}

type ExprBase struct {
	NodeInfo
}

func (*ExprBase) exprNode() {}

// --- Operators ---

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
	OpConcat
	OpCons
	OpAppend
	OpCompose
)

var binOpText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "^",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpConcat: "<>", OpCons: "::", OpAppend: "++", OpCompose: ">>",
}

func (op BinOp) String() string {
	if int(op) < len(binOpText) {
		return binOpText[op]
	}
	return fmt.Sprintf("BinOp(%d)", int(op))
}

// IsArithmetic reports whether op is one of + - * / % ^.
func (op BinOp) IsArithmetic() bool { return op <= OpPow }

// IsComparison reports whether op is one of == != < <= > >=.
func (op BinOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsLogical reports whether op is and/or/xor.
func (op BinOp) IsLogical() bool { return op >= OpAnd && op <= OpXor }

type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpSample
)

func (op UnOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "not "
	case OpSample:
		return "sample "
	}
	return fmt.Sprintf("UnOp(%d)", int(op))
}

// InferMethod names an inference algorithm.  None of them are executed by the
// evaluator.
type InferMethod int

const (
	InferMCMC InferMethod = iota
	InferHMC
	InferSMC
	InferVI
	InferRejection
	InferImportance
)

func (m InferMethod) String() string {
	switch m {
	case InferMCMC:
		return "mcmc"
	case InferHMC:
		return "hmc"
	case InferSMC:
		return "smc"
	case InferVI:
		return "vi"
	case InferRejection:
		return "rejection"
	case InferImportance:
		return "importance"
	}
	return fmt.Sprintf("InferMethod(%d)", int(m))
}

// --- Expressions ---

// LiteralExpr is a constant.
type LiteralExpr struct {
	ExprBase
	Value Literal
}

func (l *LiteralExpr) String() string             { return Render(nil, l) }
func (l *LiteralExpr) PrettyPrint(cp CodePrinter) { cp.Print(l.Value.String()) }

// VarExpr references a binding by name.
type VarExpr struct {
	ExprBase
	Name Symbol
}

func (v *VarExpr) String() string             { return Render(nil, v) }
func (v *VarExpr) PrettyPrint(cp CodePrinter) { cp.Print(cp.Name(v.Name)) }

// BetExpr is the uniform ternary choice.  It always has exactly three
// alternatives.
type BetExpr struct {
	ExprBase
	Alternatives [3]Expr
}

func (b *BetExpr) String() string { return Render(nil, b) }

func (b *BetExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("bet { ")
	printList(cp, b.Alternatives[:], ", ")
	cp.Print(" }")
}

// WeightedAlt is one (value, weight) arm of a weighted bet.
type WeightedAlt struct {
	Value  Expr
	Weight Expr
}

// WeightedBetExpr chooses one of three values in proportion to their weights.
type WeightedBetExpr struct {
	ExprBase
	Alternatives [3]WeightedAlt
}

func (w *WeightedBetExpr) String() string { return Render(nil, w) }

func (w *WeightedBetExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("bet { ")
	for i, alt := range w.Alternatives {
		if i > 0 {
			cp.Print(", ")
		}
		alt.Value.PrettyPrint(cp)
		cp.Print(" @ ")
		alt.Weight.PrettyPrint(cp)
	}
	cp.Print(" }")
}

// ConditionalBetExpr yields IfTrue when Condition holds and otherwise bets
// uniformly among the three IfFalse alternatives.
type ConditionalBetExpr struct {
	ExprBase
	Condition Expr
	IfTrue    Expr
	IfFalse   [3]Expr
}

func (c *ConditionalBetExpr) String() string { return Render(nil, c) }

func (c *ConditionalBetExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("bet if ")
	c.Condition.PrettyPrint(cp)
	cp.Print(" then ")
	c.IfTrue.PrettyPrint(cp)
	cp.Print(" else { ")
	printList(cp, c.IfFalse[:], ", ")
	cp.Print(" }")
}

// AppExpr applies Func to Args.
type AppExpr struct {
	ExprBase
	Func Expr
	Args []Expr
}

func (a *AppExpr) String() string { return Render(nil, a) }

func (a *AppExpr) PrettyPrint(cp CodePrinter) {
	a.Func.PrettyPrint(cp)
	cp.Print("(")
	printList(cp, a.Args, ", ")
	cp.Print(")")
}

type LambdaExpr struct {
	ExprBase
	Params []Pattern
	Body   Expr
}

func (l *LambdaExpr) String() string { return Render(nil, l) }

func (l *LambdaExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("fun ")
	printList(cp, l.Params, " ")
	cp.Print(" -> ")
	l.Body.PrettyPrint(cp)
}

// LetExpr binds Value to Pattern within Body.
type LetExpr struct {
	ExprBase
	Pattern Pattern
	TypeAnn TypeExpr
	Value   Expr
	Body    Expr
	IsRec   bool
}

func (l *LetExpr) String() string { return Render(nil, l) }

func (l *LetExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("let ")
	if l.IsRec {
		cp.Print("rec ")
	}
	l.Pattern.PrettyPrint(cp)
	if l.TypeAnn != nil {
		cp.Print(" : ")
		l.TypeAnn.PrettyPrint(cp)
	}
	cp.Print(" = ")
	l.Value.PrettyPrint(cp)
	cp.Print(" in ")
	l.Body.PrettyPrint(cp)
}

type DoStmtKind int

const (
	StmtBind DoStmtKind = iota // p <- e
	StmtLet                    // let p = e
	StmtExpr                   // e
)

// DoStmt is one statement of a do block.  Pattern is nil for StmtExpr.
type DoStmt struct {
	NodeInfo
	Kind    DoStmtKind
	Pattern Pattern
	Expr    Expr
}

func (d *DoStmt) String() string { return Render(nil, d) }

func (d *DoStmt) PrettyPrint(cp CodePrinter) {
	switch d.Kind {
	case StmtBind:
		d.Pattern.PrettyPrint(cp)
		cp.Print(" <- ")
	case StmtLet:
		cp.Print("let ")
		d.Pattern.PrettyPrint(cp)
		cp.Print(" = ")
	}
	d.Expr.PrettyPrint(cp)
}

// DoExpr sequences statements monadically; its value is the last statement's.
type DoExpr struct {
	ExprBase
	Stmts []*DoStmt
}

func (d *DoExpr) String() string { return Render(nil, d) }

func (d *DoExpr) PrettyPrint(cp CodePrinter) {
	cp.Println("do {")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, s := range d.Stmts {
			s.PrettyPrint(cp)
			cp.Println("")
		}
	})
	cp.Print("}")
}

type IfExpr struct {
	ExprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

func (i *IfExpr) String() string { return Render(nil, i) }

func (i *IfExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("if ")
	i.Condition.PrettyPrint(cp)
	cp.Print(" then ")
	i.Then.PrettyPrint(cp)
	cp.Print(" else ")
	i.Else.PrettyPrint(cp)
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

type MatchExpr struct {
	ExprBase
	Scrutinee Expr
	Arms      []MatchArm
}

func (m *MatchExpr) String() string { return Render(nil, m) }

func (m *MatchExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("match ")
	m.Scrutinee.PrettyPrint(cp)
	cp.Println(" {")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, arm := range m.Arms {
			cp.Print("| ")
			arm.Pattern.PrettyPrint(cp)
			if arm.Guard != nil {
				cp.Print(" if ")
				arm.Guard.PrettyPrint(cp)
			}
			cp.Print(" -> ")
			arm.Body.PrettyPrint(cp)
			cp.Println("")
		}
	})
	cp.Print("}")
}

type TupleExpr struct {
	ExprBase
	Elems []Expr
}

func (t *TupleExpr) String() string { return Render(nil, t) }

func (t *TupleExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	printList(cp, t.Elems, ", ")
	if len(t.Elems) == 1 {
		cp.Print(",")
	}
	cp.Print(")")
}

type ListExpr struct {
	ExprBase
	Elems []Expr
}

func (l *ListExpr) String() string { return Render(nil, l) }

func (l *ListExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("[")
	printList(cp, l.Elems, ", ")
	cp.Print("]")
}

type RecordField struct {
	Name  Symbol
	Value Expr
}

type RecordExpr struct {
	ExprBase
	Fields []RecordField
}

func (r *RecordExpr) String() string { return Render(nil, r) }

func (r *RecordExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("{")
	for i, f := range r.Fields {
		if i > 0 {
			cp.Print(", ")
		}
		cp.Printf("%s = ", cp.Name(f.Name))
		f.Value.PrettyPrint(cp)
	}
	cp.Print("}")
}

// FieldExpr is `receiver.field`.
type FieldExpr struct {
	ExprBase
	Receiver Expr
	Field    Symbol
}

func (f *FieldExpr) String() string { return Render(nil, f) }

func (f *FieldExpr) PrettyPrint(cp CodePrinter) {
	f.Receiver.PrettyPrint(cp)
	cp.Printf(".%s", cp.Name(f.Field))
}

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	ExprBase
	Receiver Expr
	Index    Expr
}

func (i *IndexExpr) String() string { return Render(nil, i) }

func (i *IndexExpr) PrettyPrint(cp CodePrinter) {
	i.Receiver.PrettyPrint(cp)
	cp.Print("[")
	i.Index.PrettyPrint(cp)
	cp.Print("]")
}

// BinaryExpr represents `left operator right`
type BinaryExpr struct {
	ExprBase
	Op    BinOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) String() string { return Render(nil, b) }

func (b *BinaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	b.Left.PrettyPrint(cp)
	cp.Printf(" %s ", b.Op)
	b.Right.PrettyPrint(cp)
	cp.Print(")")
}

type UnaryExpr struct {
	ExprBase
	Op      UnOp
	Operand Expr
}

func (u *UnaryExpr) String() string { return Render(nil, u) }

func (u *UnaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Printf("(%s", u.Op)
	u.Operand.PrettyPrint(cp)
	cp.Print(")")
}

// SampleExpr draws one value from a distribution.
type SampleExpr struct {
	ExprBase
	Dist Expr
}

func (s *SampleExpr) String() string { return Render(nil, s) }

func (s *SampleExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("sample ")
	s.Dist.PrettyPrint(cp)
}

// ObserveExpr conditions a model on an observed value.
type ObserveExpr struct {
	ExprBase
	Dist  Expr
	Value Expr
}

func (o *ObserveExpr) String() string { return Render(nil, o) }

func (o *ObserveExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("observe(")
	o.Dist.PrettyPrint(cp)
	cp.Print(", ")
	o.Value.PrettyPrint(cp)
	cp.Print(")")
}

type InferParam struct {
	Name  Symbol
	Value Expr
}

type InferExpr struct {
	ExprBase
	Method InferMethod
	Params []InferParam
	Model  Expr
}

func (i *InferExpr) String() string { return Render(nil, i) }

func (i *InferExpr) PrettyPrint(cp CodePrinter) {
	cp.Printf("infer %s", i.Method)
	if len(i.Params) > 0 {
		cp.Print(" {")
		for idx, p := range i.Params {
			if idx > 0 {
				cp.Print(",")
			}
			cp.Printf(" %s = ", cp.Name(p.Name))
			p.Value.PrettyPrint(cp)
		}
		cp.Print(" }")
	}
	cp.Print(" (")
	i.Model.PrettyPrint(cp)
	cp.Print(")")
}

// ParallelExpr evaluates Body Count times concurrently and collects a list.
type ParallelExpr struct {
	ExprBase
	Count Expr
	Body  Expr
}

func (p *ParallelExpr) String() string { return Render(nil, p) }

func (p *ParallelExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("parallel ")
	p.Count.PrettyPrint(cp)
	cp.Print(" { ")
	p.Body.PrettyPrint(cp)
	cp.Print(" }")
}

type AnnotateExpr struct {
	ExprBase
	Expr Expr
	Type TypeExpr
}

func (a *AnnotateExpr) String() string { return Render(nil, a) }

func (a *AnnotateExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	a.Expr.PrettyPrint(cp)
	cp.Print(" : ")
	a.Type.PrettyPrint(cp)
	cp.Print(")")
}

// HoleExpr is a typed hole `?` or `?name`.
type HoleExpr struct {
	ExprBase
	Name  Symbol
	Named bool
}

func (h *HoleExpr) String() string { return Render(nil, h) }

func (h *HoleExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("?")
	if h.Named {
		cp.Print(cp.Name(h.Name))
	}
}

// ErrorExpr marks a region the parser recovered from.
type ErrorExpr struct {
	ExprBase
	Message string
}

func (e *ErrorExpr) String() string { return Render(nil, e) }

func (e *ErrorExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("<error")
	if e.Message != "" {
		cp.Printf(": %s", strings.TrimSpace(e.Message))
	}
	cp.Print(">")
}
