package decl

// TypeExpr is a type as written in source (annotations, type definitions).
// The checker resolves these into semantic types.
type TypeExpr interface {
	Node
	typeNode()
}

type TypeExprBase struct{ NodeInfo }

func (*TypeExprBase) typeNode() {}

type NamedTypeExpr struct {
	TypeExprBase
	Name Symbol
}

func (n *NamedTypeExpr) String() string             { return Render(nil, n) }
func (n *NamedTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print(cp.Name(n.Name)) }

type VarTypeExpr struct {
	TypeExprBase
	Name Symbol
}

func (v *VarTypeExpr) String() string             { return Render(nil, v) }
func (v *VarTypeExpr) PrettyPrint(cp CodePrinter) { cp.Printf("'%s", cp.Name(v.Name)) }

// AppTypeExpr applies a type constructor, e.g. List Int or Map String Float.
type AppTypeExpr struct {
	TypeExprBase
	Func TypeExpr
	Args []TypeExpr
}

func (a *AppTypeExpr) String() string { return Render(nil, a) }

func (a *AppTypeExpr) PrettyPrint(cp CodePrinter) {
	a.Func.PrettyPrint(cp)
	for _, arg := range a.Args {
		cp.Print(" ")
		arg.PrettyPrint(cp)
	}
}

type ArrowTypeExpr struct {
	TypeExprBase
	From TypeExpr
	To   TypeExpr
}

func (a *ArrowTypeExpr) String() string { return Render(nil, a) }

func (a *ArrowTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	a.From.PrettyPrint(cp)
	cp.Print(" -> ")
	a.To.PrettyPrint(cp)
	cp.Print(")")
}

type TupleTypeExpr struct {
	TypeExprBase
	Elems []TypeExpr
}

func (t *TupleTypeExpr) String() string { return Render(nil, t) }

func (t *TupleTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	printList(cp, t.Elems, ", ")
	cp.Print(")")
}

type RecordTypeField struct {
	Name Symbol
	Type TypeExpr
}

type RecordTypeExpr struct {
	TypeExprBase
	Fields []RecordTypeField
}

func (r *RecordTypeExpr) String() string { return Render(nil, r) }

func (r *RecordTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("{")
	for i, f := range r.Fields {
		if i > 0 {
			cp.Print(", ")
		}
		cp.Printf("%s: ", cp.Name(f.Name))
		f.Type.PrettyPrint(cp)
	}
	cp.Print("}")
}

type DistTypeExpr struct {
	TypeExprBase
	Elem TypeExpr
}

func (d *DistTypeExpr) String() string { return Render(nil, d) }

func (d *DistTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("Dist ")
	d.Elem.PrettyPrint(cp)
}

// ProbTypeExpr is a refinement `Prob p T`: a T that holds with probability p.
type ProbTypeExpr struct {
	TypeExprBase
	Prob Expr
	Elem TypeExpr
}

func (p *ProbTypeExpr) String() string { return Render(nil, p) }

func (p *ProbTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("Prob(")
	p.Prob.PrettyPrint(cp)
	cp.Print(") ")
	p.Elem.PrettyPrint(cp)
}

type TernaryTypeExpr struct{ TypeExprBase }

func (t *TernaryTypeExpr) String() string             { return "Ternary" }
func (t *TernaryTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print("Ternary") }

type HoleTypeExpr struct{ TypeExprBase }

func (h *HoleTypeExpr) String() string             { return "_" }
func (h *HoleTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print("_") }

type ErrorTypeExpr struct{ TypeExprBase }

func (e *ErrorTypeExpr) String() string             { return "<error>" }
func (e *ErrorTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print("<error>") }
