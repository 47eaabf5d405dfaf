package decl

// Pattern destructures a value in let, lambda, do and match bindings.
type Pattern interface {
	Node
	patternNode()
}

type PatternBase struct{ NodeInfo }

func (*PatternBase) patternNode() {}

type WildcardPattern struct{ PatternBase }

func (w *WildcardPattern) String() string             { return "_" }
func (w *WildcardPattern) PrettyPrint(cp CodePrinter) { cp.Print("_") }

type VarPattern struct {
	PatternBase
	Name Symbol
}

func (v *VarPattern) String() string             { return Render(nil, v) }
func (v *VarPattern) PrettyPrint(cp CodePrinter) { cp.Print(cp.Name(v.Name)) }

type LiteralPattern struct {
	PatternBase
	Value Literal
}

func (l *LiteralPattern) String() string             { return l.Value.String() }
func (l *LiteralPattern) PrettyPrint(cp CodePrinter) { cp.Print(l.Value.String()) }

type TuplePattern struct {
	PatternBase
	Elems []Pattern
}

func (t *TuplePattern) String() string { return Render(nil, t) }

func (t *TuplePattern) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	printList(cp, t.Elems, ", ")
	cp.Print(")")
}

// ListPattern matches a list prefix; Rest, when set, binds the remainder.
type ListPattern struct {
	PatternBase
	Elems []Pattern
	Rest  Pattern
}

func (l *ListPattern) String() string { return Render(nil, l) }

func (l *ListPattern) PrettyPrint(cp CodePrinter) {
	cp.Print("[")
	printList(cp, l.Elems, ", ")
	if l.Rest != nil {
		if len(l.Elems) > 0 {
			cp.Print(", ")
		}
		cp.Print("..")
		l.Rest.PrettyPrint(cp)
	}
	cp.Print("]")
}

// ConstructorPattern matches tagged values such as Some(x), Ok(v) or Err(e).
type ConstructorPattern struct {
	PatternBase
	Name Symbol
	Args []Pattern
}

func (c *ConstructorPattern) String() string { return Render(nil, c) }

func (c *ConstructorPattern) PrettyPrint(cp CodePrinter) {
	cp.Print(cp.Name(c.Name))
	if len(c.Args) > 0 {
		cp.Print("(")
		printList(cp, c.Args, ", ")
		cp.Print(")")
	}
}

// RecordFieldPattern matches one field; a nil Pattern binds the field name itself.
type RecordFieldPattern struct {
	Name    Symbol
	Pattern Pattern
}

type RecordPattern struct {
	PatternBase
	Fields []RecordFieldPattern
}

func (r *RecordPattern) String() string { return Render(nil, r) }

func (r *RecordPattern) PrettyPrint(cp CodePrinter) {
	cp.Print("{")
	for i, f := range r.Fields {
		if i > 0 {
			cp.Print(", ")
		}
		cp.Print(cp.Name(f.Name))
		if f.Pattern != nil {
			cp.Print(" = ")
			f.Pattern.PrettyPrint(cp)
		}
	}
	cp.Print("}")
}

// AsPattern binds the whole value to Name when Pattern matches.
type AsPattern struct {
	PatternBase
	Pattern Pattern
	Name    Symbol
}

func (a *AsPattern) String() string { return Render(nil, a) }

func (a *AsPattern) PrettyPrint(cp CodePrinter) {
	a.Pattern.PrettyPrint(cp)
	cp.Printf(" as %s", cp.Name(a.Name))
}

// OrPattern matches if any of its three alternatives does.
type OrPattern struct {
	PatternBase
	Alternatives [3]Pattern
}

func (o *OrPattern) String() string { return Render(nil, o) }

func (o *OrPattern) PrettyPrint(cp CodePrinter) {
	printList(cp, o.Alternatives[:], " | ")
}

type AnnotatePattern struct {
	PatternBase
	Pattern Pattern
	Type    TypeExpr
}

func (a *AnnotatePattern) String() string { return Render(nil, a) }

func (a *AnnotatePattern) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	a.Pattern.PrettyPrint(cp)
	cp.Print(" : ")
	a.Type.PrettyPrint(cp)
	cp.Print(")")
}
