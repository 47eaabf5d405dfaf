package decl

import (
	"strconv"
)

// --- Interfaces ---

// Node represents any node in the Abstract Syntax Tree.  Nodes are built once
// by the parser and never mutated afterwards; transformations build new trees.
type Node interface {
	Pos() uint32 // Starting byte offset (for error reporting)
	End() uint32 // Ending byte offset
	Span() Span
	String() string // String representation for debugging/printing
	PrettyPrint(cp CodePrinter)
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ Loc Span }

func (n *NodeInfo) Pos() uint32 { return n.Loc.Start }
func (n *NodeInfo) End() uint32 { return n.Loc.End }
func (n *NodeInfo) Span() Span  { return n.Loc }

// --- Literals ---

type LiteralKind int

const (
	LitUnit LiteralKind = iota
	LitBool
	LitTernary
	LitInt
	LitFloat
	LitString
)

// Literal is a constant shared by literal expressions and literal patterns.
type Literal struct {
	Kind    LiteralKind
	Int     int64
	Float   float64
	Str     string
	Bool    bool
	Ternary TernaryValue
}

func (l Literal) String() string {
	switch l.Kind {
	case LitUnit:
		return "()"
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitTernary:
		return l.Ternary.String()
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		s := strconv.FormatFloat(l.Float, 'g', -1, 64)
		for _, c := range s {
			if c == '.' || c == 'e' || c == 'n' || c == 'I' {
				return s
			}
		}
		return s + ".0"
	case LitString:
		return strconv.Quote(l.Str)
	}
	return "<literal?>"
}

// --- Top Level declarations ---

// Module is the root of a parsed source file.
type Module struct {
	NodeInfo
	Name  *Symbol
	Items []Item
}

func (m *Module) String() string { return Render(nil, m) }

func (m *Module) PrettyPrint(cp CodePrinter) {
	if m.Name != nil {
		cp.Printf("module %s\n", cp.Name(*m.Name))
	}
	for _, item := range m.Items {
		item.PrettyPrint(cp)
		cp.Println("")
	}
}

// Item is a top-level module entry.
type Item interface {
	Node
	itemNode()
}

type ItemBase struct{ NodeInfo }

func (*ItemBase) itemNode() {}

// LetItem is a top level `let [rec] name params [: T] = body`.
type LetItem struct {
	ItemBase
	Name    Symbol
	Params  []Pattern
	TypeAnn TypeExpr
	Body    Expr
	IsRec   bool
}

func (l *LetItem) String() string { return Render(nil, l) }

func (l *LetItem) PrettyPrint(cp CodePrinter) {
	cp.Print("let ")
	if l.IsRec {
		cp.Print("rec ")
	}
	cp.Print(cp.Name(l.Name))
	for _, p := range l.Params {
		cp.Print(" ")
		p.PrettyPrint(cp)
	}
	if l.TypeAnn != nil {
		cp.Print(" : ")
		l.TypeAnn.PrettyPrint(cp)
	}
	cp.Print(" = ")
	l.Body.PrettyPrint(cp)
}

// TypeDefItem is `type Name params = body`.
type TypeDefItem struct {
	ItemBase
	Name   Symbol
	Params []Symbol
	Body   TypeExpr
}

func (t *TypeDefItem) String() string { return Render(nil, t) }

func (t *TypeDefItem) PrettyPrint(cp CodePrinter) {
	cp.Printf("type %s", cp.Name(t.Name))
	for _, p := range t.Params {
		cp.Printf(" %s", cp.Name(p))
	}
	cp.Print(" = ")
	t.Body.PrettyPrint(cp)
}

// ImportItem is `import a.b.c` or `import a.b (x, y)`.  A nil Names imports everything.
type ImportItem struct {
	ItemBase
	Path  []Symbol
	Names []Symbol
}

func (i *ImportItem) String() string { return Render(nil, i) }

func (i *ImportItem) PrettyPrint(cp CodePrinter) {
	cp.Print("import ")
	for idx, p := range i.Path {
		if idx > 0 {
			cp.Print(".")
		}
		cp.Print(cp.Name(p))
	}
	if i.Names != nil {
		cp.Print(" (")
		for idx, n := range i.Names {
			if idx > 0 {
				cp.Print(", ")
			}
			cp.Print(cp.Name(n))
		}
		cp.Print(")")
	}
}

// ExprItem is a bare expression evaluated for its value.
type ExprItem struct {
	ItemBase
	Expr Expr
}

func (e *ExprItem) String() string             { return Render(nil, e) }
func (e *ExprItem) PrettyPrint(cp CodePrinter) { e.Expr.PrettyPrint(cp) }
