package decl

import (
	"fmt"
	"strings"
)

// CodePrinter accumulates surface syntax with indentation.  Symbols are
// rendered through the interner the printer was created with.
type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(fmt string, args ...any)
	Println(str string)
	Name(sym Symbol) string
	String() string
}

func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	names       *Interner
	indent      int
	col         int
	builder     strings.Builder
	linebuilder strings.Builder
}

func NewCodePrinter(names *Interner) CodePrinter {
	return &codePrinter{names: names}
}

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

func (c *codePrinter) Print(str string) {
	lines := strings.Split(str, "\n")
	for idx, l := range lines {
		if c.col == 0 && l != "" {
			// new line has started so add the indent string
			c.linebuilder.WriteString(c.IndentString())
		}
		c.linebuilder.WriteString(l)
		c.col += len(l)
		if idx < len(lines)-1 {
			c.col = 0
			c.builder.WriteString(c.linebuilder.String())
			c.builder.WriteRune('\n')
			c.linebuilder.Reset()
		}
	}
}

func (c *codePrinter) Println(str string) {
	c.Print(str + "\n")
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) Name(sym Symbol) string {
	return c.names.Resolve(sym)
}

func (c *codePrinter) IndentString() string {
	return strings.Repeat("  ", c.indent)
}

func (c *codePrinter) String() string {
	return c.builder.String() + c.linebuilder.String()
}

// Render pretty prints a node.  A nil interner renders symbols as "#<n>".
func Render(names *Interner, node Node) string {
	cp := NewCodePrinter(names)
	node.PrettyPrint(cp)
	return strings.TrimRight(cp.String(), "\n")
}

func printList[T Node](cp CodePrinter, items []T, sep string) {
	for i, item := range items {
		if i > 0 {
			cp.Print(sep)
		}
		item.PrettyPrint(cp)
	}
}
