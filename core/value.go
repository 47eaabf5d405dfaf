package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/types"
	gfn "github.com/panyam/goutils/fn"
)

type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindTernary
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindSet
	KindTuple
	KindClosure
	KindDist
	KindNative
	KindError
	KindFile
	KindVariant
)

var kindNames = [...]string{
	KindUnit: "Unit", KindBool: "Bool", KindTernary: "Ternary", KindInt: "Int",
	KindFloat: "Float", KindString: "String", KindBytes: "Bytes", KindList: "List",
	KindMap: "Map", KindSet: "Set", KindTuple: "Tuple", KindClosure: "Closure",
	KindDist: "Distribution", KindNative: "NativeFunction", KindError: "Error",
	KindFile: "File", KindVariant: "Variant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a runtime value.  The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	value()
}

type (
	UnitVal    struct{}
	BoolVal    bool
	TernaryVal decl.TernaryValue
	IntVal     int64
	FloatVal   float64
	StringVal  string
	BytesVal   string
	ErrorVal   struct{ Message string }
)

var Unit Value = UnitVal{}

func (UnitVal) Kind() Kind    { return KindUnit }
func (BoolVal) Kind() Kind    { return KindBool }
func (TernaryVal) Kind() Kind { return KindTernary }
func (IntVal) Kind() Kind     { return KindInt }
func (FloatVal) Kind() Kind   { return KindFloat }
func (StringVal) Kind() Kind  { return KindString }
func (BytesVal) Kind() Kind   { return KindBytes }
func (ErrorVal) Kind() Kind   { return KindError }

func (UnitVal) value()    {}
func (BoolVal) value()    {}
func (TernaryVal) value() {}
func (IntVal) value()     {}
func (FloatVal) value()   {}
func (StringVal) value()  {}
func (BytesVal) value()   {}
func (ErrorVal) value()   {}

func (UnitVal) String() string      { return "()" }
func (b BoolVal) String() string    { return strconv.FormatBool(bool(b)) }
func (t TernaryVal) String() string { return decl.TernaryValue(t).String() }
func (i IntVal) String() string     { return strconv.FormatInt(int64(i), 10) }
func (s StringVal) String() string  { return strconv.Quote(string(s)) }
func (b BytesVal) String() string   { return fmt.Sprintf("b%q", string(b)) }
func (e ErrorVal) String() string   { return "error(" + strconv.Quote(e.Message) + ")" }

func (f FloatVal) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (t TernaryVal) Ternary() decl.TernaryValue { return decl.TernaryValue(t) }

// Bytes returns a copy; the value itself is immutable.
func (b BytesVal) Bytes() []byte { return []byte(b) }

// ListVal is an immutable sequence.  Operations that change a list return a
// new one.
type ListVal struct{ Elems []Value }

func NewList(elems ...Value) *ListVal { return &ListVal{Elems: elems} }

func (*ListVal) Kind() Kind { return KindList }
func (*ListVal) value()     {}
func (l *ListVal) Len() int { return len(l.Elems) }
func (l *ListVal) String() string {
	return "[" + joinValues(l.Elems) + "]"
}

// Append returns a new list with vs after the current elements.
func (l *ListVal) Append(vs ...Value) *ListVal {
	out := make([]Value, 0, len(l.Elems)+len(vs))
	return &ListVal{Elems: append(append(out, l.Elems...), vs...)}
}

type TupleVal struct{ Elems []Value }

func NewTuple(elems ...Value) *TupleVal { return &TupleVal{Elems: elems} }

func (*TupleVal) Kind() Kind { return KindTuple }
func (*TupleVal) value()     {}
func (t *TupleVal) String() string {
	return "(" + joinValues(t.Elems) + ")"
}

// MapVal maps string keys to values.  Keys are iterated in sorted order.
type MapVal struct {
	entries map[string]Value
}

func NewMap(entries map[string]Value) *MapVal {
	cp := make(map[string]Value, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return &MapVal{entries: cp}
}

func (*MapVal) Kind() Kind { return KindMap }
func (*MapVal) value()     {}
func (m *MapVal) Len() int { return len(m.entries) }

func (m *MapVal) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *MapVal) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// With returns a copy of m with key set to v.
func (m *MapVal) With(key string, v Value) *MapVal {
	out := NewMap(m.entries)
	out.entries[key] = v
	return out
}

func (m *MapVal) String() string {
	parts := gfn.Map(m.Keys(), func(k string) string {
		return fmt.Sprintf("%s: %s", k, m.entries[k])
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// SetVal holds distinct values in insertion order.
type SetVal struct {
	elems []Value
	index map[string]int
}

func NewSet(elems ...Value) *SetVal {
	s := &SetVal{index: map[string]int{}}
	for _, e := range elems {
		s.add(e)
	}
	return s
}

func (s *SetVal) add(v Value) {
	k := keyOf(v)
	if _, ok := s.index[k]; ok {
		return
	}
	s.index[k] = len(s.elems)
	s.elems = append(s.elems, v)
}

func (*SetVal) Kind() Kind       { return KindSet }
func (*SetVal) value()           {}
func (s *SetVal) Len() int       { return len(s.elems) }
func (s *SetVal) Elems() []Value { return slices.Clone(s.elems) }
func (s *SetVal) String() string { return "#{" + joinValues(s.elems) + "}" }

func (s *SetVal) Has(v Value) bool {
	_, ok := s.index[keyOf(v)]
	return ok
}

// keyOf is a canonical identity string used for set membership.
func keyOf(v Value) string {
	return v.Kind().String() + ":" + v.String()
}

// Closure is a user function.  Params are consumed one argument at a time;
// Env is the defining scope extended with any arguments already applied.
type Closure struct {
	Name   string
	Params []decl.Pattern
	Body   decl.Expr
	Env    *decl.Env[Value]
}

func (*Closure) Kind() Kind { return KindClosure }
func (*Closure) value()     {}
func (c *Closure) String() string {
	if c.Name != "" {
		return fmt.Sprintf("<closure %s/%d>", c.Name, len(c.Params))
	}
	return fmt.Sprintf("<closure/%d>", len(c.Params))
}

// Caller is the part of the evaluator a builtin may use: the generator of
// the current evaluation, and application of user functions.
type Caller interface {
	RNG() *RNG
	Apply(fn Value, args ...Value) (Value, error)
}

// NativeFunction is a builtin implemented in Go.  Pure builtins set Fn;
// builtins that draw random numbers or call back into user functions set
// Call instead.  Bound holds arguments supplied by partial application.
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
	Call  func(c Caller, args []Value) (Value, error)
	Type  *types.Type
	Bound []Value
}

func (*NativeFunction) Kind() Kind { return KindNative }
func (*NativeFunction) value()     {}
func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native %s/%d>", n.Name, n.Arity-len(n.Bound))
}

// Apply adds args to the bound arguments.  It runs the builtin once the
// arity is reached and otherwise returns the partially applied function.
// Extra arguments are applied to the result.
func (n *NativeFunction) Apply(c Caller, args []Value) (Value, error) {
	all := append(slices.Clone(n.Bound), args...)
	if len(all) < n.Arity {
		out := *n
		out.Bound = all
		return &out, nil
	}
	var out Value
	var err error
	if n.Call != nil {
		out, err = n.Call(c, all[:n.Arity])
	} else {
		out, err = n.Fn(all[:n.Arity])
	}
	if err != nil {
		return nil, err
	}
	if rest := all[n.Arity:]; len(rest) > 0 {
		if c == nil {
			next, ok := out.(*NativeFunction)
			if !ok {
				return nil, fmt.Errorf("%s: too many arguments: %w", n.Name, ErrNotCallable)
			}
			return next.Apply(nil, rest)
		}
		return c.Apply(out, rest...)
	}
	return out, nil
}

// FileVal is an opened path.  Reading and writing go through builtins.
type FileVal struct {
	Path string
	Mode string
}

func (*FileVal) Kind() Kind       { return KindFile }
func (*FileVal) value()           {}
func (f *FileVal) String() string { return fmt.Sprintf("<file %s (%s)>", f.Path, f.Mode) }

// VariantVal is a tagged value: Some(x), None, Ok(x), Err(e), or a
// constructor of a user type.
type VariantVal struct {
	Tag  string
	Args []Value
}

func NewVariant(tag string, args ...Value) *VariantVal {
	return &VariantVal{Tag: tag, Args: args}
}

func (*VariantVal) Kind() Kind { return KindVariant }
func (*VariantVal) value()     {}
func (v *VariantVal) String() string {
	if len(v.Args) == 0 {
		return v.Tag
	}
	return v.Tag + "(" + joinValues(v.Args) + ")"
}

func joinValues(vs []Value) string {
	return strings.Join(gfn.Map(vs, func(v Value) string { return v.String() }), ", ")
}

// ToFloat converts Int and Float values.  ok is false for anything else.
func ToFloat(v Value) (f float64, ok bool) {
	switch v := v.(type) {
	case IntVal:
		return float64(v), true
	case FloatVal:
		return float64(v), true
	}
	return 0, false
}

// Numbers extracts the numeric values of vs, skipping everything else.
func Numbers(vs []Value) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if f, ok := ToFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Floats wraps each float as a Value.
func Floats(fs []float64) []Value {
	return gfn.Map(fs, func(f float64) Value { return FloatVal(f) })
}

// Truthy reports the truth of Bool and Ternary values.  known is false for
// Unknown; ok is false for other kinds.
func Truthy(v Value) (truth, known, ok bool) {
	switch v := v.(type) {
	case BoolVal:
		return bool(v), true, true
	case TernaryVal:
		truth, known = decl.TernaryValue(v).Bool()
		return truth, known, true
	}
	return false, false, false
}
