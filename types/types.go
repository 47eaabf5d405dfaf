package types

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type TypeTag int

const (
	TypeTagUnit TypeTag = iota
	TypeTagBool
	TypeTagTernary
	TypeTagInt
	TypeTagFloat
	TypeTagString
	TypeTagBytes
	TypeTagFun
	TypeTagDist
	TypeTagList
	TypeTagMap
	TypeTagSet
	TypeTagTuple
	TypeTagOption
	TypeTagResult
	TypeTagVar
	TypeTagNamed
)

// Type is a semantic type.  Args carries the children:
//
//	Fun          [param, result]
//	Dist/List/Set/Option  [elem]
//	Map          [key, value]
//	Result       [ok, err]
//	Tuple        elements
//	Named        type arguments
//
// Var types use ID for inference placeholders; a Var with a Name is a
// quantified variable of a generalized binding.
type Type struct {
	Tag  TypeTag
	Args []*Type
	Name string
	ID   uint32
}

var (
	// Use singletons for basic types for efficiency
	UnitType    = &Type{Tag: TypeTagUnit}
	BoolType    = &Type{Tag: TypeTagBool}
	TernaryType = &Type{Tag: TypeTagTernary}
	IntType     = &Type{Tag: TypeTagInt}
	FloatType   = &Type{Tag: TypeTagFloat}
	StrType     = &Type{Tag: TypeTagString}
	BytesType   = &Type{Tag: TypeTagBytes}
)

// --- Type Factory Functions ---

func FunType(param, result *Type) *Type {
	if param == nil || result == nil {
		panic("Fun param and result types cannot be nil")
	}
	return &Type{Tag: TypeTagFun, Args: []*Type{param, result}}
}

// CurriedFunType builds p1 -> p2 -> ... -> result.
func CurriedFunType(result *Type, params ...*Type) *Type {
	out := result
	for i := len(params) - 1; i >= 0; i-- {
		out = FunType(params[i], out)
	}
	return out
}

func DistType(elem *Type) *Type   { return unary(TypeTagDist, elem) }
func ListType(elem *Type) *Type   { return unary(TypeTagList, elem) }
func SetType(elem *Type) *Type    { return unary(TypeTagSet, elem) }
func OptionType(elem *Type) *Type { return unary(TypeTagOption, elem) }

func MapType(key, value *Type) *Type {
	if key == nil || value == nil {
		panic("Map key and value types cannot be nil")
	}
	return &Type{Tag: TypeTagMap, Args: []*Type{key, value}}
}

func ResultType(ok, err *Type) *Type {
	if ok == nil || err == nil {
		panic("Result types cannot be nil")
	}
	return &Type{Tag: TypeTagResult, Args: []*Type{ok, err}}
}

func TupleType(elementTypes ...*Type) *Type {
	for _, e := range elementTypes {
		if e == nil {
			panic("Tuple element type cannot be nil")
		}
	}
	return &Type{Tag: TypeTagTuple, Args: elementTypes}
}

func VarType(id uint32) *Type {
	return &Type{Tag: TypeTagVar, ID: id}
}

// GenericType is a quantified variable, instantiated afresh at each use.
func GenericType(name string) *Type {
	return &Type{Tag: TypeTagVar, Name: name}
}

func NamedType(name string, args ...*Type) *Type {
	return &Type{Tag: TypeTagNamed, Name: name, Args: args}
}

func unary(tag TypeTag, elem *Type) *Type {
	if elem == nil {
		panic("element type cannot be nil")
	}
	return &Type{Tag: tag, Args: []*Type{elem}}
}

// Elem returns the first type argument (element of List, Dist, Set, Option).
func (t *Type) Elem() *Type {
	if t == nil || len(t.Args) == 0 {
		return nil
	}
	return t.Args[0]
}

func (t *Type) IsNumeric() bool {
	return t != nil && (t.Tag == TypeTagInt || t.Tag == TypeTagFloat)
}

func (t *Type) IsPrimitive() bool {
	if t == nil {
		return false
	}
	switch t.Tag {
	case TypeTagUnit, TypeTagBool, TypeTagTernary, TypeTagInt, TypeTagFloat, TypeTagString:
		return true
	}
	return false
}

func (t *Type) IsVar() bool     { return t != nil && t.Tag == TypeTagVar }
func (t *Type) IsGeneric() bool { return t.IsVar() && t.Name != "" }

// String representation of the type
func (t *Type) String() string {
	if t == nil {
		return "<nil_type>"
	}
	switch t.Tag {
	case TypeTagUnit:
		return "Unit"
	case TypeTagBool:
		return "Bool"
	case TypeTagTernary:
		return "Ternary"
	case TypeTagInt:
		return "Int"
	case TypeTagFloat:
		return "Float"
	case TypeTagString:
		return "String"
	case TypeTagBytes:
		return "Bytes"
	case TypeTagFun:
		param := t.Args[0].String()
		if t.Args[0].Tag == TypeTagFun {
			param = "(" + param + ")"
		}
		return fmt.Sprintf("%s -> %s", param, t.Args[1])
	case TypeTagDist:
		return fmt.Sprintf("Dist[%s]", t.Args[0])
	case TypeTagList:
		return fmt.Sprintf("List[%s]", t.Args[0])
	case TypeTagSet:
		return fmt.Sprintf("Set[%s]", t.Args[0])
	case TypeTagOption:
		return fmt.Sprintf("Option[%s]", t.Args[0])
	case TypeTagMap:
		return fmt.Sprintf("Map[%s, %s]", t.Args[0], t.Args[1])
	case TypeTagResult:
		return fmt.Sprintf("Result[%s, %s]", t.Args[0], t.Args[1])
	case TypeTagTuple:
		return fmt.Sprintf("Tuple(%s)", joinTypes(t.Args))
	case TypeTagVar:
		if t.Name != "" {
			return "'" + t.Name
		}
		return fmt.Sprintf("'t%d", t.ID)
	case TypeTagNamed:
		if len(t.Args) == 0 {
			return t.Name
		}
		return fmt.Sprintf("%s[%s]", t.Name, joinTypes(t.Args))
	}
	return "Unknown Type"
}

func joinTypes(ts []*Type) string {
	return strings.Join(gfn.Map(ts, func(t *Type) string { return t.String() }), ", ")
}

// Equals reports structural identity.  No coercion and no unification: two
// distinct type variables are different types.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Tag != other.Tag || t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	if t.Tag == TypeTagVar && t.Name == "" && t.ID != other.ID {
		return false
	}
	for i, a := range t.Args {
		if !a.Equals(other.Args[i]) {
			return false
		}
	}
	return true
}

// Occurs reports whether inference variable id appears inside t.
func (t *Type) Occurs(id uint32) bool {
	if t == nil {
		return false
	}
	if t.Tag == TypeTagVar && t.Name == "" {
		return t.ID == id
	}
	for _, a := range t.Args {
		if a.Occurs(id) {
			return true
		}
	}
	return false
}

// FreeVars appends the ids of the inference variables in t.
func (t *Type) FreeVars(into map[uint32]bool) {
	if t == nil {
		return
	}
	if t.Tag == TypeTagVar && t.Name == "" {
		into[t.ID] = true
		return
	}
	for _, a := range t.Args {
		a.FreeVars(into)
	}
}

// Map rebuilds t bottom-up through fn.  Leaves fn returns unchanged are shared.
func (t *Type) Map(fn func(*Type) *Type) *Type {
	if t == nil {
		return nil
	}
	if len(t.Args) == 0 {
		return fn(t)
	}
	args := make([]*Type, len(t.Args))
	changed := false
	for i, a := range t.Args {
		args[i] = a.Map(fn)
		changed = changed || args[i] != a
	}
	out := t
	if changed {
		out = &Type{Tag: t.Tag, Args: args, Name: t.Name, ID: t.ID}
	}
	return fn(out)
}
