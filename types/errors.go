package types

import (
	"errors"
	"fmt"

	"github.com/hyperpolymath/betlang/decl"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnification       = errors.New("cannot unify types")
	ErrInvalidBet        = errors.New("invalid ternary bet")
	ErrInvalidType       = errors.New("invalid type")
)

type TypeErrorKind int

const (
	UndefinedVariable TypeErrorKind = iota
	TypeMismatch
	UnificationError
	InvalidBet
	InvalidType
)

// TypeError is returned by the checker.  Span is nil when the offending node
// carried no position.
type TypeError struct {
	Kind     TypeErrorKind
	Name     string // UndefinedVariable
	Expected string // TypeMismatch, or left side of UnificationError
	Found    string // TypeMismatch, or right side of UnificationError
	Message  string // InvalidType
	Span     *decl.Span
}

func (e *TypeError) Error() string {
	var msg string
	switch e.Kind {
	case UndefinedVariable:
		msg = fmt.Sprintf("undefined variable: %s", e.Name)
	case TypeMismatch:
		msg = fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Found)
	case UnificationError:
		msg = fmt.Sprintf("cannot unify types: %s and %s", e.Expected, e.Found)
	case InvalidBet:
		msg = "invalid ternary bet: must have exactly 3 alternatives"
	default:
		msg = "type error: " + e.Message
	}
	if e.Span != nil && !e.Span.IsEmpty() {
		return fmt.Sprintf("pos %s: %s", e.Span, msg)
	}
	return msg
}

// Is lets errors.Is match the sentinel for the error's kind.
func (e *TypeError) Is(target error) bool {
	switch e.Kind {
	case UndefinedVariable:
		return target == ErrUndefinedVariable
	case TypeMismatch:
		return target == ErrTypeMismatch
	case UnificationError:
		return target == ErrUnification
	case InvalidBet:
		return target == ErrInvalidBet
	}
	return target == ErrInvalidType
}

func spanOf(n decl.Node) *decl.Span {
	if n == nil {
		return nil
	}
	s := n.Span()
	return &s
}

func undefined(name string, at decl.Node) *TypeError {
	return &TypeError{Kind: UndefinedVariable, Name: name, Span: spanOf(at)}
}

func mismatch(expected, found *Type, at decl.Node) *TypeError {
	return &TypeError{Kind: TypeMismatch, Expected: expected.String(), Found: found.String(), Span: spanOf(at)}
}

func invalid(at decl.Node, format string, args ...any) *TypeError {
	return &TypeError{Kind: InvalidType, Message: fmt.Sprintf(format, args...), Span: spanOf(at)}
}
