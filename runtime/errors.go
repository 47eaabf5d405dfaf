package runtime

import (
	"errors"
	"fmt"

	"github.com/hyperpolymath/betlang/decl"
)

var (
	ErrUnsupported      = errors.New("not supported by the evaluator")
	ErrNotFound         = errors.New("identifier not found")
	ErrUnsupportedType  = errors.New("unsupported type for operation")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNoMatch          = errors.New("no pattern matched")
	ErrUnknownCondition = errors.New("condition is unknown")
	ErrInvalidWeight    = errors.New("invalid bet weight")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrArity            = errors.New("wrong number of arguments")
	ErrDuplicateNative  = errors.New("native function already registered")
	ErrHole             = errors.New("evaluated a hole")
)

// RuntimeError is an evaluation failure at a location in the program.  Err
// is the underlying cause and is what errors.Is matches against.
type RuntimeError struct {
	Message string
	Span    *decl.Span
	Err     error
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	switch {
	case msg == "" && e.Err != nil:
		msg = e.Err.Error()
	case e.Err != nil:
		msg = msg + ": " + e.Err.Error()
	}
	if e.Span != nil {
		return fmt.Sprintf("%s: %s", e.Span, msg)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// errorf builds a RuntimeError located at n.  An error that is already a
// RuntimeError is returned unchanged so the innermost location wins.
func errorf(at decl.Node, cause error, format string, args ...any) error {
	var re *RuntimeError
	if errors.As(cause, &re) {
		return cause
	}
	out := &RuntimeError{Message: fmt.Sprintf(format, args...), Err: cause}
	if at != nil {
		sp := at.Span()
		out.Span = &sp
	}
	return out
}

// located wraps err with the span of n unless it already carries one.
func located(at decl.Node, err error) error {
	if err == nil {
		return nil
	}
	return errorf(at, err, "")
}
