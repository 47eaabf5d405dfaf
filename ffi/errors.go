package ffi

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownHandle   = errors.New("unknown generator handle")
)

// PanicError is a panic caught at the boundary.
type PanicError struct {
	Entry string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: recovered panic: %v", e.Entry, e.Value)
}

// guard runs fn and turns a panic into a PanicError.  Nothing may unwind
// across the C boundary.
func guard[T any](entry string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, &PanicError{Entry: entry, Value: r}
		}
	}()
	return fn()
}

func invalidArg(entry, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", entry, fmt.Sprintf(format, args...), ErrInvalidArgument)
}
