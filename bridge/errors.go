package bridge

import (
	"errors"
	"fmt"
)

type SerializationErrorKind int

const (
	// UnsupportedType: the value has no external form (distributions,
	// functions, file handles).
	UnsupportedType SerializationErrorKind = iota
	// InvalidFormat: the external form is malformed.
	InvalidFormat
)

func (k SerializationErrorKind) String() string {
	if k == UnsupportedType {
		return "unsupported type"
	}
	return "invalid format"
}

var (
	ErrUnsupportedType = errors.New("value cannot be serialized")
	ErrInvalidFormat   = errors.New("malformed serialized value")
)

type SerializationError struct {
	Kind    SerializationErrorKind
	Message string
	Err     error
}

func (e *SerializationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *SerializationError) Is(target error) bool {
	switch target {
	case ErrUnsupportedType:
		return e.Kind == UnsupportedType
	case ErrInvalidFormat:
		return e.Kind == InvalidFormat
	}
	return false
}

func unsupported(format string, args ...any) error {
	return &SerializationError{Kind: UnsupportedType, Message: fmt.Sprintf(format, args...)}
}

func invalid(cause error, format string, args ...any) error {
	return &SerializationError{Kind: InvalidFormat, Message: fmt.Sprintf(format, args...), Err: cause}
}
