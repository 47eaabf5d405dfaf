package parallel

import (
	"errors"
	"fmt"
)

// ErrConcurrency is the parent of every error raised by this package's
// primitives themselves (as opposed to errors returned by user tasks).
var ErrConcurrency = errors.New("concurrency error")

var (
	ErrPoolClosed      = fmt.Errorf("%w: work pool is closed", ErrConcurrency)
	ErrChannelClosed   = fmt.Errorf("%w: channel is closed", ErrConcurrency)
	ErrInvalidLimit    = fmt.Errorf("%w: invalid limit", ErrConcurrency)
	ErrNoTasks         = fmt.Errorf("%w: no tasks", ErrConcurrency)
	ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", ErrConcurrency)
)

// PanicError carries a panic recovered from a task.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", p.Value)
}

func (p *PanicError) Unwrap() error { return ErrConcurrency }

// protect runs fn and converts a panic into a *PanicError.
func protect[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
