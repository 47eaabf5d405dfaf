package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter     = errors.New("invalid distribution parameter")
	ErrEmpty                = errors.New("no choices given")
	ErrInvalidWeights       = errors.New("weights must be non-negative, finite and sum to a positive total")
	ErrNotDistribution      = errors.New("value is not a distribution")
	ErrConditionUnsatisfied = errors.New("condition not satisfied within the attempt limit")
	ErrNoNumericData        = errors.New("no numeric data")
	ErrLengthMismatch       = errors.New("inputs have different lengths")
	ErrNotEnumerable        = errors.New("distribution is not finitely enumerable")
	ErrNotCallable          = errors.New("value is not callable")
)

// DistError reports a distribution constructor called outside its domain.
type DistError struct {
	Dist   string
	Param  string
	Reason string
}

func (e *DistError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Dist, e.Param, e.Reason)
}

func (e *DistError) Unwrap() error { return ErrInvalidParameter }

func paramError(dist, param, format string, args ...any) error {
	return &DistError{Dist: dist, Param: param, Reason: fmt.Sprintf(format, args...)}
}
