package decl

import (
	"fmt"
	"strings"
)

// TernaryValue is a Kleene three-valued truth value.  The constants are
// ordered False < Unknown < True so And and Or reduce to min and max.
type TernaryValue int8

const (
	TernaryFalse TernaryValue = iota
	TernaryUnknown
	TernaryTrue
)

// TernaryValues lists the three values in bet order (true, false, unknown).
var TernaryValues = [3]TernaryValue{TernaryTrue, TernaryFalse, TernaryUnknown}

func TernaryFromBool(b bool) TernaryValue {
	if b {
		return TernaryTrue
	}
	return TernaryFalse
}

func (t TernaryValue) And(other TernaryValue) TernaryValue {
	return min(t, other)
}

func (t TernaryValue) Or(other TernaryValue) TernaryValue {
	return max(t, other)
}

func (t TernaryValue) Not() TernaryValue {
	switch t {
	case TernaryTrue:
		return TernaryFalse
	case TernaryFalse:
		return TernaryTrue
	}
	return TernaryUnknown
}

// Xor is true when exactly one side is true; unknown if either side is.
func (t TernaryValue) Xor(other TernaryValue) TernaryValue {
	return t.And(other.Not()).Or(t.Not().And(other))
}

// Float maps False, Unknown and True to 0, 0.5 and 1.
func (t TernaryValue) Float() float64 {
	return float64(t) / 2
}

// Int maps False, Unknown and True to -1, 0 and 1.
func (t TernaryValue) Int() int {
	return int(t) - 1
}

// Bool reports whether t is definitely true or definitely false.  known is
// false for Unknown.
func (t TernaryValue) Bool() (value bool, known bool) {
	return t == TernaryTrue, t != TernaryUnknown
}

func (t TernaryValue) String() string {
	switch t {
	case TernaryTrue:
		return "true"
	case TernaryFalse:
		return "false"
	case TernaryUnknown:
		return "unknown"
	}
	return fmt.Sprintf("TernaryValue(%d)", int8(t))
}

func ParseTernary(s string) (TernaryValue, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes":
		return TernaryTrue, nil
	case "false", "f", "no":
		return TernaryFalse, nil
	case "unknown", "u", "?":
		return TernaryUnknown, nil
	}
	return TernaryUnknown, fmt.Errorf("invalid ternary value: %q", s)
}
