package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a numeric value that may be "not available". Zero and NA are
// distinct states: a ratio over a missing or zero denominator is NA, never
// silently zero. The zero value of Amount is NA.
type Amount struct {
	Value float64
	Valid bool
}

// Of returns a present Amount.
func Of(v float64) Amount { return Amount{Value: v, Valid: true} }

// NA returns a "not available" Amount.
func NA() Amount { return Amount{} }

// IsNA reports whether the amount is not available.
func (a Amount) IsNA() bool { return !a.Valid }

// Div divides a by b, returning NA when either operand is NA or the
// denominator is zero.
func (a Amount) Div(b Amount) Amount {
	if !a.Valid || !b.Valid || b.Value == 0 {
		return NA()
	}
	return Of(a.Value / b.Value)
}

// Sub subtracts b from a, NA when either operand is NA.
func (a Amount) Sub(b Amount) Amount {
	if !a.Valid || !b.Valid {
		return NA()
	}
	return Of(a.Value - b.Value)
}

// Mul multiplies a by b, NA when either operand is NA.
func (a Amount) Mul(b Amount) Amount {
	if !a.Valid || !b.Valid {
		return NA()
	}
	return Of(a.Value * b.Value)
}

// PctChange returns the relative change from prev to a. NA when either
// operand is NA or prev is zero.
func (a Amount) PctChange(prev Amount) Amount {
	if !a.Valid || !prev.Valid || prev.Value == 0 {
		return NA()
	}
	return Of((a.Value - prev.Value) / math.Abs(prev.Value))
}

func (a Amount) String() string {
	if !a.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// MarshalJSON encodes NA as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON decodes null as NA.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = NA()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Of(v)
	return nil
}
