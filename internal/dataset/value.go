package dataset

// value.go provides the nullable numeric cell type used for nutrition facts.
//
// Source data carries free-text artifacts in numeric columns ("varies",
// "<1", blank cells). A cell that fails numeric parsing becomes Unknown
// rather than zero, and Unknown propagates through derived fields and
// aggregates so that a missing measurement is never mistaken for a
// measured zero.

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Value is a numeric cell that may be Unknown. The zero value is Unknown.
type Value struct {
	Float64 float64
	Valid   bool
}

// Known returns a Value holding f.
func Known(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// ParseValue converts a raw CSV cell to a Value.
// Handles thousands separators; anything that is not numeric after
// cleanup becomes Unknown (Valid=false), never zero and never an error.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}

	s = strings.ReplaceAll(s, ",", "")

	if !numericRegex.MatchString(s) {
		return Value{}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}

	return Value{Float64: f, Valid: true}
}

// Scale returns the value multiplied by f, propagating Unknown.
func (v Value) Scale(f float64) Value {
	if !v.Valid {
		return Value{}
	}
	return Value{Float64: v.Float64 * f, Valid: true}
}

// MarshalJSON encodes Unknown as null so chart consumers can skip the cell.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON decodes null as Unknown.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value{Float64: f, Valid: true}
	return nil
}
