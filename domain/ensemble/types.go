// Package ensemble holds the value types of a cinema database: dimensions,
// typed cell values, rows and axis orderings.
package ensemble

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DimensionType is the inferred type of a dimension (column)
type DimensionType int

const (
	Integer DimensionType = iota
	Float
	String
)

func (t DimensionType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("DimensionType(%d)", int(t))
	}
}

// IsNumeric reports whether values of this type are numbers
func (t DimensionType) IsNumeric() bool {
	return t == Integer || t == Float
}

func (t DimensionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Domain is the value range of a numeric dimension or the ordered value
// sequence of a string dimension.
type Domain struct {
	Min, Max float64
	Values   []string
	numeric  bool
}

// NumericDomain builds a [min, max] domain
func NumericDomain(min, max float64) Domain {
	return Domain{Min: min, Max: max, numeric: true}
}

// StringDomain builds an ordinal domain over values in the order given
func StringDomain(values []string) Domain {
	return Domain{Values: values}
}

func (d Domain) IsNumeric() bool { return d.numeric }

// Width is max - min for numeric domains and 0 otherwise
func (d Domain) Width() float64 {
	if !d.numeric {
		return 0
	}
	return d.Max - d.Min
}

// Normalize maps v into [0, 1] relative to the domain. A zero-width domain
// normalizes everything to 0.
func (d Domain) Normalize(v float64) float64 {
	w := d.Width()
	if w == 0 {
		return 0
	}
	return (v - d.Min) / w
}

func (d Domain) MarshalJSON() ([]byte, error) {
	if d.numeric {
		return json.Marshal([]float64{d.Min, d.Max})
	}
	if d.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Values)
}

// Dimension is a named column of a dataset
type Dimension struct {
	Name   string        `json:"name"`
	Type   DimensionType `json:"type"`
	Domain Domain        `json:"domain"`
	Index  int           `json:"index"`
}

func (d Dimension) IsString() bool { return d.Type == String }

// ValueKind discriminates the cell variants
type ValueKind uint8

const (
	Absent ValueKind = iota
	Number
	Text
)

// Value is one cell: a number (possibly NaN), a string, or absent. The zero
// Value is absent, which is distinct from the empty string.
type Value struct {
	Kind ValueKind
	Num  float64
	// Str holds the trimmed source text for both numbers and strings.
	Str string
}

func AbsentValue() Value { return Value{} }

func NumberValue(f float64) Value {
	return Value{Kind: Number, Num: f, Str: formatNumber(f)}
}

func StringValue(s string) Value {
	return Value{Kind: Text, Str: s}
}

// ParsedNumber builds a number from its source text; unparseable text becomes NaN.
func ParsedNumber(text string) Value {
	f, ok := ParseNumber(text)
	if !ok {
		f = math.NaN()
	}
	return Value{Kind: Number, Num: f, Str: text}
}

func (v Value) IsAbsent() bool { return v.Kind == Absent }

// IsNaN is true for NaN numbers and for absent values, matching how numeric
// axes treat both as "cannot be placed".
func (v Value) IsNaN() bool {
	switch v.Kind {
	case Absent:
		return true
	case Number:
		return math.IsNaN(v.Num)
	default:
		return false
	}
}

func (v Value) String() string {
	if v.Kind == Absent {
		return ""
	}
	return v.Str
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Absent:
		return []byte("null"), nil
	case Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return json.Marshal(formatNumber(v.Num))
		}
		return json.Marshal(v.Num)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON accepts null (absent), a JSON number, or a string. Strings
// stay text; callers that know the dimension type coerce them.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = AbsentValue()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberValue(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value must be null, a number or a string: %w", err)
	}
	*v = StringValue(s)
	return nil
}

// Row is the values of one record in dimension order
type Row []Value

// ParseNumber reports whether text reads as a finite decimal number. "NaN"
// in any case is accepted and yields NaN; infinities and hex floats are not
// numbers.
func ParseNumber(text string) (float64, bool) {
	if text == "" || strings.ContainsAny(text, "xX") {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	return f, true
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AxisOrdering is one named permutation of dimensions within a category
type AxisOrdering struct {
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Order    []string `json:"order"`
}
