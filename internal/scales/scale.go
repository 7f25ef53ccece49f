// Package scales maps dimension values to render coordinates and back.
package scales

import (
	"fmt"
	"math"

	"gocinema/domain/ensemble"
)

// Kind is the mapping family of a scale
type Kind int

const (
	Linear Kind = iota
	Log
	Point
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Log:
		return "log"
	case Point:
		return "point"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Range is the pair of coordinates the domain ends map to
type Range struct {
	From, To float64
}

func (r Range) span() float64 { return r.To - r.From }

// Tick is one labelled axis position
type Tick struct {
	Value    ensemble.Value `json:"value"`
	Position float64        `json:"position"`
	Label    string         `json:"label"`
}

// Scale is an invertible value to coordinate mapping. Forward returns NaN
// for values that cannot be placed: NaN, absent, or unknown strings.
type Scale interface {
	Kind() Kind
	Forward(v ensemble.Value) float64
	Invert(coord float64) ensemble.Value
	Range() Range
	Ticks(max int) []Tick
}

func nan() float64 { return math.NaN() }

func numberOf(v ensemble.Value) float64 {
	switch v.Kind {
	case ensemble.Number:
		return v.Num
	case ensemble.Text:
		if f, ok := ensemble.ParseNumber(v.Str); ok {
			return f
		}
	}
	return math.NaN()
}
