package scales

import (
	"math"

	"gocinema/domain/ensemble"
)

// PointScale spreads distinct string values evenly over a range, with
// padding step widths of space before the first and after the last point.
type PointScale struct {
	domain  []string
	index   map[string]int
	rng     Range
	padding float64
}

// NewPoint builds a point scale. Duplicate values keep their first position.
func NewPoint(values []string, rng Range, padding float64) *PointScale {
	s := &PointScale{index: make(map[string]int, len(values)), rng: rng, padding: padding}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}
	return s
}

func (s *PointScale) Kind() Kind { return Point }

func (s *PointScale) Range() Range { return s.rng }

// Domain returns the distinct values in position order
func (s *PointScale) Domain() []string { return append([]string(nil), s.domain...) }

// Step is the distance between adjacent points
func (s *PointScale) Step() float64 {
	n := float64(len(s.domain))
	return s.rng.span() / math.Max(1, n-1+2*s.padding)
}

func (s *PointScale) at(i int) float64 {
	step := s.Step()
	n := float64(len(s.domain))
	start := s.rng.From + (s.rng.span()-step*(n-1))*0.5
	return start + step*float64(i)
}

// Position returns the coordinate of name, NaN when unknown
func (s *PointScale) Position(name string) float64 {
	i, ok := s.index[name]
	if !ok {
		return math.NaN()
	}
	return s.at(i)
}

func (s *PointScale) Forward(v ensemble.Value) float64 {
	if v.IsAbsent() {
		return math.NaN()
	}
	return s.Position(v.Str)
}

// Invert returns the value placed nearest to coord
func (s *PointScale) Invert(coord float64) ensemble.Value {
	if len(s.domain) == 0 || math.IsNaN(coord) {
		return ensemble.AbsentValue()
	}
	best, bestDist := 0, math.Inf(1)
	for i := range s.domain {
		if d := math.Abs(s.at(i) - coord); d < bestDist {
			best, bestDist = i, d
		}
	}
	return ensemble.StringValue(s.domain[best])
}

// Ticks labels every point when they fit, otherwise every k-th one
func (s *PointScale) Ticks(max int) []Tick {
	if max < 1 || len(s.domain) == 0 {
		return nil
	}
	every := (len(s.domain) + max - 1) / max
	var ticks []Tick
	for i := 0; i < len(s.domain); i += every {
		ticks = append(ticks, Tick{
			Value:    ensemble.StringValue(s.domain[i]),
			Position: s.at(i),
			Label:    s.domain[i],
		})
	}
	return ticks
}
