package scales

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"

	"gocinema/domain/ensemble"
)

// normalizer is the part of scale.Linear and scale.Log in use here
type normalizer interface {
	Map(x float64) float64
	Unmap(y float64) float64
	Ticks(o scale.TickOptions) (major, minor []float64)
}

// Numeric maps a numeric domain onto a range through a linear or
// logarithmic normalization.
type Numeric struct {
	kind     Kind
	norm     normalizer
	min, max float64
	integral bool
	rng      Range
}

// NewLinear builds a linear scale over [min, max]. A zero-width domain maps
// every value to the middle of the range.
func NewLinear(min, max float64, rng Range) *Numeric {
	return &Numeric{
		kind: Linear,
		norm: &scale.Linear{Min: min, Max: max},
		min:  min,
		max:  max,
		rng:  rng,
	}
}

// NewLog builds a base 10 logarithmic scale over [min, max]. The domain must
// not be empty, contain zero or cross it.
func NewLog(min, max float64, rng Range) (*Numeric, error) {
	if min == max {
		return nil, fmt.Errorf("log scale needs a non-empty domain, got [%g, %g]", min, max)
	}
	if min <= 0 && max >= 0 {
		return nil, fmt.Errorf("log scale domain [%g, %g] includes zero", min, max)
	}
	ls, err := scale.NewLog(min, max, 10)
	if err != nil {
		return nil, fmt.Errorf("log scale domain [%g, %g]: %w", min, max, err)
	}
	return &Numeric{kind: Log, norm: &ls, min: min, max: max, rng: rng}, nil
}

// IntegerTicks keeps ticks on whole numbers
func (s *Numeric) IntegerTicks() *Numeric {
	s.integral = true
	return s
}

func (s *Numeric) Kind() Kind { return s.kind }

func (s *Numeric) Range() Range { return s.rng }

// Domain returns the numeric domain
func (s *Numeric) Domain() (float64, float64) { return s.min, s.max }

// Map is Forward for a plain number
func (s *Numeric) Map(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if s.min == s.max {
		return s.rng.From + 0.5*s.rng.span()
	}
	return s.rng.From + s.norm.Map(x)*s.rng.span()
}

func (s *Numeric) Forward(v ensemble.Value) float64 {
	return s.Map(numberOf(v))
}

// Unmap is Invert for a plain number
func (s *Numeric) Unmap(y float64) float64 {
	t := 0.5
	if span := s.rng.span(); span != 0 {
		t = (y - s.rng.From) / span
	}
	if s.min == s.max {
		return s.min
	}
	return s.norm.Unmap(t)
}

func (s *Numeric) Invert(coord float64) ensemble.Value {
	return ensemble.NumberValue(s.Unmap(coord))
}

// Ticks returns at most max major ticks. Integer dimensions never get
// fractional ticks.
func (s *Numeric) Ticks(max int) []Tick {
	if max < 1 {
		return nil
	}
	if s.min == s.max {
		return []Tick{s.tick(s.min)}
	}
	o := scale.TickOptions{Max: max}
	if s.integral {
		o.MinLevel, o.MaxLevel = 0, 1000
	}
	major, _ := s.norm.Ticks(o)
	ticks := make([]Tick, 0, len(major))
	for _, x := range major {
		ticks = append(ticks, s.tick(x))
	}
	return ticks
}

func (s *Numeric) tick(x float64) Tick {
	return Tick{
		Value:    ensemble.NumberValue(x),
		Position: s.Map(x),
		Label:    strconv.FormatFloat(x, 'g', 6, 64),
	}
}
