package scales

import (
	"regexp"

	"gocinema/domain/ensemble"
	"gocinema/internal"
)

var logger = internal.DefaultLogger.Component("Scales")

// RangeFunc supplies the coordinate range for a dimension given the kind of
// scale chosen for it. Charts use it to reserve room below numeric axes.
type RangeFunc func(dim ensemble.Dimension, kind Kind) Range

// Registry holds one scale per dimension. Scales are rebuilt, never
// adjusted, when the ranges change.
type Registry struct {
	dims     []ensemble.Dimension
	logscale *regexp.Regexp
	scales   map[string]Scale
}

// NewRegistry builds scales for dims. Numeric dimensions whose name matches
// logscale get a logarithmic scale, String dimensions a point scale, the rest
// a linear one. A nil logscale marks nothing.
func NewRegistry(dims []ensemble.Dimension, logscale *regexp.Regexp, rangeFor RangeFunc) *Registry {
	r := &Registry{dims: dims, logscale: logscale}
	r.Rebuild(rangeFor)
	return r
}

// KindFor returns the scale kind dim gets under this registry
func (r *Registry) KindFor(dim ensemble.Dimension) Kind {
	return KindOf(dim, r.logscale)
}

// KindOf picks log for numeric dimensions matching logscale, point for
// String dimensions and linear otherwise.
func KindOf(dim ensemble.Dimension, logscale *regexp.Regexp) Kind {
	switch {
	case dim.Type.IsNumeric() && logscale != nil && logscale.MatchString(dim.Name):
		return Log
	case dim.IsString():
		return Point
	default:
		return Linear
	}
}

// Rebuild recomputes every scale for new ranges
func (r *Registry) Rebuild(rangeFor RangeFunc) {
	scales := make(map[string]Scale, len(r.dims))
	for _, dim := range r.dims {
		kind := r.KindFor(dim)
		scales[dim.Name] = Build(dim, kind, rangeFor(dim, kind))
	}
	r.scales = scales
}

// Build makes a scale of the given kind for dim. A log scale whose domain
// cannot be logarithmic falls back to linear with a warning.
func Build(dim ensemble.Dimension, kind Kind, rng Range) Scale {
	switch kind {
	case Point:
		return NewPoint(dim.Domain.Values, rng, 0)
	case Log:
		s, err := NewLog(dim.Domain.Min, dim.Domain.Max, rng)
		if err == nil {
			return s
		}
		logger.Warn("%s: %v, using a linear scale", dim.Name, err)
	}
	s := NewLinear(dim.Domain.Min, dim.Domain.Max, rng)
	if dim.Type == ensemble.Integer {
		s.IntegerTicks()
	}
	return s
}

// Get returns the scale of a dimension
func (r *Registry) Get(name string) (Scale, bool) {
	s, ok := r.scales[name]
	return s, ok
}

// Forward maps v on dimension name, NaN for unknown dimensions
func (r *Registry) Forward(name string, v ensemble.Value) float64 {
	s, ok := r.scales[name]
	if !ok {
		return nan()
	}
	return s.Forward(v)
}

// IsLog reports whether name ended up on a logarithmic scale
func (r *Registry) IsLog(name string) bool {
	s, ok := r.scales[name]
	return ok && s.Kind() == Log
}
