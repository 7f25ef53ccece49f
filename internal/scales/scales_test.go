package scales

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/domain/ensemble"
)

func TestLinear(t *testing.T) {
	s := NewLinear(0, 10, Range{From: 100, To: 0})

	assert.InDelta(t, 100, s.Map(0), 1e-9)
	assert.InDelta(t, 50, s.Map(5), 1e-9)
	assert.InDelta(t, 0, s.Map(10), 1e-9)
	assert.InDelta(t, 2.5, s.Unmap(75), 1e-9)
	assert.InDelta(t, 5, s.Invert(50).Num, 1e-9)

	assert.True(t, math.IsNaN(s.Map(math.NaN())))
	assert.True(t, math.IsNaN(s.Forward(ensemble.AbsentValue())))
	assert.True(t, math.IsNaN(s.Forward(ensemble.StringValue("x"))))
	assert.InDelta(t, 80, s.Forward(ensemble.StringValue("2")), 1e-9)
}

func TestLinearZeroWidthDomain(t *testing.T) {
	s := NewLinear(3, 3, Range{From: 200, To: 0})
	assert.InDelta(t, 100, s.Map(3), 1e-9)
	assert.True(t, math.IsNaN(s.Map(math.NaN())))
	ticks := s.Ticks(5)
	require.Len(t, ticks, 1)
	assert.Equal(t, "3", ticks[0].Label)
}

func TestLinearTicks(t *testing.T) {
	s := NewLinear(0, 10, Range{From: 0, To: 100})
	ticks := s.Ticks(6)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 6)
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Value.Num, 0.0)
		assert.LessOrEqual(t, tk.Value.Num, 10.0)
		assert.InDelta(t, tk.Value.Num*10, tk.Position, 1e-9)
	}
	assert.Nil(t, s.Ticks(0))
}

func TestLog(t *testing.T) {
	s, err := NewLog(1, 100, Range{From: 0, To: 200})
	require.NoError(t, err)
	assert.Equal(t, Log, s.Kind())
	assert.InDelta(t, 0, s.Map(1), 1e-9)
	assert.InDelta(t, 100, s.Map(10), 1e-9)
	assert.InDelta(t, 200, s.Map(100), 1e-9)
	assert.InDelta(t, 10, s.Unmap(100), 1e-9)
	assert.True(t, math.IsNaN(s.Map(math.NaN())))

	_, err = NewLog(0, 10, Range{From: 0, To: 1})
	assert.Error(t, err)
	_, err = NewLog(-1, 10, Range{From: 0, To: 1})
	assert.Error(t, err)
	_, err = NewLog(5, 5, Range{From: 0, To: 1})
	assert.Error(t, err)
}

func TestPoint(t *testing.T) {
	s := NewPoint([]string{"a", "b", "a", "c"}, Range{From: 100, To: 0}, 0)
	assert.Equal(t, []string{"a", "b", "c"}, s.Domain())
	assert.InDelta(t, 100, s.Position("a"), 1e-9)
	assert.InDelta(t, 50, s.Position("b"), 1e-9)
	assert.InDelta(t, 0, s.Position("c"), 1e-9)
	assert.True(t, math.IsNaN(s.Position("zz")))
	assert.True(t, math.IsNaN(s.Forward(ensemble.AbsentValue())))
	assert.Equal(t, "b", s.Invert(60).Str)
	assert.True(t, s.Invert(math.NaN()).IsAbsent())
}

func TestPointSingleValueCentered(t *testing.T) {
	s := NewPoint([]string{"only"}, Range{From: 80, To: 0}, 0)
	assert.InDelta(t, 40, s.Position("only"), 1e-9)
}

func TestPointPadding(t *testing.T) {
	// padding 1 over four axes leaves one step on each side
	s := NewPoint([]string{"w", "x", "y", "z"}, Range{From: 0, To: 500}, 1)
	assert.InDelta(t, 100, s.Step(), 1e-9)
	assert.InDelta(t, 100, s.Position("w"), 1e-9)
	assert.InDelta(t, 400, s.Position("z"), 1e-9)
}

func TestRegistryPrecedence(t *testing.T) {
	dims := []ensemble.Dimension{
		{Name: "log_energy", Type: ensemble.Float, Domain: ensemble.NumericDomain(1, 1000)},
		{Name: "log_label", Type: ensemble.String, Domain: ensemble.StringDomain([]string{"a", "b"})},
		{Name: "log_zero", Type: ensemble.Integer, Domain: ensemble.NumericDomain(0, 10)},
		{Name: "time", Type: ensemble.Integer, Domain: ensemble.NumericDomain(0, 10)},
	}
	height := 110.0
	rangeFor := func(dim ensemble.Dimension, kind Kind) Range {
		if kind == Point {
			return Range{From: height, To: 0}
		}
		return Range{From: height - height/11, To: 0}
	}

	r := NewRegistry(dims, regexp.MustCompile("^log_"), rangeFor)

	assert.True(t, r.IsLog("log_energy"))
	s, ok := r.Get("log_label")
	require.True(t, ok)
	assert.Equal(t, Point, s.Kind())
	assert.False(t, r.IsLog("log_zero"), "zero in the domain falls back to linear")
	s, _ = r.Get("time")
	assert.Equal(t, Linear, s.Kind())
	assert.InDelta(t, 100, r.Forward("time", ensemble.NumberValue(0)), 1e-9)
	assert.True(t, math.IsNaN(r.Forward("missing", ensemble.NumberValue(0))))

	height = 220
	r.Rebuild(rangeFor)
	assert.InDelta(t, 200, r.Forward("time", ensemble.NumberValue(0)), 1e-9)
}

func TestRegistryNilLogscale(t *testing.T) {
	dims := []ensemble.Dimension{{Name: "x", Type: ensemble.Float, Domain: ensemble.NumericDomain(1, 2)}}
	r := NewRegistry(dims, nil, func(ensemble.Dimension, Kind) Range { return Range{From: 1, To: 0} })
	assert.False(t, r.IsLog("x"))
}
