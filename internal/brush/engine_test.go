package brush

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid places row i at coordinate 10*i on "a" and 10*(4-i) on "b"; row 2 is NaN on "c"
func grid() PositionFunc {
	return func(dim string, row int) float64 {
		switch dim {
		case "a":
			return float64(10 * row)
		case "b":
			return float64(10 * (4 - row))
		case "c":
			if row == 2 {
				return math.NaN()
			}
			return 0
		}
		return math.NaN()
	}
}

func newEngine(opts ...Option) *Engine {
	return New([]string{"a", "b", "c"}, 5, grid(), opts...)
}

func ext(lo, hi float64) *Extent { return &Extent{Lo: lo, Hi: hi} }

func TestInitialSelectionIsEverything(t *testing.T) {
	e := newEngine()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, e.Selection())
}

func TestSetExtentInclusive(t *testing.T) {
	e := newEngine()
	assert.Equal(t, []int{1, 2, 3}, e.SetExtent("a", ext(10, 30)))
	assert.Equal(t, []int{1, 2, 3}, e.SetExtent("a", ext(30, 10)), "reversed range is normalized")
}

func TestIntersection(t *testing.T) {
	onlyA := newEngine().SetExtent("a", ext(0, 25))
	onlyB := newEngine().SetExtent("b", ext(0, 25))

	e := newEngine()
	e.SetExtent("a", ext(0, 25))
	both := e.SetExtent("b", ext(0, 25))

	var want []int
	for _, r := range onlyA {
		for _, s := range onlyB {
			if r == s {
				want = append(want, r)
			}
		}
	}
	assert.Equal(t, []int{0, 1, 2}, onlyA)
	assert.Equal(t, []int{2, 3, 4}, onlyB)
	assert.Equal(t, want, both)

	cleared := e.SetExtent("b", nil)
	assert.GreaterOrEqual(t, len(cleared), len(both))
}

func TestDegenerateExtentClears(t *testing.T) {
	e := newEngine()
	e.SetExtent("a", ext(0, 10))
	got := e.SetExtent("a", ext(20, 20))

	_, stored := e.Extent("a")
	assert.False(t, stored)
	assert.Equal(t, newEngine().Selection(), got)
}

func TestNaNCoordinateFailsConstraint(t *testing.T) {
	e := newEngine()
	assert.Equal(t, []int{0, 1, 3, 4}, e.SetExtent("c", ext(-1, 1)))
}

func TestChangeNotificationOnlyOnDifference(t *testing.T) {
	e := newEngine()
	var published [][]int
	e.Changes().Subscribe(func(sel []int) { published = append(published, sel) })

	e.SetExtent("a", ext(0, 100)) // still everything
	e.SetExtent("a", ext(0, 15))
	e.SetExtent("a", ext(-5, 19)) // same rows
	e.SetExtent("a", nil)

	require.Len(t, published, 2)
	assert.Equal(t, []int{0, 1}, published[0])
	assert.Equal(t, []int{0, 1, 2, 3, 4}, published[1])
}

func TestSetSelection(t *testing.T) {
	e := newEngine(WithPadding(5))
	got := e.SetSelection([]int{1, 3})

	a, ok := e.Extent("a")
	require.True(t, ok)
	assert.Equal(t, Extent{Lo: 5, Hi: 35}, a)
	b, _ := e.Extent("b")
	assert.Equal(t, Extent{Lo: 5, Hi: 35}, b)
	c, _ := e.Extent("c")
	assert.Equal(t, Extent{Lo: -5, Hi: 5}, c)

	assert.Equal(t, []int{1, 3}, got)
}

func TestSetSelectionClampsAndSkipsUnplaceable(t *testing.T) {
	e := newEngine(WithBounds(0, 40))
	e.SetExtent("c", ext(-1, 1))
	got := e.SetSelection([]int{2})

	a, _ := e.Extent("a")
	assert.Equal(t, Extent{Lo: 15, Hi: 25}, a)
	_, ok := e.Extent("c")
	assert.False(t, ok, "row 2 is NaN on c so c is cleared")
	assert.Equal(t, []int{2}, got)
}

func TestSetSelectionEmptyIsNoop(t *testing.T) {
	e := newEngine()
	e.SetExtent("a", ext(0, 15))
	assert.Equal(t, []int{0, 1}, e.SetSelection(nil))
	assert.Len(t, e.Extents(), 1)
}

func TestRescale(t *testing.T) {
	e := newEngine()
	e.SetExtent("a", ext(10, 20))
	e.Rescale(2)
	a, _ := e.Extent("a")
	assert.Equal(t, Extent{Lo: 20, Hi: 40}, a)
}

func TestSetOrderShortCircuit(t *testing.T) {
	calls := map[string]int{}
	pos := PositionFunc(func(dim string, row int) float64 {
		calls[dim]++
		return grid()(dim, row)
	})
	e := New([]string{"a", "b"}, 5, pos)
	e.SetOrder([]string{"b", "a"})
	calls = map[string]int{}
	e.SetExtent("a", ext(100, 200))
	e.SetExtent("b", ext(100, 200))
	// b rejects every row on the second recompute, so a is only read by the first
	assert.Equal(t, 5, calls["a"])
	assert.Equal(t, 5, calls["b"])
	assert.Equal(t, []int{}, e.Selection())
}

func TestClearAll(t *testing.T) {
	e := newEngine()
	e.SetExtent("a", ext(0, 1))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, e.ClearAll())
}
