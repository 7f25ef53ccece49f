package scatter

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal/dataset"
	"gocinema/internal/geom"
	"gocinema/internal/scales"
)

const fixture = "a,b,s,FILE\n" +
	"0,10,x,f0.png\n" +
	"10,20,y,f1.png\n" +
	"5,,x,f2.png\n" +
	"NaN,15,y,f3.png\n"

func visible(t *testing.T) (*dataset.Dataset, []ensemble.Dimension) {
	t.Helper()
	ds, err := dataset.Load(fixture, nil)
	require.NoError(t, err)
	var dims []ensemble.Dimension
	for _, d := range ds.Dimensions() {
		if d.Name != "FILE" {
			dims = append(dims, d)
		}
	}
	return ds, dims
}

// newPlot shows a on [0, 100] horizontally and b on [100, 0] vertically
func newPlot(t *testing.T, logscale *regexp.Regexp) *Plot {
	t.Helper()
	ds, dims := visible(t)
	opts := DefaultOptions()
	opts.Width, opts.Height = 100, 100
	opts.Logscale = logscale
	p, err := New(ds, dims, opts)
	require.NoError(t, err)
	return p
}

func TestDefaultAxes(t *testing.T) {
	p := newPlot(t, nil)
	assert.Equal(t, "a", p.XDimension())
	assert.Equal(t, "b", p.YDimension())
	assert.Equal(t, []string{"a", "b", "s"}, p.Dimensions())
	assert.Equal(t, scales.Linear, p.XScale().Kind())
}

func TestPlottablePoints(t *testing.T) {
	p := newPlot(t, nil)
	assert.Empty(t, p.Warning())

	p.SetSelection([]int{0, 1, 2, 3})
	assert.Equal(t, []int{0, 1}, p.PlottablePoints(p.Selection()))
	assert.Equal(t, "2 point(s) could not be plotted (because they contain NaN or undefined values).", p.Warning())

	points := p.Points()
	require.Len(t, points, 2)
	assert.Equal(t, Point{Row: 0, X: 0, Y: 100}, points[0])
	assert.Equal(t, Point{Row: 1, X: 100, Y: 0}, points[1])

	p.SetSelection([]int{0})
	assert.Empty(t, p.Warning())
}

func TestPickAt(t *testing.T) {
	p := newPlot(t, nil)
	p.SetSelection([]int{3, 1, 0})
	assert.Equal(t, []int{1, 0}, p.PickBuffer().Queue())
	p.Drawing().Flush()

	row, ok := p.PickAt(3, 97)
	require.True(t, ok)
	assert.Equal(t, 0, row)

	row, ok = p.PickAt(97, 3)
	require.True(t, ok)
	assert.Equal(t, 1, row)

	_, ok = p.PickAt(50, 50)
	assert.False(t, ok)
}

func TestSetDimensions(t *testing.T) {
	p := newPlot(t, nil)
	var ys []string
	p.YChanges().Subscribe(func(d string) { ys = append(ys, d) })
	p.SetSelection([]int{0, 1, 2, 3})

	require.NoError(t, p.SetYDimension("s"))
	require.NoError(t, p.SetYDimension("s"))
	assert.Equal(t, []string{"s"}, ys)
	assert.Equal(t, scales.Point, p.YScale().Kind())
	assert.Equal(t, []int{0, 1, 2}, p.PlottablePoints(p.Selection()))
	assert.Equal(t, geom.Point{X: 50, Y: 100}, p.Position(2))

	err := p.SetXDimension("FILE")
	assert.True(t, core.IsNotFoundError(err))

	var xs []string
	p.XChanges().Subscribe(func(d string) { xs = append(xs, d) })
	require.NoError(t, p.SetXDimension("b"))
	assert.Equal(t, []string{"b"}, xs)
}

func TestLogscale(t *testing.T) {
	p := newPlot(t, regexp.MustCompile("^[ab]$"))
	assert.Equal(t, scales.Log, p.YScale().Kind())
	assert.Equal(t, scales.Linear, p.XScale().Kind(), "a domain starting at zero cannot be logarithmic")
}

func TestSingleDimension(t *testing.T) {
	ds, dims := visible(t)
	p, err := New(ds, dims[:1], DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "a", p.XDimension())
	assert.Equal(t, "a", p.YDimension())

	_, err = New(ds, nil, DefaultOptions())
	assert.True(t, core.IsInvalidInput(err))
}

func TestUpdateSize(t *testing.T) {
	p := newPlot(t, nil)
	p.UpdateSize(200, 50)
	assert.Equal(t, geom.Point{X: 200, Y: 0}, p.Position(1))
	assert.Equal(t, geom.Point{X: 0, Y: 50}, p.Position(0))
	assert.Equal(t, 200, p.PickBuffer().Bounds().Dx())
}

func TestOverlaysAndHighlights(t *testing.T) {
	p := newPlot(t, nil)
	p.SetOverlays([]map[string]ensemble.Value{
		{"a": ensemble.NumberValue(5), "b": ensemble.NumberValue(15)},
	})
	assert.Equal(t, []geom.Point{{X: 50, Y: 50}}, p.Overlays())

	p.SetHighlighted([]int{2, 1})
	assert.Equal(t, []int{1}, p.Highlighted())
	p.SetPicked([]int{0, 3})
	assert.Equal(t, []int{0}, p.Picked())
}
