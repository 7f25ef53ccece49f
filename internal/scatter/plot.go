// Package scatter models a two-axis scatter plot of the current selection.
package scatter

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal"
	"gocinema/internal/dataset"
	"gocinema/internal/drawtask"
	"gocinema/internal/events"
	"gocinema/internal/geom"
	"gocinema/internal/hittest"
	"gocinema/internal/scales"
)

var logger = internal.DefaultLogger.Component("Scatter")

const (
	// MarkRadius is the radius points are displayed with
	MarkRadius = 6
	// DefaultPickRadius is the radius points occupy on the pick raster
	DefaultPickRadius = 10
)

// Options configures a Plot
type Options struct {
	Width, Height float64
	Logscale      *regexp.Regexp
	PickRadius    float64
	Decoder       hittest.Decoder
	Window        int
	DrawBatch     int
	DrawTick      time.Duration
}

// DefaultOptions returns the sizes and tunables used when nothing is
// configured
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     400,
		PickRadius: DefaultPickRadius,
		Decoder:    hittest.DefaultDecoder,
		Window:     3,
		DrawBatch:  25,
		DrawTick:   16 * time.Millisecond,
	}
}

// Point is a plotted row
type Point struct {
	Row int     `json:"row"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Plot places each selected row at (x dimension, y dimension). Rows that
// cannot be placed on either axis are left out and counted in Warning.
// Not safe for concurrent use.
type Plot struct {
	ds       *dataset.Dataset
	dims     []ensemble.Dimension
	byName   map[string]ensemble.Dimension
	logscale *regexp.Regexp

	width, height float64
	xDim, yDim    string
	x, y          scales.Scale

	selection   []int
	plottable   []int
	highlighted []int
	picked      []int
	overlays    []map[string]ensemble.Value

	radius float64
	pick   *hittest.Buffer
	draw   *drawtask.Scheduler

	xChanges *events.Channel[string]
	yChanges *events.Channel[string]
}

// New creates a plot over the visible dims, showing the first one on x and
// the second on y. A single dimension is plotted against itself.
func New(ds *dataset.Dataset, dims []ensemble.Dimension, opts Options) (*Plot, error) {
	if len(dims) == 0 {
		return nil, core.NewInvalidInputError("dimensions", "a scatter plot needs at least one visible dimension")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.PickRadius <= 0 {
		opts.PickRadius = DefaultPickRadius
	}
	p := &Plot{
		ds:       ds,
		dims:     append([]ensemble.Dimension(nil), dims...),
		byName:   make(map[string]ensemble.Dimension, len(dims)),
		logscale: opts.Logscale,
		width:    opts.Width,
		height:   opts.Height,
		xDim:     dims[0].Name,
		yDim:     dims[0].Name,
		radius:   opts.PickRadius,
		pick: hittest.NewBuffer(int(opts.Width), int(opts.Height),
			hittest.WithDecoder(opts.Decoder),
			hittest.WithWindow(opts.Window)),
		draw:     drawtask.New(opts.DrawBatch, opts.DrawTick),
		xChanges: events.NewChannel[string](),
		yChanges: events.NewChannel[string](),
	}
	if len(dims) > 1 {
		p.yDim = dims[1].Name
	}
	for _, d := range dims {
		p.byName[d.Name] = d
	}
	p.rescale()
	p.Redraw()
	return p, nil
}

func (p *Plot) scaleFor(name string, rng scales.Range) scales.Scale {
	dim := p.byName[name]
	return scales.Build(dim, scales.KindOf(dim, p.logscale), rng)
}

func (p *Plot) rescale() {
	p.x = p.scaleFor(p.xDim, scales.Range{From: 0, To: p.width})
	p.y = p.scaleFor(p.yDim, scales.Range{From: p.height, To: 0})
}

// XChanges publishes the new x dimension
func (p *Plot) XChanges() *events.Channel[string] { return p.xChanges }

// YChanges publishes the new y dimension
func (p *Plot) YChanges() *events.Channel[string] { return p.yChanges }

// Size returns the internal width and height
func (p *Plot) Size() (float64, float64) { return p.width, p.height }

// XDimension returns the dimension on the horizontal axis
func (p *Plot) XDimension() string { return p.xDim }

// YDimension returns the dimension on the vertical axis
func (p *Plot) YDimension() string { return p.yDim }

// Dimensions returns the names a user can choose from
func (p *Plot) Dimensions() []string {
	names := make([]string, len(p.dims))
	for i, d := range p.dims {
		names[i] = d.Name
	}
	return names
}

// SetXDimension shows dim on the horizontal axis
func (p *Plot) SetXDimension(dim string) error {
	if _, ok := p.byName[dim]; !ok {
		return core.NewNotFoundError("dimension", dim)
	}
	if dim == p.xDim {
		return nil
	}
	p.xDim = dim
	p.rescale()
	p.Redraw()
	p.xChanges.Publish(dim)
	return nil
}

// SetYDimension shows dim on the vertical axis
func (p *Plot) SetYDimension(dim string) error {
	if _, ok := p.byName[dim]; !ok {
		return core.NewNotFoundError("dimension", dim)
	}
	if dim == p.yDim {
		return nil
	}
	p.yDim = dim
	p.rescale()
	p.Redraw()
	p.yChanges.Publish(dim)
	return nil
}

// XScale and YScale expose the axis scales for tick rendering
func (p *Plot) XScale() scales.Scale { return p.x }

func (p *Plot) YScale() scales.Scale { return p.y }

// Locate returns where values sit on the plot; either coordinate may be NaN
func (p *Plot) Locate(values map[string]ensemble.Value) geom.Point {
	xv, ok := values[p.xDim]
	if !ok {
		xv = ensemble.AbsentValue()
	}
	yv, ok := values[p.yDim]
	if !ok {
		yv = ensemble.AbsentValue()
	}
	return geom.Point{X: p.x.Forward(xv), Y: p.y.Forward(yv)}
}

// Position returns where row sits on the plot; either coordinate may be NaN
func (p *Plot) Position(row int) geom.Point {
	return geom.Point{
		X: p.x.Forward(p.ds.Value(row, p.xDim)),
		Y: p.y.Forward(p.ds.Value(row, p.yDim)),
	}
}

// PlottablePoints keeps the rows of selection that can be placed on both axes
func (p *Plot) PlottablePoints(selection []int) []int {
	out := make([]int, 0, len(selection))
	for _, row := range selection {
		pt := p.Position(row)
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Points returns the plotted rows of the selection with their positions
func (p *Plot) Points() []Point {
	out := make([]Point, len(p.plottable))
	for i, row := range p.plottable {
		pt := p.Position(row)
		out[i] = Point{Row: row, X: pt.X, Y: pt.Y}
	}
	return out
}

// Warning describes the selected rows that could not be plotted, empty when
// every row was
func (p *Plot) Warning() string {
	missing := len(p.selection) - len(p.plottable)
	if missing <= 0 {
		return ""
	}
	return fmt.Sprintf("%d point(s) could not be plotted (because they contain NaN or undefined values).", missing)
}

// UpdateSize resizes the plot and rebuilds its scales
func (p *Plot) UpdateSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	p.pick.Resize(int(width), int(height))
	p.width, p.height = width, height
	p.rescale()
	p.Redraw()
}

// Selection returns the rows being shown
func (p *Plot) Selection() []int { return append([]int(nil), p.selection...) }

// SetSelection shows rows. The plot mirrors the selection, so it returns the
// rows unchanged.
func (p *Plot) SetSelection(rows []int) []int {
	p.selection = append([]int(nil), rows...)
	p.Redraw()
	return p.Selection()
}

// SetHighlighted replaces the highlighted rows
func (p *Plot) SetHighlighted(rows []int) { p.highlighted = append([]int(nil), rows...) }

// Highlighted returns the highlighted rows that can be plotted
func (p *Plot) Highlighted() []int { return p.PlottablePoints(p.highlighted) }

// SetPicked replaces the picked rows
func (p *Plot) SetPicked(rows []int) { p.picked = append([]int(nil), rows...) }

// Picked returns the picked rows that can be plotted
func (p *Plot) Picked() []int { return p.PlottablePoints(p.picked) }

// SetOverlays replaces the overlay points
func (p *Plot) SetOverlays(overlays []map[string]ensemble.Value) {
	p.overlays = append([]map[string]ensemble.Value(nil), overlays...)
}

// Overlays returns the positions of the overlay points
func (p *Plot) Overlays() []geom.Point {
	out := make([]geom.Point, 0, len(p.overlays))
	for _, values := range p.overlays {
		out = append(out, p.Locate(values))
	}
	return out
}

// Redraw recomputes the plottable rows and restarts drawing them onto the
// pick raster, each in the color of its position among plottable rows
func (p *Plot) Redraw() {
	p.plottable = p.PlottablePoints(p.selection)
	queue := append([]int(nil), p.plottable...)
	p.pick.Reset(queue)
	slots := make([]int, len(queue))
	for i := range slots {
		slots[i] = i
	}
	p.draw.Start(slots, func(slot int) {
		p.pick.FillCircle(p.Position(queue[slot]), p.radius, slot)
	})
	if w := p.Warning(); w != "" {
		logger.Debug("%s", w)
	}
}

// Drawing exposes the scheduler drawing the pick raster
func (p *Plot) Drawing() *drawtask.Scheduler { return p.draw }

// PickBuffer exposes the pick raster
func (p *Plot) PickBuffer() *hittest.Buffer { return p.pick }

// PickAt returns the plotted row under (x, y)
func (p *Plot) PickAt(x, y int) (int, bool) { return p.pick.Pick(x, y) }
