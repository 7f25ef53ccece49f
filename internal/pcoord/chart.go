// Package pcoord models a parallel coordinates chart: one vertical axis per
// visible dimension, one path per row, brushing, axis dragging and a pick
// raster for hit testing.
package pcoord

import (
	"math"
	"regexp"
	"time"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal"
	"gocinema/internal/brush"
	"gocinema/internal/dataset"
	"gocinema/internal/drawtask"
	"gocinema/internal/events"
	"gocinema/internal/geom"
	"gocinema/internal/hittest"
	"gocinema/internal/reorder"
	"gocinema/internal/scales"
)

var logger = internal.DefaultLogger.Component("Pcoord")

// nanMarginRatio reserves the bottom eleventh of every numeric axis for the
// NaN tick
const nanMarginRatio = 11

// pickLineWidth is the stroke width rows get on the pick raster
const pickLineWidth = 3

// Options configures a Chart
type Options struct {
	Width, Height float64
	Logscale      *regexp.Regexp
	Smooth        bool
	BrushPadding  float64
	Decoder       hittest.Decoder
	Window        int
	DrawBatch     int
	DrawTick      time.Duration
}

// DefaultOptions returns the sizes and tunables used when nothing is
// configured
func DefaultOptions() Options {
	return Options{
		Width:        800,
		Height:       400,
		Smooth:       true,
		BrushPadding: 5,
		Decoder:      hittest.DefaultDecoder,
		Window:       3,
		DrawBatch:    25,
		DrawTick:     16 * time.Millisecond,
	}
}

// OverlayStyle describes how an overlay path is stroked
type OverlayStyle struct {
	LineWidth   float64   `json:"lineWidth"`
	StrokeStyle string    `json:"strokeStyle"`
	LineDash    []float64 `json:"lineDash,omitempty"`
}

// Overlay is an extra path drawn from values that are not a dataset row,
// such as the custom point of a similarity query
type Overlay struct {
	Values map[string]ensemble.Value `json:"values"`
	Style  OverlayStyle              `json:"style"`
}

// Axis is one vertical axis as it should be rendered
type Axis struct {
	Name  string        `json:"name"`
	X     float64       `json:"x"`
	Kind  string        `json:"kind"`
	Ticks []scales.Tick `json:"ticks"`
	// NaNY is where rows without a numeric value sit, zero for point axes
	NaNY float64 `json:"nanY,omitempty"`
}

// Chart is a parallel coordinates chart over the visible dimensions of a
// dataset. It is not safe for concurrent use; the session serializes access.
type Chart struct {
	ds     *dataset.Dataset
	dims   []ensemble.Dimension
	byName map[string]ensemble.Dimension

	width, height float64
	smooth        bool
	logscale      *regexp.Regexp

	y     *scales.Registry
	axes  *reorder.Reorderer
	brush *brush.Engine
	pick  *hittest.Buffer
	draw  *drawtask.Scheduler

	highlighted []int
	picked      []int
	overlays    []Overlay
}

// New builds a chart over dims, which must be dimensions of ds, laid out in
// the given order
func New(ds *dataset.Dataset, dims []ensemble.Dimension, opts Options) *Chart {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	c := &Chart{
		ds:       ds,
		dims:     append([]ensemble.Dimension(nil), dims...),
		byName:   make(map[string]ensemble.Dimension, len(dims)),
		width:    opts.Width,
		height:   opts.Height,
		smooth:   opts.Smooth,
		logscale: opts.Logscale,
	}
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name
		c.byName[d.Name] = d
	}

	c.y = scales.NewRegistry(c.dims, c.logscale, c.rangeFor)
	c.axes = reorder.New(names, c.width)
	c.brush = brush.New(names, ds.RowCount(), brush.PositionFunc(c.YPosition),
		brush.WithPadding(opts.BrushPadding),
		brush.WithBounds(0, c.height))
	c.pick = hittest.NewBuffer(int(c.width), int(c.height),
		hittest.WithDecoder(opts.Decoder),
		hittest.WithWindow(opts.Window))
	c.draw = drawtask.New(opts.DrawBatch, opts.DrawTick)

	c.brush.Changes().Subscribe(func([]int) { c.Redraw() })
	c.axes.Changes().Subscribe(func(order []string) { c.brush.SetOrder(order) })

	c.Redraw()
	return c
}

func (c *Chart) nanMargin() float64 { return c.height / nanMarginRatio }

func (c *Chart) rangeFor(_ ensemble.Dimension, kind scales.Kind) scales.Range {
	if kind == scales.Point {
		return scales.Range{From: c.height, To: 0}
	}
	return scales.Range{From: c.height - c.nanMargin(), To: 0}
}

// Size returns the internal width and height
func (c *Chart) Size() (float64, float64) { return c.width, c.height }

// Dimensions returns the visible dimensions in the committed axis order
func (c *Chart) Dimensions() []string { return c.axes.Order() }

// SelectionChanges publishes every new selection produced by brushing
func (c *Chart) SelectionChanges() *events.Channel[[]int] { return c.brush.Changes() }

// AxisOrderChanges publishes the axis order whenever a drag changes it
func (c *Chart) AxisOrderChanges() *events.Channel[[]string] { return c.axes.Changes() }

// XPosition is the horizontal position of an axis, following the pointer
// while it is dragged
func (c *Chart) XPosition(dim string) float64 { return c.axes.Position(dim) }

// YPosition is the vertical position of row on dim. Rows with no numeric
// value on a numeric axis sit on the NaN tick at the bottom of the chart;
// unknown strings cannot be placed and give NaN.
func (c *Chart) YPosition(dim string, row int) float64 {
	return c.yFor(dim, c.ds.Value(row, dim))
}

func (c *Chart) yFor(dim string, v ensemble.Value) float64 {
	d, ok := c.byName[dim]
	if !ok {
		return math.NaN()
	}
	if !d.IsString() && v.IsNaN() {
		return c.height
	}
	return c.y.Forward(dim, v)
}

// Path returns the path of a row
func (c *Chart) Path(row int) geom.Path {
	return c.path(func(dim string) ensemble.Value { return c.ds.Value(row, dim) })
}

// PathFor returns the path through arbitrary values; dimensions missing from
// values break the path like absent cells do
func (c *Chart) PathFor(values map[string]ensemble.Value) geom.Path {
	return c.path(func(dim string) ensemble.Value {
		v, ok := values[dim]
		if !ok {
			return ensemble.AbsentValue()
		}
		return v
	})
}

// path splits the axes into runs of present values. A run of one axis is a
// short horizontal tick; longer runs are joined by cubics whose control
// points leave each axis horizontally.
func (c *Chart) path(value func(dim string) ensemble.Value) geom.Path {
	order := c.axes.Order()
	if len(order) == 0 {
		return nil
	}
	curve := 0.0
	if c.smooth {
		curve = c.width / float64(len(order)) / 3
	}
	single := c.width / float64(len(order)) / 5

	var sections [][]string
	var current []string
	for _, dim := range order {
		if value(dim).IsAbsent() {
			if len(current) > 0 {
				sections = append(sections, current)
				current = nil
			}
			continue
		}
		current = append(current, dim)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}

	var p geom.Path
	for _, section := range sections {
		if len(section) == 1 {
			dim := section[0]
			x, y := c.XPosition(dim), c.yFor(dim, value(dim))
			p.MoveTo(geom.Point{X: x - single/2, Y: y})
			p.LineTo(geom.Point{X: x + single/2, Y: y})
			continue
		}
		var prev geom.Point
		for i, dim := range section {
			pt := geom.Point{X: c.XPosition(dim), Y: c.yFor(dim, value(dim))}
			if i == 0 {
				p.MoveTo(pt)
			} else {
				p.CubeTo(
					geom.Point{X: prev.X + curve, Y: prev.Y},
					geom.Point{X: pt.X - curve, Y: pt.Y},
					pt)
			}
			prev = pt
		}
	}
	return p
}

// Axes returns the axes in order with their ticks
func (c *Chart) Axes() []Axis {
	order := c.axes.Order()
	out := make([]Axis, 0, len(order))
	for _, name := range order {
		s, ok := c.y.Get(name)
		if !ok {
			continue
		}
		a := Axis{
			Name:  name,
			X:     c.XPosition(name),
			Kind:  s.Kind().String(),
			Ticks: s.Ticks(10),
		}
		if s.Kind() != scales.Point {
			a.NaNY = c.height
		}
		out = append(out, a)
	}
	return out
}

// UpdateSize resizes the chart. Scales are rebuilt for the new size and
// brushed extents scale with the height.
func (c *Chart) UpdateSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	// allocate the raster first so a failed allocation leaves the chart as it was
	c.pick.Resize(int(width), int(height))
	oldH := c.height
	c.width, c.height = width, height
	c.y.Rebuild(c.rangeFor)
	c.axes.Resize(width)
	c.brush.SetBounds(0, height)
	if oldH > 0 && oldH != height {
		c.brush.Rescale(height / oldH)
	}
	c.Redraw()
}

// Selection returns the currently selected rows
func (c *Chart) Selection() []int { return c.brush.Selection() }

// SetSelection brushes every axis to the span of rows, padded, so that at
// least those rows end up selected. An empty set changes nothing.
func (c *Chart) SetSelection(rows []int) []int {
	valid := make([]int, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < c.ds.RowCount() {
			valid = append(valid, r)
		}
	}
	return c.brush.SetSelection(valid)
}

// SetExtent brushes dim to ext, or clears it for nil
func (c *Chart) SetExtent(dim string, ext *brush.Extent) ([]int, error) {
	if _, ok := c.byName[dim]; !ok {
		return nil, core.NewNotFoundError("dimension", dim)
	}
	return c.brush.SetExtent(dim, ext), nil
}

// Extents returns the brushed extents by dimension
func (c *Chart) Extents() map[string]brush.Extent { return c.brush.Extents() }

// ClearBrushes removes every constraint
func (c *Chart) ClearBrushes() []int { return c.brush.ClearAll() }

// BeginDrag starts dragging an axis
func (c *Chart) BeginDrag(dim string) error { return c.axes.BeginDrag(dim) }

// UpdateDrag moves a dragged axis to x and returns the committed order
func (c *Chart) UpdateDrag(dim string, x float64) ([]string, error) {
	return c.axes.UpdateDrag(dim, x)
}

// EndDrag drops a dragged axis back onto its committed position and redraws
func (c *Chart) EndDrag(dim string) error {
	if err := c.axes.EndDrag(dim); err != nil {
		return err
	}
	c.Redraw()
	return nil
}

// SetAxisOrder reorders the axes. Unknown names are ignored and visible
// dimensions missing from order keep their relative order at the end.
// No axis order event is published.
func (c *Chart) SetAxisOrder(order []string) []string {
	committed := c.axes.SetOrder(order)
	c.brush.SetOrder(committed)
	c.Redraw()
	return committed
}

// SetSmooth switches between cubic and straight paths
func (c *Chart) SetSmooth(smooth bool) {
	if c.smooth == smooth {
		return
	}
	c.smooth = smooth
	c.Redraw()
}

// Smooth reports whether paths are curved
func (c *Chart) Smooth() bool { return c.smooth }

// SetHighlighted replaces the highlighted rows
func (c *Chart) SetHighlighted(rows []int) { c.highlighted = append([]int(nil), rows...) }

// Highlighted returns the highlighted rows
func (c *Chart) Highlighted() []int { return append([]int(nil), c.highlighted...) }

// SetPicked replaces the picked rows
func (c *Chart) SetPicked(rows []int) { c.picked = append([]int(nil), rows...) }

// Picked returns the picked rows
func (c *Chart) Picked() []int { return append([]int(nil), c.picked...) }

// SetOverlays replaces the overlay paths
func (c *Chart) SetOverlays(overlays []Overlay) { c.overlays = append([]Overlay(nil), overlays...) }

// Overlays returns the overlay paths
func (c *Chart) Overlays() []Overlay { return append([]Overlay(nil), c.overlays...) }

// Redraw restarts drawing the selection onto the pick raster. Each row is
// drawn in the color of its position in the selection.
func (c *Chart) Redraw() {
	queue := c.brush.Selection()
	c.pick.Reset(queue)
	slots := make([]int, len(queue))
	for i := range slots {
		slots[i] = i
	}
	c.draw.Start(slots, func(slot int) {
		c.pick.StrokePath(c.Path(queue[slot]), pickLineWidth, slot)
	})
	logger.Trace("redraw of %d paths scheduled", len(queue))
}

// Drawing exposes the scheduler drawing the pick raster
func (c *Chart) Drawing() *drawtask.Scheduler { return c.draw }

// PickBuffer exposes the pick raster
func (c *Chart) PickBuffer() *hittest.Buffer { return c.pick }

// PickAt returns the row whose path is under (x, y). Rows not yet drawn by
// the drawing task cannot be picked.
func (c *Chart) PickAt(x, y int) (int, bool) { return c.pick.Pick(x, y) }
