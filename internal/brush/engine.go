// Package brush intersects per-dimension range constraints, expressed in
// scaled coordinates, into a selection of row indices.
package brush

import (
	"math"

	"gocinema/internal/events"
)

// Positioner gives the scaled coordinate of a row on a dimension, NaN when
// the row cannot be placed there.
type Positioner interface {
	Position(dim string, row int) float64
}

// PositionFunc adapts a function to Positioner
type PositionFunc func(dim string, row int) float64

func (f PositionFunc) Position(dim string, row int) float64 { return f(dim, row) }

// Extent is an inclusive range in scaled coordinates
type Extent struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

func (e Extent) normalized() Extent {
	if e.Lo > e.Hi {
		return Extent{Lo: e.Hi, Hi: e.Lo}
	}
	return e
}

func (e Extent) contains(y float64) bool {
	return e.Lo <= y && y <= e.Hi
}

// Engine keeps one optional extent per dimension and the selection they
// produce. Engines are not safe for concurrent use.
type Engine struct {
	dims      []string
	rowCount  int
	pos       Positioner
	extents   map[string]Extent
	selection []int
	padding   float64
	bounds    *Extent

	changes *events.Channel[[]int]
}

// Option configures an Engine
type Option func(*Engine)

// WithPadding sets the symmetric padding SetSelection adds around rows
func WithPadding(px float64) Option {
	return func(e *Engine) { e.padding = px }
}

// WithBounds clamps extents installed by SetSelection to the brushable area
func WithBounds(lo, hi float64) Option {
	return func(e *Engine) { e.bounds = &Extent{Lo: lo, Hi: hi} }
}

// New creates an engine over rowCount rows with nothing brushed, so every
// row starts selected.
func New(dims []string, rowCount int, pos Positioner, opts ...Option) *Engine {
	e := &Engine{
		dims:     append([]string(nil), dims...),
		rowCount: rowCount,
		pos:      pos,
		extents:  make(map[string]Extent),
		padding:  5,
		changes:  events.NewChannel[[]int](),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.selection = e.compute()
	return e
}

// Changes publishes every new selection
func (e *Engine) Changes() *events.Channel[[]int] { return e.changes }

// Selection returns the current selection in ascending row order
func (e *Engine) Selection() []int { return append([]int(nil), e.selection...) }

// SetOrder sets the order dimensions are tested in
func (e *Engine) SetOrder(dims []string) { e.dims = append([]string(nil), dims...) }

// SetBounds changes the clamp range for SetSelection
func (e *Engine) SetBounds(lo, hi float64) { e.bounds = &Extent{Lo: lo, Hi: hi} }

// Extent returns the stored extent of dim
func (e *Engine) Extent(dim string) (Extent, bool) {
	ext, ok := e.extents[dim]
	return ext, ok
}

// Extents returns a copy of every stored extent
func (e *Engine) Extents() map[string]Extent {
	out := make(map[string]Extent, len(e.extents))
	for k, v := range e.extents {
		out[k] = v
	}
	return out
}

// SetExtent stores or, for nil and zero-width ranges, clears the constraint
// on dim and recomputes the selection.
func (e *Engine) SetExtent(dim string, ext *Extent) []int {
	e.store(dim, ext)
	return e.Recompute()
}

// ClearAll drops every constraint
func (e *Engine) ClearAll() []int {
	e.extents = make(map[string]Extent)
	return e.Recompute()
}

func (e *Engine) store(dim string, ext *Extent) {
	if ext == nil || ext.Lo == ext.Hi || math.IsNaN(ext.Lo) || math.IsNaN(ext.Hi) {
		delete(e.extents, dim)
		return
	}
	e.extents[dim] = ext.normalized()
}

// Recompute rebuilds the selection from the stored extents and publishes it
// when it differs from the previous one.
func (e *Engine) Recompute() []int {
	next := e.compute()
	if !equal(next, e.selection) {
		e.selection = next
		e.changes.Publish(e.Selection())
	}
	return e.Selection()
}

func (e *Engine) compute() []int {
	selected := []int{}
	for row := 0; row < e.rowCount; row++ {
		if e.matches(row) {
			selected = append(selected, row)
		}
	}
	return selected
}

func (e *Engine) matches(row int) bool {
	for _, dim := range e.dims {
		ext, ok := e.extents[dim]
		if !ok {
			continue
		}
		if !ext.contains(e.pos.Position(dim, row)) {
			return false
		}
	}
	return true
}

// SetSelection brushes every dimension to the padded span of the given
// rows' coordinates and recomputes. Dimensions where none of the rows can be
// placed are cleared. An empty row set changes nothing.
func (e *Engine) SetSelection(rows []int) []int {
	if len(rows) == 0 {
		return e.Selection()
	}
	for _, dim := range e.dims {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range rows {
			y := e.pos.Position(dim, row)
			if math.IsNaN(y) {
				continue
			}
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
		if math.IsInf(lo, 1) {
			e.store(dim, nil)
			continue
		}
		ext := Extent{Lo: lo - e.padding, Hi: hi + e.padding}
		if e.bounds != nil {
			ext.Lo = math.Max(ext.Lo, e.bounds.Lo)
			ext.Hi = math.Min(ext.Hi, e.bounds.Hi)
		}
		e.store(dim, &ext)
	}
	return e.Recompute()
}

// Rescale multiplies every extent by factor, used when the chart height
// changes, and recomputes.
func (e *Engine) Rescale(factor float64) []int {
	for dim, ext := range e.extents {
		scaled := Extent{Lo: ext.Lo * factor, Hi: ext.Hi * factor}
		e.store(dim, &scaled)
	}
	return e.Recompute()
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
