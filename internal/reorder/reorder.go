// Package reorder derives the committed axis order of a chart from drag
// gestures and explicit orderings.
package reorder

import (
	"fmt"
	"math"
	"sort"

	"gocinema/domain/core"
	"gocinema/internal/events"
	"gocinema/internal/scales"
)

// Reorderer tracks axis positions along a horizontal point scale. While a
// dimension is dragged its position is the pointer's, clamped to the chart.
// Not safe for concurrent use.
type Reorderer struct {
	order    []string
	known    map[string]bool
	width    float64
	x        *scales.PointScale
	override map[string]float64
	changes  *events.Channel[[]string]
}

// New places dims in the given order across [0, width] with one step of
// padding at each end.
func New(dims []string, width float64) *Reorderer {
	r := &Reorderer{
		order:    append([]string(nil), dims...),
		known:    make(map[string]bool, len(dims)),
		width:    width,
		override: make(map[string]float64),
		changes:  events.NewChannel[[]string](),
	}
	for _, d := range dims {
		r.known[d] = true
	}
	r.commit()
	return r
}

func (r *Reorderer) commit() {
	r.x = scales.NewPoint(r.order, scales.Range{From: 0, To: r.width}, 1)
}

// Changes publishes the new order whenever a drag changes it
func (r *Reorderer) Changes() *events.Channel[[]string] { return r.changes }

// Order returns the committed order
func (r *Reorderer) Order() []string { return append([]string(nil), r.order...) }

// Width returns the horizontal extent
func (r *Reorderer) Width() float64 { return r.width }

// Position returns the effective horizontal position of dim
func (r *Reorderer) Position(dim string) float64 {
	if v, ok := r.override[dim]; ok {
		return v
	}
	return r.x.Position(dim)
}

// CommittedPosition ignores any drag in progress
func (r *Reorderer) CommittedPosition(dim string) float64 {
	return r.x.Position(dim)
}

// Dragging reports whether dim has a drag in progress
func (r *Reorderer) Dragging(dim string) bool {
	_, ok := r.override[dim]
	return ok
}

// Step is the spacing between adjacent axes
func (r *Reorderer) Step() float64 { return r.x.Step() }

// BeginDrag starts a gesture at dim's committed position
func (r *Reorderer) BeginDrag(dim string) error {
	if !r.known[dim] {
		return fmt.Errorf("%w: %s", core.ErrDimensionNotFound, dim)
	}
	r.override[dim] = r.x.Position(dim)
	return nil
}

// UpdateDrag moves dim to pixelX, clamped to [0, width], and re-sorts the
// order by effective position. The new order is published when it changed.
func (r *Reorderer) UpdateDrag(dim string, pixelX float64) ([]string, error) {
	if !r.known[dim] {
		return nil, fmt.Errorf("%w: %s", core.ErrDimensionNotFound, dim)
	}
	if math.IsNaN(pixelX) {
		pixelX = r.Position(dim)
	}
	r.override[dim] = math.Min(r.width, math.Max(0, pixelX))

	previous := r.Order()
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.Position(r.order[i]) < r.Position(r.order[j])
	})
	changed := !equal(previous, r.order)
	r.commit()
	if changed {
		r.changes.Publish(r.Order())
	}
	return r.Order(), nil
}

// EndDrag clears dim's override so it snaps to its committed position
func (r *Reorderer) EndDrag(dim string) error {
	if !r.known[dim] {
		return fmt.Errorf("%w: %s", core.ErrDimensionNotFound, dim)
	}
	delete(r.override, dim)
	return nil
}

// SetOrder imposes an explicit order. Unknown names are dropped and missing
// dimensions are appended in their current relative order. No change event
// is published.
func (r *Reorderer) SetOrder(explicit []string) []string {
	next := make([]string, 0, len(r.order))
	seen := make(map[string]bool, len(r.order))
	for _, d := range explicit {
		if r.known[d] && !seen[d] {
			next = append(next, d)
			seen[d] = true
		}
	}
	for _, d := range r.order {
		if !seen[d] {
			next = append(next, d)
		}
	}
	r.order = next
	r.override = make(map[string]float64)
	r.commit()
	return r.Order()
}

// Resize changes the horizontal extent, keeping the order
func (r *Reorderer) Resize(width float64) {
	r.width = width
	for d, v := range r.override {
		r.override[d] = math.Min(width, v)
	}
	r.commit()
}

func equal(a, b []string) bool {
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
