// Package query holds the "find similar" panel: a custom data point built
// from per-dimension sliders and a distance threshold.
package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/scale"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal/dataset"
	"gocinema/internal/events"
)

const (
	sliderMax     = 100
	sliderDefault = 50

	// DefaultThreshold is the threshold a new panel starts with
	DefaultThreshold = 1.0
)

// slider maps a [0, 100] slider position onto a dimension's domain
type slider struct {
	pos scale.Linear
	lo  float64
	hi  float64
}

func newSlider(d ensemble.Domain) slider {
	return slider{pos: scale.Linear{Min: 0, Max: sliderMax}, lo: d.Min, hi: d.Max}
}

func (s slider) value(pos float64) float64 {
	return s.lo + s.pos.Map(pos)*(s.hi-s.lo)
}

func (s slider) position(v float64) float64 {
	if s.hi == s.lo {
		return sliderDefault
	}
	return s.pos.Unmap((v - s.lo) / (s.hi - s.lo))
}

// Change is published whenever the custom point, and so its bounds, changes
type Change struct {
	Custom map[string]float64 `json:"custom"`
	Lower  map[string]float64 `json:"lower"`
	Upper  map[string]float64 `json:"upper"`
}

// Result is the answer to a query
type Result struct {
	Rows    []int  `json:"rows"`
	Readout string `json:"readout"`
}

// Panel is not safe for concurrent use
type Panel struct {
	ds        *dataset.Dataset
	dims      []string
	sliders   map[string]slider
	positions map[string]float64
	enabled   map[string]bool
	threshold float64

	changes *events.Channel[Change]
}

// New creates a panel over the numeric dimensions among dims
func New(ds *dataset.Dataset, dims []ensemble.Dimension) *Panel {
	p := &Panel{
		ds:        ds,
		sliders:   make(map[string]slider),
		positions: make(map[string]float64),
		enabled:   make(map[string]bool),
		threshold: DefaultThreshold,
		changes:   events.NewChannel[Change](),
	}
	for _, d := range dims {
		if !d.Type.IsNumeric() {
			continue
		}
		p.dims = append(p.dims, d.Name)
		p.sliders[d.Name] = newSlider(d.Domain)
		p.positions[d.Name] = sliderDefault
	}
	return p
}

// Changes publishes the custom point with its bounds
func (p *Panel) Changes() *events.Channel[Change] { return p.changes }

// Dimensions returns the dimensions the panel has sliders for
func (p *Panel) Dimensions() []string { return append([]string(nil), p.dims...) }

func (p *Panel) check(dim string) error {
	if _, ok := p.sliders[dim]; !ok {
		return core.NewNotFoundError("dimension", dim)
	}
	return nil
}

// Slider returns a slider position and whether its dimension is enabled
func (p *Panel) Slider(dim string) (float64, bool) {
	return p.positions[dim], p.enabled[dim]
}

// SetSlider moves a slider, clamped to [0, 100], and enables its dimension
func (p *Panel) SetSlider(dim string, pos float64) error {
	if err := p.check(dim); err != nil {
		return err
	}
	if math.IsNaN(pos) {
		return core.NewInvalidInputError(dim, "slider position is NaN")
	}
	p.positions[dim] = math.Max(0, math.Min(sliderMax, pos))
	p.enabled[dim] = true
	p.publish()
	return nil
}

// SetValue places a slider at the position of v in its domain
func (p *Panel) SetValue(dim string, v float64) error {
	if err := p.check(dim); err != nil {
		return err
	}
	return p.SetSlider(dim, p.sliders[dim].position(v))
}

// Enable adds dim to the custom point at its current slider position
func (p *Panel) Enable(dim string) error {
	if err := p.check(dim); err != nil {
		return err
	}
	p.enabled[dim] = true
	p.publish()
	return nil
}

// Disable removes dim from the custom point
func (p *Panel) Disable(dim string) error {
	if err := p.check(dim); err != nil {
		return err
	}
	delete(p.enabled, dim)
	p.publish()
	return nil
}

// Threshold returns the distance threshold
func (p *Panel) Threshold() float64 { return p.threshold }

// SetThreshold changes the threshold, which must lie in [0, number of
// dimensions]
func (p *Panel) SetThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > float64(len(p.dims)) {
		return core.NewInvalidInputError("threshold", fmt.Sprintf("must be between 0 and %d", len(p.dims)))
	}
	p.threshold = t
	p.publish()
	return nil
}

// Custom returns the custom point in domain units
func (p *Panel) Custom() map[string]float64 {
	out := make(map[string]float64, len(p.enabled))
	for dim := range p.enabled {
		out[dim] = p.sliders[dim].value(p.positions[dim])
	}
	return out
}

// Query returns the custom point as a similarity query
func (p *Panel) Query() dataset.Query {
	q := make(dataset.Query, len(p.enabled))
	for dim, v := range p.Custom() {
		q[dim] = ensemble.NumberValue(v)
	}
	return q
}

// Bounds approximates where similar rows lie around the custom point: the
// threshold is spread evenly over the enabled dimensions, in slider units.
func (p *Panel) Bounds() (lower, upper map[string]float64) {
	lower = make(map[string]float64, len(p.enabled))
	upper = make(map[string]float64, len(p.enabled))
	if len(p.enabled) == 0 {
		return lower, upper
	}
	avg := p.threshold / float64(len(p.enabled)) * sliderMax
	for dim := range p.enabled {
		s, pos := p.sliders[dim], p.positions[dim]
		lower[dim] = s.value(math.Max(pos-avg, 0))
		upper[dim] = s.value(math.Min(pos+avg, sliderMax))
	}
	return lower, upper
}

// Snapshot returns the custom point with its bounds
func (p *Panel) Snapshot() Change {
	lower, upper := p.Bounds()
	return Change{Custom: p.Custom(), Lower: lower, Upper: upper}
}

func (p *Panel) publish() { p.changes.Publish(p.Snapshot()) }

// Enabled returns the enabled dimensions in panel order
func (p *Panel) Enabled() []string {
	out := make([]string, 0, len(p.enabled))
	for dim := range p.enabled {
		out = append(out, dim)
	}
	order := make(map[string]int, len(p.dims))
	for i, d := range p.dims {
		order[d] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// Run finds the rows within the threshold of the custom point
func (p *Panel) Run() Result {
	rows := p.ds.GetSimilar(p.Query(), p.threshold)
	return Result{Rows: rows, Readout: fmt.Sprintf("%d results found!", len(rows))}
}
