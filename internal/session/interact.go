package session

import (
	"fmt"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal/brush"
	"gocinema/internal/catalog"
	"gocinema/internal/dataset"
	"gocinema/internal/pcoord"
	"gocinema/internal/profiling"
	"gocinema/internal/query"
)

// CustomOrdering is the axis panel entry for an order no ordering names
const CustomOrdering = "Custom"

// Overlay styles of a similarity query
var (
	CustomStyle = pcoord.OverlayStyle{LineWidth: 3, StrokeStyle: "red", LineDash: []float64{20, 7}}
	BoundStyle  = pcoord.OverlayStyle{LineWidth: 2, StrokeStyle: "pink"}
)

// View names a chart for hit testing
type View string

const (
	ViewPcoord  View = "pcoord"
	ViewScatter View = "scatter"
)

func (s *Session) checkRow(i int) error {
	if i < 0 || i >= s.ds.RowCount() {
		return fmt.Errorf("%w: %d", core.ErrRowNotFound, i)
	}
	return nil
}

func (s *Session) selectionText() string {
	return fmt.Sprintf("%d out of %d results selected", len(s.pcoord.Selection()), s.ds.RowCount())
}

// Selection returns the selected rows and the selected-count text
func (s *Session) Selection() ([]int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, "", err
	}
	return s.pcoord.Selection(), s.selectionText(), nil
}

// SetSelection brushes the axes around rows
func (s *Session) SetSelection(rows []int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pcoord.SetSelection(rows), nil
}

// SetBrush sets or, with a nil extent, clears the brush on dim
func (s *Session) SetBrush(dim string, ext *brush.Extent) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pcoord.SetExtent(dim, ext)
}

// Brushes returns the active brush of every dimension
func (s *Session) Brushes() (map[string]brush.Extent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pcoord.Extents(), nil
}

// Similar answers a similarity query
func (s *Session) Similar(q dataset.Query, threshold float64) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.opts.Metrics.SimilarityQuery()
	return s.ds.GetSimilar(q, threshold), nil
}

// DragPhase is a step of an axis drag
type DragPhase string

const (
	DragStart DragPhase = "start"
	DragMove  DragPhase = "move"
	DragEnd   DragPhase = "end"
)

// Drag moves dim through one phase of a drag and returns the axis order
func (s *Session) Drag(dim string, phase DragPhase, x float64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	var err error
	switch phase {
	case DragStart:
		err = s.pcoord.BeginDrag(dim)
	case DragMove:
		_, err = s.pcoord.UpdateDrag(dim, x)
	case DragEnd:
		err = s.pcoord.EndDrag(dim)
	default:
		err = core.NewInvalidInputError("phase", fmt.Sprintf("unknown drag phase %q", phase))
	}
	if err != nil {
		return nil, err
	}
	return s.pcoord.Dimensions(), nil
}

// AxisOrder returns the current axis order
func (s *Session) AxisOrder() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.pcoord.Dimensions(), nil
}

// SetAxisOrder moves the named axes to the front in the given order. The
// axis panel then shows Custom.
func (s *Session) SetAxisOrder(order []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.ordering = ordering{}
	return s.pcoord.SetAxisOrder(order), nil
}

// Orderings lists the axis orderings of the dataset
type Orderings struct {
	Available []ensemble.AxisOrdering `json:"available"`
	Category  string                  `json:"category"`
	Current   string                  `json:"current"`
}

func (s *Session) Orderings() (Orderings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Orderings{}, err
	}
	out := Orderings{Available: []ensemble.AxisOrdering{}, Current: CustomOrdering}
	if s.ds.HasAxisOrdering() {
		out.Available = s.ds.AxisOrders().All()
	}
	if !s.ordering.isCustom() {
		out.Category, out.Current = s.ordering.Category, s.ordering.Name
	}
	return out, nil
}

// ApplyOrdering lays the axes out in a named ordering
func (s *Session) ApplyOrdering(category, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !s.ds.HasAxisOrdering() {
		return nil, fmt.Errorf("%w: %s/%s", core.ErrOrderingNotFound, category, name)
	}
	o, ok := s.ds.AxisOrders().Find(category, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", core.ErrOrderingNotFound, category, name)
	}
	order := s.pcoord.SetAxisOrder(o.Order)
	s.ordering = ordering{Category: category, Name: name}
	return order, nil
}

// TogglePicked adds or removes row i from the picked rows
func (s *Session) TogglePicked(i int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := s.checkRow(i); err != nil {
		return nil, err
	}
	out := s.picked[:0:0]
	found := false
	for _, r := range s.picked {
		if r == i {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, i)
	}
	s.picked = out
	s.pcoord.SetPicked(out)
	s.scatter.SetPicked(out)
	return append([]int(nil), out...), nil
}

// Picked returns the picked rows
func (s *Session) Picked() ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return append([]int(nil), s.picked...), nil
}

// Highlight marks rows as hovered on both charts
func (s *Session) Highlight(rows []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	for _, r := range rows {
		if err := s.checkRow(r); err != nil {
			return err
		}
	}
	s.pcoord.SetHighlighted(rows)
	s.scatter.SetHighlighted(rows)
	return nil
}

// Field is one value of the info pane
type Field struct {
	Dimension string         `json:"dimension"`
	Value     ensemble.Value `json:"value"`
}

// Info is the info pane of a row: its index and visible values
type Info struct {
	Index  int     `json:"index"`
	Fields []Field `json:"fields"`
}

func (s *Session) Describe(i int) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Info{}, err
	}
	if err := s.checkRow(i); err != nil {
		return Info{}, err
	}
	info := Info{Index: i, Fields: make([]Field, 0, len(s.visible))}
	for _, d := range s.visible {
		info.Fields = append(info.Fields, Field{Dimension: d.Name, Value: s.ds.Value(i, d.Name)})
	}
	return info, nil
}

// Pick returns the row under (x, y) on a chart. Drawing is completed first.
func (s *Session) Pick(view View, x, y int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	s.flush()
	var (
		row int
		ok  bool
	)
	switch view {
	case ViewPcoord, "":
		row, ok = s.pcoord.PickAt(x, y)
	case ViewScatter:
		row, ok = s.scatter.PickAt(x, y)
	default:
		return 0, false, core.NewInvalidInputError("view", fmt.Sprintf("unknown view %q", view))
	}
	s.opts.Metrics.HitTest(ok)
	return row, ok, nil
}

// Resize gives both charts a new size
func (s *Session) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return core.NewInvalidInputError("size", fmt.Sprintf("%gx%g must be positive", width, height))
	}
	if limit := s.opts.MaxSize; limit > 0 && (width > limit || height > limit) {
		return core.NewInvalidInputError("size", fmt.Sprintf("%gx%g exceeds the %g limit", width, height, limit))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.pcoord.UpdateSize(width, height)
	s.scatter.UpdateSize(width, height)
	return nil
}

// SetSmooth switches between curved and straight paths
func (s *Session) SetSmooth(smooth bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.pcoord.SetSmooth(smooth)
	return nil
}

// PathView is one path of the parallel coordinates chart
type PathView struct {
	Row         int                  `json:"row"`
	D           string               `json:"d"`
	Highlighted bool                 `json:"highlighted,omitempty"`
	Picked      bool                 `json:"picked,omitempty"`
	Style       *pcoord.OverlayStyle `json:"style,omitempty"`
}

// Paths is what the parallel coordinates chart draws
type Paths struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Axes     []pcoord.Axis `json:"axes"`
	Paths    []PathView    `json:"paths"`
	Overlays []PathView    `json:"overlays"`
}

func (s *Session) Paths() (Paths, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return Paths{}, err
	}
	w, h := s.pcoord.Size()
	out := Paths{Width: w, Height: h, Axes: s.pcoord.Axes(), Paths: []PathView{}, Overlays: []PathView{}}
	highlighted := toSet(s.pcoord.Highlighted())
	picked := toSet(s.picked)
	for _, r := range s.pcoord.Selection() {
		out.Paths = append(out.Paths, PathView{
			Row:         r,
			D:           s.pcoord.Path(r).SVG(),
			Highlighted: highlighted[r],
			Picked:      picked[r],
		})
	}
	for _, o := range s.pcoord.Overlays() {
		style := o.Style
		out.Overlays = append(out.Overlays, PathView{Row: -1, D: s.pcoord.PathFor(o.Values).SVG(), Style: &style})
	}
	return out, nil
}

// ScatterPoint is a plotted row
type ScatterPoint struct {
	Row         int     `json:"row"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Picked      bool    `json:"picked,omitempty"`
}

// ScatterView is what the scatter plot draws
type ScatterView struct {
	X        string         `json:"x"`
	Y        string         `json:"y"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Points   []ScatterPoint `json:"points"`
	Overlays []ScatterPoint `json:"overlays"`
	Warning  string         `json:"warning,omitempty"`
}

func (s *Session) Scatter() (ScatterView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return ScatterView{}, err
	}
	w, h := s.scatter.Size()
	out := ScatterView{
		X: s.scatter.XDimension(), Y: s.scatter.YDimension(),
		Width: w, Height: h,
		Points: []ScatterPoint{}, Overlays: []ScatterPoint{},
		Warning: s.scatter.Warning(),
	}
	highlighted := toSet(s.scatter.Highlighted())
	picked := toSet(s.scatter.Picked())
	for _, p := range s.scatter.Points() {
		out.Points = append(out.Points, ScatterPoint{
			Row: p.Row, X: p.X, Y: p.Y,
			Highlighted: highlighted[p.Row],
			Picked:      picked[p.Row],
		})
	}
	for _, pt := range s.scatter.Overlays() {
		out.Overlays = append(out.Overlays, ScatterPoint{Row: -1, X: pt.X, Y: pt.Y})
	}
	return out, nil
}

// SetScatterAxes changes the scatter plot dimensions; an empty name keeps
// the current one
func (s *Session) SetScatterAxes(x, y string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if x != "" {
		if err := s.scatter.SetXDimension(x); err != nil {
			return err
		}
	}
	if y != "" {
		if err := s.scatter.SetYDimension(y); err != nil {
			return err
		}
	}
	return nil
}

// QueryResult is the answer of the query panel
type QueryResult struct {
	query.Result
	Threshold float64      `json:"threshold"`
	Bounds    query.Change `json:"bounds"`
	Selection []int        `json:"selection"`
}

// Query sets the custom point to values, in domain units, and the threshold,
// then runs the query. Dimensions missing from values leave the custom point.
// A non-empty result becomes the selection; the custom point and its bounds
// become overlays.
func (s *Session) Query(values map[string]float64, threshold float64) (QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return QueryResult{}, err
	}
	for dim := range values {
		if !s.hasQueryDimension(dim) {
			return QueryResult{}, core.NewNotFoundError("query dimension", dim)
		}
	}
	if err := s.query.SetThreshold(threshold); err != nil {
		return QueryResult{}, err
	}
	for _, dim := range s.query.Dimensions() {
		v, ok := values[dim]
		if !ok {
			if err := s.query.Disable(dim); err != nil {
				return QueryResult{}, err
			}
			continue
		}
		if err := s.query.SetValue(dim, v); err != nil {
			return QueryResult{}, err
		}
	}

	res := s.query.Run()
	s.opts.Metrics.SimilarityQuery()
	if len(res.Rows) > 0 {
		s.pcoord.SetSelection(res.Rows)
	}

	bounds := s.query.Snapshot()
	custom := toValues(bounds.Custom)
	s.pcoord.SetOverlays([]pcoord.Overlay{
		{Values: custom, Style: CustomStyle},
		{Values: toValues(bounds.Upper), Style: BoundStyle},
		{Values: toValues(bounds.Lower), Style: BoundStyle},
	})
	s.scatter.SetOverlays([]map[string]ensemble.Value{custom})
	s.log.Info("%s", res.Readout)

	return QueryResult{
		Result:    res,
		Threshold: s.query.Threshold(),
		Bounds:    bounds,
		Selection: s.pcoord.Selection(),
	}, nil
}

func (s *Session) hasQueryDimension(dim string) bool {
	for _, d := range s.query.Dimensions() {
		if d == dim {
			return true
		}
	}
	return false
}

// ClearQuery removes the query overlays
func (s *Session) ClearQuery() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	s.pcoord.SetOverlays(nil)
	s.scatter.SetOverlays(nil)
	return nil
}

// Settings exports the catalog with the live database carrying the current
// viewer settings
func (s *Session) Settings() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	live := s.entry.WithSettings(catalog.Settings{
		Filter:      s.entry.FilterPattern(),
		Logscale:    s.entry.LogscalePattern(),
		SmoothLines: s.pcoord.Smooth(),
		LineOpacity: s.entry.Opacity(),
		Picked:      s.picked,
	})
	cat := s.catalog
	if cat == nil {
		cat = &catalog.Catalog{Entries: []catalog.Entry{live}}
	}
	return cat.Export(&live)
}

// Report renders a markdown overview of the selected rows
func (s *Session) Report() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return "", err
	}
	rows := s.pcoord.Selection()
	report := profiling.Report(s.entry.Label(), s.ds, profiling.Profile(s.ds, rows))
	return report + "\n" + s.selectionText() + "\n", nil
}

func toSet(rows []int) map[int]bool {
	out := make(map[int]bool, len(rows))
	for _, r := range rows {
		out[r] = true
	}
	return out
}

func toValues(m map[string]float64) map[string]ensemble.Value {
	out := make(map[string]ensemble.Value, len(m))
	for k, v := range m {
		out[k] = ensemble.NumberValue(v)
	}
	return out
}
