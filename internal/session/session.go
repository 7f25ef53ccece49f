// Package session owns the explorer state of one user: the loaded dataset,
// the charts built over it and the query panel. Every operation is
// serialized by the session mutex.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gocinema/domain/core"
	"gocinema/domain/ensemble"
	"gocinema/internal"
	"gocinema/internal/catalog"
	"gocinema/internal/csvparse"
	"gocinema/internal/dataset"
	"gocinema/internal/metrics"
	"gocinema/internal/pcoord"
	"gocinema/internal/query"
	"gocinema/internal/scatter"
	"gocinema/ports"
)

// Table names inside a database
const (
	PrimaryTable   = "data"
	AxisOrderTable = "axis_order"
)

const msgPrimaryFailed = "Error loading data.csv!"

// State is the lifecycle of a session
type State int

const (
	NoDataset State = iota
	Loading
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case NoDataset:
		return "no_dataset"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Options configures the charts a load builds
type Options struct {
	Chart   pcoord.Options
	Scatter scatter.Options
	// MaxSize bounds each side of a resized chart
	MaxSize float64
	// DataRoot resolves relative database directories
	DataRoot string
	Metrics  *metrics.Metrics
}

// DefaultOptions returns chart defaults and the working directory as root
func DefaultOptions() Options {
	return Options{
		Chart:    pcoord.DefaultOptions(),
		Scatter:  scatter.DefaultOptions(),
		MaxSize:  4096,
		DataRoot: ".",
	}
}

// ordering names the axis ordering the panel shows; the zero value is Custom
type ordering struct {
	Category string
	Name     string
}

func (o ordering) isCustom() bool { return o == ordering{} }

// Session is the single owner of the loaded dataset
type Session struct {
	mu      sync.Mutex
	source  ports.TableSource
	catalog *catalog.Catalog
	opts    Options
	log     *internal.Logger

	state   State
	loadID  core.LoadID
	cancel  context.CancelFunc
	lastErr error

	entry    catalog.Entry
	ds       *dataset.Dataset
	visible  []ensemble.Dimension
	pcoord   *pcoord.Chart
	scatter  *scatter.Plot
	query    *query.Panel
	picked   []int
	ordering ordering
	unsubs   []func()
}

// New creates an empty session reading tables from source. cat may be nil,
// in which case settings export only covers the live database.
func New(source ports.TableSource, cat *catalog.Catalog, opts Options) *Session {
	if opts.DataRoot == "" {
		opts.DataRoot = "."
	}
	return &Session{
		source:  source,
		catalog: cat,
		opts:    opts,
		log:     internal.DefaultLogger.Component("Session"),
	}
}

// Catalog returns the catalog the session was created with
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Load replaces the dataset with the database of entry. A load supersedes
// any load in flight, whose result is then discarded with ErrStaleLoad. On
// failure the previous dataset, if any, stays in place.
func (s *Session) Load(ctx context.Context, entry catalog.Entry) error {
	filter, err := entry.FilterRegexp()
	if err != nil {
		return err
	}
	logscale, err := entry.LogscaleRegexp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	id := core.NewLoadID()
	s.loadID, s.cancel, s.state = id, cancel, Loading
	s.mu.Unlock()

	start := time.Now()
	location := entry.Location(s.opts.DataRoot)
	s.log.Info("load %s started for %s", id, location)
	primary, axis, hasAxis, fetchErr := s.fetch(ctx, location)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadID != id {
		s.opts.Metrics.Load(metrics.ResultStale, time.Since(start))
		s.log.Debug("load %s superseded by %s", id, s.loadID)
		return fmt.Errorf("%w: %s", core.ErrStaleLoad, id)
	}
	s.cancel = nil

	if fetchErr != nil {
		s.fail(fmt.Errorf("%s %w", msgPrimaryFailed, fetchErr))
		s.opts.Metrics.Load(metrics.ResultIngestion, time.Since(start))
		return s.lastErr
	}
	ds, err := dataset.Build(primary, axis, hasAxis)
	if err != nil {
		s.fail(err)
		s.opts.Metrics.Load(metrics.ResultStructural, time.Since(start))
		return err
	}
	if err := s.install(entry, ds, filter, logscale); err != nil {
		s.fail(err)
		s.opts.Metrics.Load(metrics.ResultStructural, time.Since(start))
		return err
	}

	s.state, s.lastErr = Ready, nil
	s.opts.Metrics.Load(metrics.ResultOK, time.Since(start))
	s.log.Info("load %s ready: %d rows, %d dimensions, %d visible",
		id, ds.RowCount(), len(ds.Dimensions()), len(s.visible))
	return nil
}

// fetch reads the primary and axis order tables concurrently. Only a failure
// of the primary table is an error.
func (s *Session) fetch(ctx context.Context, location string) (primary, axis [][]csvparse.Field, hasAxis bool, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.source.ReadTable(gctx, location, PrimaryTable)
		if err != nil {
			return err
		}
		primary = t
		return nil
	})
	g.Go(func() error {
		t, err := s.source.ReadTable(gctx, location, AxisOrderTable)
		if err != nil {
			s.log.Debug("no axis orderings for %s: %v", location, err)
			return nil
		}
		axis, hasAxis = t, true
		return nil
	})
	err = g.Wait()
	return primary, axis, hasAxis, err
}

func (s *Session) fail(err error) {
	s.state, s.lastErr = Error, err
	s.log.Error("%v", err)
}

// install builds the views over ds and makes it the live dataset
func (s *Session) install(entry catalog.Entry, ds *dataset.Dataset, filter, logscale *regexp.Regexp) error {
	visible := visibleDimensions(ds, filter)
	if len(visible) == 0 {
		return core.NewInvalidInputError("filter", fmt.Sprintf("%q hides every dimension", filter.String()))
	}

	chartOpts := s.opts.Chart
	chartOpts.Logscale, chartOpts.Smooth = logscale, entry.Smooth()
	scatterOpts := s.opts.Scatter
	scatterOpts.Logscale = logscale

	pc := pcoord.New(ds, visible, chartOpts)
	sc, err := scatter.New(ds, visible, scatterOpts)
	if err != nil {
		return err
	}

	for _, unsub := range s.unsubs {
		unsub()
	}
	if s.pcoord != nil {
		s.pcoord.Drawing().Cancel()
		s.scatter.Drawing().Cancel()
	}

	s.entry, s.ds, s.visible = entry, ds, visible
	s.pcoord, s.scatter, s.query = pc, sc, query.New(ds, visible)
	s.ordering = ordering{}
	s.unsubs = []func(){
		pc.SelectionChanges().Subscribe(func(rows []int) {
			s.scatter.SetSelection(rows)
			s.opts.Metrics.Selection(len(rows))
			s.log.Debug("%s", s.selectionText())
		}),
		pc.AxisOrderChanges().Subscribe(func([]string) {
			s.ordering = ordering{}
		}),
	}

	s.picked = s.picked[:0]
	for _, r := range entry.PickedRows() {
		if r >= 0 && r < ds.RowCount() {
			s.picked = append(s.picked, r)
		}
	}
	pc.SetPicked(s.picked)
	sc.SetPicked(s.picked)
	sc.SetSelection(pc.Selection())
	s.opts.Metrics.Selection(len(pc.Selection()))
	return nil
}

func visibleDimensions(ds *dataset.Dataset, filter *regexp.Regexp) []ensemble.Dimension {
	var out []ensemble.Dimension
	for _, d := range ds.Dimensions() {
		if !filter.MatchString(d.Name) {
			out = append(out, d)
		}
	}
	return out
}

// Status is a snapshot of the session lifecycle
type Status struct {
	State    State    `json:"state"`
	LoadID   string   `json:"loadId,omitempty"`
	Database string   `json:"database,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings"`
	Rows     int      `json:"rows"`
	Selected int      `json:"selected"`
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: s.state, LoadID: s.loadID.String(), Warnings: []string{}}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	if s.ds != nil {
		st.Database = s.entry.Label()
		st.Warnings = append(st.Warnings, s.ds.Warnings()...)
		st.Rows = s.ds.RowCount()
		st.Selected = len(s.pcoord.Selection())
	}
	return st
}

// ready reports ErrNoDataset until a load succeeded. Callers hold s.mu.
func (s *Session) ready() error {
	if s.ds == nil {
		return core.ErrNoDataset
	}
	return nil
}

// Dataset returns the live dataset
func (s *Session) Dataset() (*dataset.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.ds, nil
}

// Entry returns the catalog entry of the live dataset
func (s *Session) Entry() (catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return catalog.Entry{}, err
	}
	return s.entry, nil
}

// VisibleDimensions returns the dimensions the charts show
func (s *Session) VisibleDimensions() ([]ensemble.Dimension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return append([]ensemble.Dimension(nil), s.visible...), nil
}

// Tick advances both drawing tasks by one batch and reports whether work
// remains
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds == nil {
		return false
	}
	more := s.pcoord.Drawing().Tick()
	return s.scatter.Drawing().Tick() || more
}

// FlushDrawing completes both drawing tasks
func (s *Session) FlushDrawing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flush()
}

func (s *Session) flush() {
	if s.ds == nil {
		return
	}
	s.pcoord.Drawing().Flush()
	s.scatter.Drawing().Flush()
}

// Run ticks the drawing tasks until ctx is done
func (s *Session) Run(ctx context.Context) {
	tick := s.opts.Chart.DrawTick
	if tick <= 0 {
		tick = pcoord.DefaultOptions().DrawTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
