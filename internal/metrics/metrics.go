// Package metrics holds the prometheus collectors of the explorer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results
const (
	ResultOK         = "ok"
	ResultStructural = "structural"
	ResultIngestion  = "ingestion"
	ResultStale      = "stale"
)

// Metrics records session activity. A nil *Metrics records nothing.
type Metrics struct {
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	similarity    prometheus.Counter
	selectionSize prometheus.Gauge
	hitTests      *prometheus.CounterVec
	staleLoads    prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cinema_dataset_loads_total",
			Help: "Dataset loads by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cinema_dataset_load_duration_seconds",
			Help:    "Time from load request to a built dataset.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		similarity: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cinema_similarity_queries_total",
			Help: "Similarity queries run against the dataset.",
		}),
		selectionSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cinema_selection_size",
			Help: "Rows in the current brush selection.",
		}),
		hitTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cinema_hit_tests_total",
			Help: "Pick raster lookups by result.",
		}, []string{"result"}),
		staleLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cinema_stale_loads_total",
			Help: "Loads discarded because a newer load started.",
		}),
	}
	for _, c := range []prometheus.Collector{m.loads, m.loadDuration, m.similarity, m.selectionSize, m.hitTests, m.staleLoads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Load records a finished load
func (m *Metrics) Load(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(result).Inc()
	if result == ResultStale {
		m.staleLoads.Inc()
		return
	}
	m.loadDuration.Observe(took.Seconds())
}

func (m *Metrics) SimilarityQuery() {
	if m == nil {
		return
	}
	m.similarity.Inc()
}

func (m *Metrics) Selection(size int) {
	if m == nil {
		return
	}
	m.selectionSize.Set(float64(size))
}

// HitTest records a pick lookup, hit or miss
func (m *Metrics) HitTest(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.hitTests.WithLabelValues(result).Inc()
}
