// Package profiling summarises the dimensions of a dataset for reports.
package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"gocinema/domain/ensemble"
	"gocinema/internal/dataset"
)

// Summary describes the values of one dimension over a set of rows
type Summary struct {
	Dimension string                 `json:"dimension"`
	Type      ensemble.DimensionType `json:"type"`
	Count     int                    `json:"count"`
	Missing   int                    `json:"missing"`

	// Numeric dimensions
	Mean     float64 `json:"mean,omitempty"`
	StdDev   float64 `json:"stdDev,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Q25      float64 `json:"q25,omitempty"`
	Median   float64 `json:"median,omitempty"`
	Q75      float64 `json:"q75,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Skewness float64 `json:"skewness,omitempty"`

	// String dimensions
	Distinct int `json:"distinct,omitempty"`
}

// Profile summarises every dimension of ds over rows, all rows when rows is nil
func Profile(ds *dataset.Dataset, rows []int) []Summary {
	if rows == nil {
		rows = ds.AllRows()
	}
	dims := ds.Dimensions()
	out := make([]Summary, 0, len(dims))
	for _, d := range dims {
		out = append(out, Dimension(ds, d, rows))
	}
	return out
}

// Dimension summarises one dimension. NaN and absent cells count as missing.
func Dimension(ds *dataset.Dataset, dim ensemble.Dimension, rows []int) Summary {
	s := Summary{Dimension: dim.Name, Type: dim.Type}
	if dim.IsString() {
		seen := make(map[string]struct{})
		for _, i := range rows {
			v := ds.Value(i, dim.Name)
			if v.IsAbsent() {
				s.Missing++
				continue
			}
			s.Count++
			seen[v.Str] = struct{}{}
		}
		s.Distinct = len(seen)
		return s
	}

	data := make([]float64, 0, len(rows))
	for _, i := range rows {
		v := ds.Value(i, dim.Name)
		if v.IsNaN() {
			s.Missing++
			continue
		}
		data = append(data, v.Num)
	}
	s.Count = len(data)
	if len(data) == 0 {
		return s
	}
	summarize(&s, data)
	return s
}

func summarize(s *Summary, data []float64) {
	// stats only fails on empty input, which Dimension rules out
	s.Mean, _ = stats.Mean(data)
	s.StdDev, _ = stats.StandardDeviation(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	if len(data) > 1 {
		s.Q25, _ = stats.Percentile(data, 25)
		s.Q75, _ = stats.Percentile(data, 75)
	} else {
		s.Q25, s.Q75 = data[0], data[0]
	}
	s.Skewness = skewness(data, s.Mean, s.StdDev)
}

// skewness is the adjusted Fisher-Pearson coefficient
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}
