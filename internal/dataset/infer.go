package dataset

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"gocinema/domain/ensemble"
	"gocinema/internal/csvparse"
)

// inferDimension classifies a dimension from its first data row alone and
// scans every row for its domain. A column whose first value is an integer
// stays Integer even when later rows hold fractions.
func inferDimension(name string, index int, records [][]csvparse.Field) ensemble.Dimension {
	dim := ensemble.Dimension{Name: name, Index: index}

	first := strings.TrimSpace(records[0][index].Value)
	firstNum, numeric := ensemble.ParseNumber(first)
	if !numeric {
		dim.Type = ensemble.String
		dim.Domain = ensemble.StringDomain(stringDomain(index, records))
		return dim
	}

	if isInteger(firstNum) {
		dim.Type = ensemble.Integer
	} else {
		dim.Type = ensemble.Float
	}

	values := make([]float64, 0, len(records))
	for _, rec := range records {
		f := rec[index]
		if !f.Valid {
			continue
		}
		v, ok := ensemble.ParseNumber(strings.TrimSpace(f.Value))
		if !ok || math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}

	dim.Domain = numericDomain(values)
	return dim
}

// numericDomain is [min, max] over the non-NaN values, [0, 0] when there are none
func numericDomain(values []float64) ensemble.Domain {
	min, err := stats.Min(values)
	if err != nil {
		return ensemble.NumericDomain(0, 0)
	}
	max, err := stats.Max(values)
	if err != nil {
		return ensemble.NumericDomain(0, 0)
	}
	return ensemble.NumericDomain(min, max)
}

func stringDomain(index int, records [][]csvparse.Field) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		f := rec[index]
		if !f.Valid {
			continue
		}
		v := strings.TrimSpace(f.Value)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func isInteger(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}
