package dataset

import (
	"math"
	"strings"

	"gocinema/domain/ensemble"
)

// Query is a partial row keyed by dimension name. Dimensions missing from
// the query, or holding absent values, add nothing to the distance.
type Query map[string]ensemble.Value

// GetSimilar returns the indices of every row whose normalized Manhattan
// distance from query is at most threshold, in row order.
func (ds *Dataset) GetSimilar(query Query, threshold float64) []int {
	similar := []int{}
	for i, row := range ds.rows {
		if ds.distance(query, row) <= threshold {
			similar = append(similar, i)
		}
	}
	return similar
}

// Distance returns the distance between query and row i
func (ds *Dataset) Distance(query Query, i int) float64 {
	row, ok := ds.Row(i)
	if !ok {
		return math.Inf(1)
	}
	return ds.distance(query, row)
}

func (ds *Dataset) distance(query Query, row ensemble.Row) float64 {
	dist := 0.0
	for j, dim := range ds.dims {
		q, ok := query[dim.Name]
		if !ok || q.IsAbsent() {
			continue
		}
		r := row[j]
		if dim.IsString() {
			if r.IsAbsent() || r.Str != q.Str {
				dist++
			}
			continue
		}

		qv := numeric(q)
		switch {
		case math.IsNaN(qv):
			if r.IsAbsent() || !math.IsNaN(r.Num) {
				dist++
			}
		case r.IsAbsent():
			dist++
		case math.IsNaN(r.Num):
			// a NaN row has no normalized position, so it never matches a number
			return math.Inf(1)
		default:
			dist += math.Abs(dim.Domain.Normalize(qv) - dim.Domain.Normalize(r.Num))
		}
	}
	return dist
}

func numeric(v ensemble.Value) float64 {
	if v.Kind == ensemble.Number {
		return v.Num
	}
	f, ok := ensemble.ParseNumber(strings.TrimSpace(v.Str))
	if !ok {
		return math.NaN()
	}
	return f
}

// RowQuery builds a query from the present values of row i
func (ds *Dataset) RowQuery(i int) Query {
	row, ok := ds.Row(i)
	if !ok {
		return Query{}
	}
	q := make(Query, len(ds.dims))
	for j, dim := range ds.dims {
		if !row[j].IsAbsent() {
			q[dim.Name] = row[j]
		}
	}
	return q
}

// ParseQuery converts text values into a query typed by each dimension.
// Unknown dimensions are reported, empty text is left out.
func (ds *Dataset) ParseQuery(values map[string]string) (Query, []string) {
	q := make(Query, len(values))
	var unknown []string
	for name, text := range values {
		dim, ok := ds.Dimension(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if dim.Type.IsNumeric() {
			q[name] = ensemble.ParsedNumber(text)
		} else {
			q[name] = ensemble.StringValue(text)
		}
	}
	return q, unknown
}
