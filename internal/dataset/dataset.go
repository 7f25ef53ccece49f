// Package dataset builds the in-memory model of a cinema database from its
// data table and optional axis order table, and answers similarity queries
// over it. A Dataset is read-only once built.
package dataset

import (
	"gocinema/domain/ensemble"
)

// Dataset owns the dimensions and rows of one load
type Dataset struct {
	dims     []ensemble.Dimension
	byName   map[string]int
	rows     []ensemble.Row
	axis     *AxisOrderCatalog
	warnings []string
}

// RowCount returns the number of data rows
func (ds *Dataset) RowCount() int { return len(ds.rows) }

// Dimensions returns the dimensions in header order
func (ds *Dataset) Dimensions() []ensemble.Dimension {
	out := make([]ensemble.Dimension, len(ds.dims))
	copy(out, ds.dims)
	return out
}

// DimensionNames returns the header in order
func (ds *Dataset) DimensionNames() []string {
	names := make([]string, len(ds.dims))
	for i, d := range ds.dims {
		names[i] = d.Name
	}
	return names
}

// Dimension looks up a dimension by name
func (ds *Dataset) Dimension(name string) (ensemble.Dimension, bool) {
	i, ok := ds.byName[name]
	if !ok {
		return ensemble.Dimension{}, false
	}
	return ds.dims[i], true
}

// IsStringDimension reports whether name is a String dimension
func (ds *Dataset) IsStringDimension(name string) bool {
	d, ok := ds.Dimension(name)
	return ok && d.IsString()
}

// Row returns row i. Rows are shared, callers must not modify them.
func (ds *Dataset) Row(i int) (ensemble.Row, bool) {
	if i < 0 || i >= len(ds.rows) {
		return nil, false
	}
	return ds.rows[i], true
}

// Value returns the value of row i on dimension name, absent when either is unknown
func (ds *Dataset) Value(i int, name string) ensemble.Value {
	j, ok := ds.byName[name]
	if !ok || i < 0 || i >= len(ds.rows) {
		return ensemble.AbsentValue()
	}
	return ds.rows[i][j]
}

// HasAxisOrdering reports whether a valid axis order table was loaded
func (ds *Dataset) HasAxisOrdering() bool { return ds.axis != nil }

// AxisOrders returns the axis order catalog, nil when absent
func (ds *Dataset) AxisOrders() *AxisOrderCatalog { return ds.axis }

// Warnings returns non-fatal problems found while loading
func (ds *Dataset) Warnings() []string {
	return append([]string(nil), ds.warnings...)
}

// AllRows returns the indices [0, RowCount)
func (ds *Dataset) AllRows() []int {
	out := make([]int, len(ds.rows))
	for i := range out {
		out[i] = i
	}
	return out
}
