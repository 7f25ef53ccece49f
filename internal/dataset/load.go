package dataset

import (
	"fmt"
	"strings"

	"gocinema/domain/ensemble"
	"gocinema/internal"
	"gocinema/internal/csvparse"
)

var logger = internal.DefaultLogger.Component("Dataset")

// Load parses and builds a dataset from raw CSV text. axisText is optional;
// pass nil when there is no axis order table.
func Load(primaryText string, axisText *string) (*Dataset, error) {
	var axis [][]csvparse.Field
	if axisText != nil {
		axis = csvparse.Parse(*axisText)
	}
	return Build(csvparse.Parse(primaryText), axis, axisText != nil)
}

// Build constructs a dataset from parsed tables. A malformed primary table
// fails with *StructuralError. A malformed axis table is recorded as a
// warning and the dataset is built without axis orderings.
func Build(primary, axis [][]csvparse.Field, hasAxis bool) (*Dataset, error) {
	if err := checkPrimary(primary); err != nil {
		return nil, err
	}

	header := primary[0]
	ds := &Dataset{
		dims:   make([]ensemble.Dimension, len(header)),
		byName: make(map[string]int, len(header)),
	}
	for i, f := range header {
		ds.byName[f.Value] = i
	}

	records := primary[1:]
	for i, f := range header {
		ds.dims[i] = inferDimension(f.Value, i, records)
	}

	ds.rows = make([]ensemble.Row, len(records))
	for r, rec := range records {
		row := make(ensemble.Row, len(header))
		for i, f := range rec {
			row[i] = cellValue(f, ds.dims[i].Type)
		}
		ds.rows[r] = row
	}

	if hasAxis {
		catalog, err := ParseAxisOrders(axis, ds.DimensionNames())
		if err != nil {
			logger.Warn("%v", err)
			ds.warnings = append(ds.warnings, err.Error())
		} else {
			ds.axis = catalog
		}
	}

	logger.Debug("built %d rows x %d dimensions (axis orderings: %t)",
		len(ds.rows), len(ds.dims), ds.axis != nil)
	return ds, nil
}

func checkPrimary(data [][]csvparse.Field) error {
	if len(data) < 2 {
		return &StructuralError{Reason: msgTooFewRows}
	}
	if len(data[0]) < 2 {
		return &StructuralError{Reason: msgTooFewDims}
	}
	for _, row := range data[:2] {
		for _, f := range row {
			if !f.Valid {
				return &StructuralError{Reason: msgEmptyHeaderRow}
			}
		}
	}
	width := len(data[0])
	for _, row := range data {
		if len(row) != width {
			return &StructuralError{Reason: msgUnevenColumns}
		}
	}
	seen := make(map[string]bool, width)
	for _, f := range data[0] {
		if seen[f.Value] {
			return &StructuralError{Reason: fmt.Sprintf(msgDuplicateFormat, f.Value)}
		}
		seen[f.Value] = true
	}
	return nil
}

func cellValue(f csvparse.Field, t ensemble.DimensionType) ensemble.Value {
	if !f.Valid {
		return ensemble.AbsentValue()
	}
	text := strings.TrimSpace(f.Value)
	if t.IsNumeric() {
		return ensemble.ParsedNumber(text)
	}
	return ensemble.StringValue(text)
}
