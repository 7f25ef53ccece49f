package dataset

import (
	"gocinema/domain/core"
)

// Primary table messages
const (
	msgTooFewRows      = "The first and second lines in the file are required."
	msgTooFewDims      = "The dataset must include at least two dimensions"
	msgEmptyHeaderRow  = "Empty values may not occur in the header (first line) or first data row (second line)."
	msgUnevenColumns   = "Each line must have an equal number of comma separated values (columns)."
	msgDuplicateFormat = "Dimension names must be unique: '%s' appears more than once."
)

// Axis order table messages
const (
	msgInvalidAxisDimFormat = "Dimension in axis order file '%s' is not valid"
	msgUndefinedCategory    = "Category cannot be undefined."
	msgUndefinedValue       = "Value cannot be undefined."
	msgNaNRank              = "Values for dimensions cannot be NaN."
)

// StructuralError reports a malformed primary table. No dataset is built.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string { return e.Reason }

func (e *StructuralError) Unwrap() error { return core.ErrStructural }

// AxisOrderingWarning reports a malformed axis order table. Loading goes on
// without axis orderings.
type AxisOrderingWarning struct {
	Reason string
}

func (w *AxisOrderingWarning) Error() string { return "ERROR in axis_order.csv: " + w.Reason }

func (w *AxisOrderingWarning) Unwrap() error { return core.ErrAxisOrdering }
