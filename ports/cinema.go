package ports

import (
	"context"

	"gocinema/internal/csvparse"
)

// TextFetcher retrieves the text of a file inside a database location, which
// is a directory or a base URL
type TextFetcher interface {
	Fetch(ctx context.Context, location, file string) (string, error)
}

// TableSource returns a parsed table of a database. name has no extension:
// "data" is the primary table, "axis_order" the optional axis orderings.
type TableSource interface {
	ReadTable(ctx context.Context, location, name string) ([][]csvparse.Field, error)
}

// Chart is what the session needs from a chart model
type Chart interface {
	UpdateSize(width, height float64)
	SetSelection(rows []int) []int
	Selection() []int
	Redraw()
}
