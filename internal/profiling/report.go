package profiling

import (
	"fmt"
	"strings"

	"gocinema/internal/dataset"
)

// Report writes a markdown overview of ds: its size, the summaries, axis
// orderings and load warnings
func Report(title string, ds *dataset.Dataset, summaries []Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d rows, %d dimensions.\n\n", ds.RowCount(), len(ds.Dimensions()))

	b.WriteString("| Dimension | Type | Count | Missing | Min | Median | Max | Mean | Std dev |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range summaries {
		if s.Type.IsNumeric() {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %g | %g | %g | %.4g | %.4g |\n",
				s.Dimension, s.Type, s.Count, s.Missing, s.Min, s.Median, s.Max, s.Mean, s.StdDev)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d distinct | | | | |\n",
			s.Dimension, s.Type, s.Count, s.Missing, s.Distinct)
	}

	if ds.HasAxisOrdering() {
		b.WriteString("\n## Axis orderings\n\n")
		for _, o := range ds.AxisOrders().All() {
			fmt.Fprintf(&b, "- **%s / %s**: %s\n", o.Category, o.Name, strings.Join(o.Order, ", "))
		}
	}

	if warnings := ds.Warnings(); len(warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
