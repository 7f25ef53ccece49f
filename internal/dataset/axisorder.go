package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gocinema/domain/ensemble"
	"gocinema/internal/csvparse"
)

// AxisOrderCatalog holds the named axis orderings of a dataset grouped by
// category, both in file order.
type AxisOrderCatalog struct {
	categories []string
	orderings  map[string][]ensemble.AxisOrdering
}

// ParseAxisOrders validates an axis order table against the dataset's
// dimensions and builds the catalog. Columns are category, ordering name and
// one rank column per dimension; lower ranks come first and absent ranks sort
// to the end, ties keeping column order.
func ParseAxisOrders(data [][]csvparse.Field, dimensions []string) (*AxisOrderCatalog, error) {
	if err := checkAxisOrders(data, dimensions); err != nil {
		return nil, err
	}

	ranked := make([]string, 0, len(data[0])-2)
	for _, f := range data[0][2:] {
		ranked = append(ranked, f.Value)
	}

	c := &AxisOrderCatalog{orderings: make(map[string][]ensemble.AxisOrdering)}
	for _, row := range data[1:] {
		category := row[0].Value
		if _, ok := c.orderings[category]; !ok {
			c.categories = append(c.categories, category)
		}
		c.orderings[category] = append(c.orderings[category], ensemble.AxisOrdering{
			Category: category,
			Name:     row[1].Value,
			Order:    rankOrder(ranked, row[2:]),
		})
	}
	return c, nil
}

type rank struct {
	value  float64
	absent bool
	column int
}

func rankOrder(names []string, cells []csvparse.Field) []string {
	ranks := make([]rank, len(cells))
	for i, f := range cells {
		ranks[i] = rank{column: i, absent: !f.Valid}
		if f.Valid {
			ranks[i].value, _ = ensemble.ParseNumber(strings.TrimSpace(f.Value))
		}
	}
	sort.SliceStable(ranks, func(a, b int) bool {
		if ranks[a].absent != ranks[b].absent {
			return !ranks[a].absent
		}
		return ranks[a].value < ranks[b].value
	})
	order := make([]string, len(ranks))
	for i, r := range ranks {
		order[i] = names[r.column]
	}
	return order
}

func checkAxisOrders(data [][]csvparse.Field, dimensions []string) error {
	if len(data) < 2 {
		return &AxisOrderingWarning{Reason: msgTooFewRows}
	}
	width := len(data[0])
	for _, row := range data {
		if len(row) != width {
			return &AxisOrderingWarning{Reason: msgUnevenColumns}
		}
	}

	known := make(map[string]bool, len(dimensions))
	for _, d := range dimensions {
		known[d] = true
	}
	for i := 2; i < width; i++ {
		f := data[0][i]
		if !f.Valid || !known[f.Value] {
			name := f.Value
			if !f.Valid {
				name = "undefined"
			}
			return &AxisOrderingWarning{Reason: fmt.Sprintf(msgInvalidAxisDimFormat, name)}
		}
	}

	// a single column table has no value column
	if width < 2 {
		return &AxisOrderingWarning{Reason: msgUndefinedValue}
	}
	for _, row := range data {
		if !row[0].Valid {
			return &AxisOrderingWarning{Reason: msgUndefinedCategory}
		}
		if !row[1].Valid {
			return &AxisOrderingWarning{Reason: msgUndefinedValue}
		}
	}

	for _, row := range data[1:] {
		for _, f := range row[2:] {
			if !f.Valid {
				continue
			}
			v, ok := ensemble.ParseNumber(strings.TrimSpace(f.Value))
			if !ok || math.IsNaN(v) {
				return &AxisOrderingWarning{Reason: msgNaNRank}
			}
		}
	}
	return nil
}

// Categories returns the category names in file order
func (c *AxisOrderCatalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Orderings returns the orderings of one category
func (c *AxisOrderCatalog) Orderings(category string) []ensemble.AxisOrdering {
	return append([]ensemble.AxisOrdering(nil), c.orderings[category]...)
}

// All returns every ordering, category by category
func (c *AxisOrderCatalog) All() []ensemble.AxisOrdering {
	var out []ensemble.AxisOrdering
	for _, cat := range c.categories {
		out = append(out, c.orderings[cat]...)
	}
	return out
}

// Find looks up one ordering
func (c *AxisOrderCatalog) Find(category, name string) (ensemble.AxisOrdering, bool) {
	for _, o := range c.orderings[category] {
		if o.Name == name {
			return o, true
		}
	}
	return ensemble.AxisOrdering{}, false
}
