package profiling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/internal/dataset"
)

const fixture = "a,b,s\n1,10,x\n2,,y\n3,30,x\nNaN,40,z\n"

func load(t *testing.T, axis *string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(fixture, axis)
	require.NoError(t, err)
	return ds
}

func TestProfile(t *testing.T) {
	ds := load(t, nil)
	summaries := Profile(ds, nil)
	require.Len(t, summaries, 3)

	a := summaries[0]
	assert.Equal(t, "a", a.Dimension)
	assert.Equal(t, 3, a.Count)
	assert.Equal(t, 1, a.Missing)
	assert.Equal(t, 1.0, a.Min)
	assert.Equal(t, 2.0, a.Median)
	assert.Equal(t, 3.0, a.Max)
	assert.Equal(t, 2.0, a.Mean)
	assert.InDelta(t, 0.0, a.Skewness, 1e-12)

	b := summaries[1]
	assert.Equal(t, 3, b.Count)
	assert.Equal(t, 1, b.Missing)
	assert.Equal(t, 40.0, b.Max)

	s := summaries[2]
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3, s.Distinct)
}

func TestProfileRows(t *testing.T) {
	ds := load(t, nil)
	summaries := Profile(ds, []int{0})
	assert.Equal(t, 1, summaries[0].Count)
	assert.Equal(t, 1.0, summaries[0].Q25)
	assert.Equal(t, 1.0, summaries[0].Q75)
	assert.Equal(t, 1, summaries[2].Distinct)

	empty := Profile(ds, []int{3})
	assert.Equal(t, 0, empty[0].Count)
	assert.Equal(t, 1, empty[0].Missing)
}

func TestReport(t *testing.T) {
	axis := "category,value,a,b,s\nsize,small,1,2,3\n"
	ds := load(t, &axis)
	report := Report("sphere", ds, Profile(ds, nil))

	assert.True(t, strings.HasPrefix(report, "# sphere\n\n4 rows, 3 dimensions."))
	assert.Contains(t, report, "| s | string | 4 | 0 | 3 distinct |")
	assert.Contains(t, report, "## Axis orderings")
	assert.Contains(t, report, "- **size / small**: a, b, s")
	assert.NotContains(t, report, "## Warnings")
}
