package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/domain/ensemble"
)

func TestGetSimilarThreshold(t *testing.T) {
	ds, err := Load("d,k\n0,a\n10,b\n", nil)
	require.NoError(t, err)

	q := Query{"d": ensemble.NumberValue(5)}
	assert.InDelta(t, 0.5, ds.Distance(q, 1), 1e-12)
	assert.Equal(t, []int{0, 1}, ds.GetSimilar(q, 0.5))
	assert.Equal(t, []int{}, ds.GetSimilar(q, 0.49))
}

func TestDistanceTerms(t *testing.T) {
	text := "n,s,z\n" +
		"0,red,7\n" +
		"NaN,blue,7\n" +
		"10,,7\n" +
		",red,7\n"
	ds, err := Load(text, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query Query
		row   int
		want  float64
	}{
		{name: "equal strings", query: Query{"s": ensemble.StringValue("red")}, row: 0, want: 0},
		{name: "different strings", query: Query{"s": ensemble.StringValue("red")}, row: 1, want: 1},
		{name: "absent string candidate", query: Query{"s": ensemble.StringValue("red")}, row: 2, want: 1},
		{name: "nan query nan row", query: Query{"n": ensemble.NumberValue(math.NaN())}, row: 1, want: 0},
		{name: "nan query number row", query: Query{"n": ensemble.NumberValue(math.NaN())}, row: 0, want: 1},
		{name: "nan query absent row", query: Query{"n": ensemble.NumberValue(math.NaN())}, row: 3, want: 1},
		{name: "text nan query", query: Query{"n": ensemble.StringValue("nan")}, row: 1, want: 0},
		{name: "number query absent row", query: Query{"n": ensemble.NumberValue(3)}, row: 3, want: 1},
		{name: "normalized", query: Query{"n": ensemble.NumberValue(2.5)}, row: 2, want: 0.75},
		{name: "zero width domain", query: Query{"z": ensemble.NumberValue(100)}, row: 0, want: 0},
		{name: "absent query term ignored", query: Query{"n": ensemble.AbsentValue()}, row: 3, want: 0},
		{name: "unknown dimension ignored", query: Query{"zz": ensemble.NumberValue(1)}, row: 0, want: 0},
		{
			name:  "sum of terms",
			query: Query{"n": ensemble.NumberValue(0), "s": ensemble.StringValue("blue")},
			row:   2,
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ds.Distance(tt.query, tt.row), 1e-12)
		})
	}

	t.Run("number query nan row", func(t *testing.T) {
		assert.True(t, math.IsInf(ds.Distance(Query{"n": ensemble.NumberValue(5)}, 1), 1))
	})
}

func TestGetSimilarSkipsNaNRows(t *testing.T) {
	ds, err := Load("d,k\n0,a\nNaN,b\n10,c\n", nil)
	require.NoError(t, err)

	q := Query{"d": ensemble.NumberValue(5)}
	assert.Equal(t, []int{0, 2}, ds.GetSimilar(q, 1))
	assert.Equal(t, []int{0, 2}, ds.GetSimilar(q, 100))
}

func TestParseQuery(t *testing.T) {
	ds, err := Load("n,s\n1,a\n2,b\n", nil)
	require.NoError(t, err)

	q, unknown := ds.ParseQuery(map[string]string{"n": " 2 ", "s": "b", "x": "1", "s2": ""})
	assert.ElementsMatch(t, []string{"x", "s2"}, unknown)
	assert.Equal(t, ensemble.Number, q["n"].Kind)
	assert.Equal(t, 2.0, q["n"].Num)
	assert.Equal(t, ensemble.Text, q["s"].Kind)
	assert.Equal(t, []int{1}, ds.GetSimilar(q, 0))
}
