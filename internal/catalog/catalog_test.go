package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/domain/core"
)

const sample = `[
    {
        "name": "sphere",
        "directory": "data/sphere.cdb",
        "smoothLines": false,
        "lineOpacity": 0.4,
        "picked": [3, 1]
    },
    {
        "directory": "data/ground.cdb",
        "filter": "^(FILE|id)",
        "logscale": "^energy$"
    }
]`

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, c.Entries, 2)
	assert.Equal(t, []string{"sphere", "data/ground.cdb"}, c.Labels())

	sphere := c.Entries[0]
	assert.Equal(t, DefaultFilter, sphere.FilterPattern())
	assert.Equal(t, DefaultLogscale, sphere.LogscalePattern())
	assert.False(t, sphere.Smooth())
	assert.Equal(t, 0.4, sphere.Opacity())
	assert.Equal(t, []int{3, 1}, sphere.PickedRows())

	ground := c.Entries[1]
	assert.True(t, ground.Smooth())
	assert.Equal(t, DefaultLineOpacity, ground.Opacity())
	assert.Empty(t, ground.PickedRows())

	filter, err := ground.FilterRegexp()
	require.NoError(t, err)
	assert.True(t, filter.MatchString("id"))
	assert.False(t, filter.MatchString("time"))

	logscale, err := sphere.LogscaleRegexp()
	require.NoError(t, err)
	assert.False(t, logscale.MatchString("energy"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty list", data: "[]"},
		{name: "no directory", data: `[{"name": "x"}]`},
		{name: "bad filter", data: `[{"directory": "d", "filter": "("}]`},
		{name: "bad logscale", data: `[{"directory": "d", "logscale": "[a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}

	_, err := Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestLookupAndUpdate(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	e, err := c.Lookup("data/ground.cdb")
	require.NoError(t, err)
	assert.Equal(t, "^energy$", e.LogscalePattern())

	_, err = c.Lookup("missing")
	assert.ErrorIs(t, err, core.ErrDatabaseNotFound)
	assert.True(t, core.IsNotFoundError(err))

	updated := e.WithSettings(Settings{Filter: "^FILE", Logscale: "^$", SmoothLines: false, LineOpacity: 0.1, Picked: []int{2}})
	require.NoError(t, c.Update(updated))
	assert.Equal(t, 0.1, c.Entries[1].Opacity())
	assert.Error(t, c.Update(Entry{Directory: "nope"}))
}

func TestExport(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	live := c.Entries[0].WithSettings(Settings{
		Filter:      "^FILE",
		Logscale:    "^time$",
		SmoothLines: true,
		LineOpacity: 0.75,
		Picked:      []int{7},
	})
	out, err := c.Export(&live)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "[\n    {\n        \"name\": \"sphere\""))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "^time$", decoded[0]["logscale"])
	assert.Equal(t, 0.75, decoded[0]["lineOpacity"])
	assert.Equal(t, []any{7.0}, decoded[0]["picked"])
	assert.NotContains(t, decoded[1], "smoothLines")

	assert.False(t, c.Entries[0].Smooth(), "export leaves the catalog untouched")

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "^time$", back.Entries[0].LogscalePattern())
}

func TestLoadAndLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "databases.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv", "data/sphere.cdb"), c.Entries[0].Location("/srv"))
	assert.Equal(t, "https://x/db.cdb", Entry{Directory: "https://x/db.cdb"}.Location("/srv"))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
