package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/domain/core"
	"gocinema/internal/dataset"
)

func newPanel(t *testing.T) *Panel {
	t.Helper()
	ds, err := dataset.Load("a,b,s\n0,10,x\n10,20,y\n5,15,x\n", nil)
	require.NoError(t, err)
	return New(ds, ds.Dimensions())
}

func TestNewPanel(t *testing.T) {
	p := newPanel(t)
	assert.Equal(t, []string{"a", "b"}, p.Dimensions())
	pos, enabled := p.Slider("a")
	assert.Equal(t, 50.0, pos)
	assert.False(t, enabled)
	assert.Empty(t, p.Custom())
	assert.Equal(t, DefaultThreshold, p.Threshold())

	res := p.Run()
	assert.Equal(t, []int{0, 1, 2}, res.Rows)
	assert.Equal(t, "3 results found!", res.Readout)
}

func TestRunWithThreshold(t *testing.T) {
	p := newPanel(t)
	require.NoError(t, p.Enable("a"))
	assert.InDelta(t, 5, p.Custom()["a"], 1e-9)
	assert.Equal(t, []int{0, 1, 2}, p.Run().Rows)

	require.NoError(t, p.SetThreshold(0.2))
	res := p.Run()
	assert.Equal(t, []int{2}, res.Rows)
	assert.Equal(t, "1 results found!", res.Readout)
}

func TestBounds(t *testing.T) {
	p := newPanel(t)
	lower, upper := p.Bounds()
	assert.Empty(t, lower)
	assert.Empty(t, upper)

	require.NoError(t, p.SetThreshold(0.2))
	require.NoError(t, p.SetSlider("a", 50))
	lower, upper = p.Bounds()
	assert.InDelta(t, 3, lower["a"], 1e-9)
	assert.InDelta(t, 7, upper["a"], 1e-9)

	require.NoError(t, p.SetValue("b", 20))
	pos, enabled := p.Slider("b")
	assert.InDelta(t, 100, pos, 1e-9)
	assert.True(t, enabled)

	lower, upper = p.Bounds()
	assert.InDelta(t, 19, lower["b"], 1e-9)
	assert.InDelta(t, 20, upper["b"], 1e-9, "clamped to the slider end")
	assert.InDelta(t, 4, lower["a"], 1e-9)
	assert.Equal(t, []string{"a", "b"}, p.Enabled())
}

func TestSliderValidation(t *testing.T) {
	p := newPanel(t)

	require.NoError(t, p.SetSlider("a", 150))
	pos, _ := p.Slider("a")
	assert.Equal(t, 100.0, pos)

	assert.True(t, core.IsInvalidInput(p.SetSlider("a", math.NaN())))
	assert.True(t, core.IsNotFoundError(p.SetSlider("s", 10)), "string dimensions have no slider")
	assert.True(t, core.IsNotFoundError(p.Disable("zzz")))

	tests := []struct {
		name      string
		threshold float64
		ok        bool
	}{
		{name: "zero", threshold: 0, ok: true},
		{name: "max", threshold: 2, ok: true},
		{name: "above max", threshold: 2.5},
		{name: "negative", threshold: -1},
		{name: "nan", threshold: math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.SetThreshold(tt.threshold)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestChangesPublished(t *testing.T) {
	p := newPanel(t)
	var changes []Change
	p.Changes().Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, p.SetSlider("a", 0))
	require.NoError(t, p.Disable("a"))

	require.Len(t, changes, 2)
	assert.InDelta(t, 0, changes[0].Custom["a"], 1e-9)
	assert.Contains(t, changes[0].Upper, "a")
	assert.Empty(t, changes[1].Custom)
}
