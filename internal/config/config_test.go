package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocinema/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "databases.json", cfg.Catalog.Path)
	assert.Equal(t, ".", cfg.Catalog.DataRoot)
	assert.Equal(t, 30*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, 800.0, cfg.Charts.Width)
	assert.Equal(t, 400.0, cfg.Charts.Height)
	assert.Equal(t, 4096.0, cfg.Charts.MaxSize)
	assert.Equal(t, 5.0, cfg.Charts.BrushPadding)
	assert.Equal(t, 5, cfg.Charts.HitQuorum)
	assert.Equal(t, 3, cfg.Charts.HitWindow)
	assert.Equal(t, 25, cfg.Charts.DrawBatch)
	assert.Equal(t, 16*time.Millisecond, cfg.Charts.DrawTick)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CINEMA_CATALOG", "/srv/cinema/databases.json")
	t.Setenv("CINEMA_FETCH_TIMEOUT", "5s")
	t.Setenv("CINEMA_CHART_WIDTH", "1024.5")
	t.Setenv("CINEMA_HIT_WINDOW", "5")
	t.Setenv("CINEMA_HIT_QUORUM", "13")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CINEMA_DRAW_BATCH", "not a number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/cinema/databases.json", cfg.Catalog.Path)
	assert.Equal(t, 5*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, 1024.5, cfg.Charts.Width)
	assert.Equal(t, 5, cfg.Charts.HitWindow)
	assert.Equal(t, 13, cfg.Charts.HitQuorum)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 25, cfg.Charts.DrawBatch, "unparseable values fall back to the default")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "even window", key: "CINEMA_HIT_WINDOW", value: "4"},
		{name: "quorum above window", key: "CINEMA_HIT_QUORUM", value: "10"},
		{name: "zero quorum", key: "CINEMA_HIT_QUORUM", value: "0"},
		{name: "zero width", key: "CINEMA_CHART_WIDTH", value: "0"},
		{name: "negative height", key: "CINEMA_CHART_HEIGHT", value: "-1"},
		{name: "width above max", key: "CINEMA_CHART_WIDTH", value: "5000"},
		{name: "zero max size", key: "CINEMA_MAX_CHART_SIZE", value: "0"},
		{name: "negative padding", key: "CINEMA_BRUSH_PADDING", value: "-2"},
		{name: "zero batch", key: "CINEMA_DRAW_BATCH", value: "0"},
		{name: "zero tick", key: "CINEMA_DRAW_TICK", value: "0s"},
		{name: "zero timeout", key: "CINEMA_FETCH_TIMEOUT", value: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
