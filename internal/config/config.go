package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gocinema/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Charts  ChartConfig
	Metrics MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// CatalogConfig locates the database catalog and the databases it lists
type CatalogConfig struct {
	Path         string
	DataRoot     string
	FetchTimeout time.Duration
}

// ChartConfig holds the chart and pick raster settings
type ChartConfig struct {
	Width        float64
	Height       float64
	MaxSize      float64
	BrushPadding float64
	HitQuorum    int
	HitWindow    int
	DrawBatch    int
	DrawTick     time.Duration
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Catalog: *loadCatalogConfig(),
		Charts:  *loadChartConfig(),
		Metrics: *loadMetricsConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		Path:         getEnvOrDefault("CINEMA_CATALOG", "databases.json"),
		DataRoot:     getEnvOrDefault("CINEMA_DATA_ROOT", "."),
		FetchTimeout: getEnvDurationOrDefault("CINEMA_FETCH_TIMEOUT", 30*time.Second),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		Width:        getEnvFloatOrDefault("CINEMA_CHART_WIDTH", 800),
		Height:       getEnvFloatOrDefault("CINEMA_CHART_HEIGHT", 400),
		MaxSize:      getEnvFloatOrDefault("CINEMA_MAX_CHART_SIZE", 4096),
		BrushPadding: getEnvFloatOrDefault("CINEMA_BRUSH_PADDING", 5),
		HitQuorum:    getEnvIntOrDefault("CINEMA_HIT_QUORUM", 5),
		HitWindow:    getEnvIntOrDefault("CINEMA_HIT_WINDOW", 3),
		DrawBatch:    getEnvIntOrDefault("CINEMA_DRAW_BATCH", 25),
		DrawTick:     getEnvDurationOrDefault("CINEMA_DRAW_TICK", 16*time.Millisecond),
	}
}

func loadMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if config.Catalog.Path == "" {
		return errors.ConfigInvalid("catalog path is required")
	}
	if config.Catalog.FetchTimeout <= 0 {
		return errors.ConfigInvalid("CINEMA_FETCH_TIMEOUT must be positive")
	}
	c := config.Charts
	if c.Width <= 0 || c.Height <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("chart size %gx%g must be positive", c.Width, c.Height))
	}
	if c.MaxSize < 1 {
		return errors.ConfigInvalid("CINEMA_MAX_CHART_SIZE must be at least 1")
	}
	if c.Width > c.MaxSize || c.Height > c.MaxSize {
		return errors.ConfigInvalid(fmt.Sprintf("chart size %gx%g exceeds CINEMA_MAX_CHART_SIZE %g", c.Width, c.Height, c.MaxSize))
	}
	if c.BrushPadding < 0 {
		return errors.ConfigInvalid("CINEMA_BRUSH_PADDING cannot be negative")
	}
	if c.HitWindow < 1 || c.HitWindow%2 == 0 {
		return errors.ConfigInvalid(fmt.Sprintf("CINEMA_HIT_WINDOW must be a positive odd number, got %d", c.HitWindow))
	}
	if c.HitQuorum < 1 || c.HitQuorum > c.HitWindow*c.HitWindow {
		return errors.ConfigInvalid(fmt.Sprintf("CINEMA_HIT_QUORUM must be between 1 and %d", c.HitWindow*c.HitWindow))
	}
	if c.DrawBatch <= 0 {
		return errors.ConfigInvalid("CINEMA_DRAW_BATCH must be positive")
	}
	if c.DrawTick <= 0 {
		return errors.ConfigInvalid("CINEMA_DRAW_TICK must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
