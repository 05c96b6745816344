package config

import (
	"os"
	"time"

	"github.com/ccollicutt/logdocker/pkg/export"
	"github.com/ccollicutt/logdocker/pkg/render"
	"github.com/ccollicutt/logdocker/pkg/store"
)

// Default values for configuration.
const (
	DefaultWorkers        = 1
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvExportPath = "LOGDOCKER_EXPORT_PATH"
	EnvColor      = "LOGDOCKER_COLOR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	defaults := store.DefaultCategories()
	categories := make([]CategoryConfig, 0, len(defaults))
	for _, c := range defaults {
		categories = append(categories, CategoryConfig{
			Name:     c.Name,
			Field:    string(c.Field),
			Contains: c.Contains,
		})
	}

	return &Config{
		Export:     ExportConfig{Path: export.DefaultPath},
		Color:      render.ColorAuto,
		Workers:    DefaultWorkers,
		Categories: categories,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if path := os.Getenv(EnvExportPath); path != "" {
		c.Export.Path = path
	}
	if color := os.Getenv(EnvColor); color != "" {
		c.Color = render.ColorMode(color)
	}
}
