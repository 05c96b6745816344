// Package config provides configuration loading and validation for logdocker.
package config

import (
	"time"

	"github.com/ccollicutt/logdocker/pkg/render"
	"github.com/ccollicutt/logdocker/pkg/store"
)

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	Export     ExportConfig     `yaml:"export" toml:"export"`
	Color      render.ColorMode `yaml:"color" toml:"color"`
	Workers    int              `yaml:"workers" toml:"workers"`
	Categories []CategoryConfig `yaml:"categories" toml:"categories"`
	Webhooks   []WebhookConfig  `yaml:"webhooks,omitempty" toml:"webhooks,omitempty"`
}

// ExportConfig defines where the extracted table is written.
type ExportConfig struct {
	// Path is the destination file. A ".gz" suffix enables gzip compression.
	Path string `yaml:"path" toml:"path"`
}

// CategoryConfig defines a named substring query over one record field.
type CategoryConfig struct {
	Name        string `yaml:"name" toml:"name"`
	Field       string `yaml:"field" toml:"field"` // component, subcomponent, file
	Contains    string `yaml:"contains" toml:"contains"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
}

// Category converts the config entry into a store query.
func (c CategoryConfig) Category() store.Category {
	return store.Category{
		Name:     c.Name,
		Field:    store.Field(c.Field),
		Contains: c.Contains,
	}
}

// Category returns the configured category with the given name.
func (c *Config) Category(name string) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnDrops fires only when input lines were dropped (default).
	WebhookTriggerOnDrops WebhookTrigger = "on_drops"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending run reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_drops" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// Duration is a time.Duration written as a string such as "5s" in both
// YAML and TOML.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the duration in Go syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}
