package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logdocker/pkg/render"
	"github.com/ccollicutt/logdocker/pkg/store"
)

// Load reads and validates a configuration file. The format is chosen by
// extension: .toml for TOML, anything else is parsed as YAML.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	defaults := cfg.Categories
	cfg.Categories = nil

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Categories = mergeCategories(defaults, cfg.Categories)

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the validated defaults when path is empty.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// mergeCategories returns defaults with same-named entries replaced by
// configured ones, followed by any new configured categories.
func mergeCategories(defaults, configured []CategoryConfig) []CategoryConfig {
	merged := make([]CategoryConfig, 0, len(defaults)+len(configured))
	used := make(map[int]bool)

	for _, d := range defaults {
		replaced := false
		for i, c := range configured {
			if c.Name == d.Name && !used[i] {
				merged = append(merged, c)
				used[i] = true
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, d)
		}
	}
	for i, c := range configured {
		if !used[i] {
			merged = append(merged, c)
		}
	}
	return merged
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Export.Path) == "" {
		return errors.New("export.path: is required")
	}

	if cfg.Color == "" {
		cfg.Color = render.ColorAuto
	}
	if !cfg.Color.Valid() {
		return fmt.Errorf("color: invalid value %q (must be auto, always, or never)", cfg.Color)
	}

	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers: must be >= 1, got %d", cfg.Workers)
	}

	seen := make(map[string]bool)
	for i := range cfg.Categories {
		if err := validateCategory(&cfg.Categories[i]); err != nil {
			return fmt.Errorf("categories[%d] (%s): %w", i, cfg.Categories[i].Name, err)
		}
		if seen[cfg.Categories[i].Name] {
			return fmt.Errorf("categories[%d] (%s): duplicate name", i, cfg.Categories[i].Name)
		}
		seen[cfg.Categories[i].Name] = true
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateCategory(c *CategoryConfig) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if !store.Field(c.Field).Valid() {
		return fmt.Errorf("invalid field %q (must be component, subcomponent, or file)", c.Field)
	}
	if c.Contains == "" {
		return errors.New("contains is required")
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnDrops
	case WebhookTriggerOnDrops, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_drops, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = Duration(DefaultWebhookTimeout)
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}

	return s
}
