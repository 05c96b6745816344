package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdocker/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logdocker configuration file without extracting anything.

YAML (.yaml, .yml) and TOML (.toml) files are accepted.

Checks:
  - Syntax and unknown keys
  - Color mode and worker count
  - Category names, fields and match strings
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Export path: %s\n", cfg.Export.Path)
	fmt.Fprintf(w, "  Color:       %s\n", cfg.Color)
	fmt.Fprintf(w, "  Workers:     %d\n", cfg.Workers)
	fmt.Fprintf(w, "  Categories:  %d\n", len(cfg.Categories))
	fmt.Fprintf(w, "  Webhooks:    %d\n", len(cfg.Webhooks))

	fmt.Fprintf(w, "\nCategories:\n")
	for i, cat := range cfg.Categories {
		fmt.Fprintf(w, "  %d. %s: %s contains %q\n", i+1, cat.Name, cat.Field, cat.Contains)
		if cat.Description != "" {
			fmt.Fprintf(w, "     %s\n", cat.Description)
		}
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s (trigger: %s)\n", i+1, name, wh.Trigger)
		}
	}

	return nil
}
