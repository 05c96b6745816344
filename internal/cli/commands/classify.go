package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdocker/internal/cli/plugins"
	"github.com/ccollicutt/logdocker/pkg/config"
	"github.com/ccollicutt/logdocker/pkg/export"
)

// ClassifyOptions holds command-line options for the classify command.
type ClassifyOptions struct {
	Config  string
	Verbose bool
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	opts := &ClassifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify [table-file] [-- plugin-args...]",
		Short: "Classify exported records with the classifier plugin",
		Long: `Run the logdocker-classify plugin on an exported table.

The table defaults to the configured export path. It is checked before the
plugin runs, then passed to the plugin as its first argument followed by any
arguments after "--". The plugin's exit code becomes logdocker's exit code.

The plugin is searched for next to the logdocker binary, in
~/.logdocker/plugins/, and on PATH.

Example:
  logdocker classify
  logdocker classify px.csv.gz
  logdocker classify output.csv -- --model severity.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show progress on stderr")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string, opts *ClassifyOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Arguments after "--" go to the plugin untouched
	var pluginArgs []string
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		pluginArgs = args[dash:]
		args = args[:dash]
	}
	if len(args) > 1 {
		return fmt.Errorf("classify accepts at most one table file, got %d", len(args))
	}

	var table string
	if len(args) == 1 {
		table = args[0]
	} else {
		cfg, err := config.LoadOrDefault(ctx, opts.Config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		table = cfg.Export.Path
	}

	records, err := export.ReadFile(table)
	if err != nil {
		return fmt.Errorf("checking table: %w", err)
	}
	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Classifying %d record(s) from %s\n", len(records), table)
	}

	pluginPath, err := plugins.FindPlugin("classify")
	if err != nil {
		return fmt.Errorf("%w: install %sclassify next to logdocker, in ~/.logdocker/plugins/, or on PATH",
			err, plugins.Prefix)
	}

	ExitCode = plugins.Run(ctx, pluginPath, append([]string{table}, pluginArgs...), plugins.Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
	return nil
}
