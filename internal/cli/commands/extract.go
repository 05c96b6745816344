package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdocker/pkg/config"
	"github.com/ccollicutt/logdocker/pkg/export"
	"github.com/ccollicutt/logdocker/pkg/extractor"
	"github.com/ccollicutt/logdocker/pkg/output"
	"github.com/ccollicutt/logdocker/pkg/record"
	"github.com/ccollicutt/logdocker/pkg/render"
	"github.com/ccollicutt/logdocker/pkg/store"
	"github.com/ccollicutt/logdocker/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ExtractOptions holds command-line options for the extract command.
type ExtractOptions struct {
	// Query selection
	Info       bool
	Error      bool
	Warning    bool
	AWS        bool
	Storage    bool
	Cloudsnap  bool
	Categories []string

	Export  string
	Config  string
	Color   string
	Workers int

	// Report options
	Summary bool
	Format  string
	Quiet   bool
	Verbose bool
}

// query is one selected view of the store.
type query struct {
	name string
	run  func(*store.Store) ([]record.LogRecord, error)
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <log-file>",
		Short: "Extract log records and print selected views",
		Long: `Extract structured records from a Portworx log file.

Every line matching the log grammar becomes a record with the columns:
  date, host, process, pid, logTime, level, message, file, component, subcomponent

Lines that do not match are dropped. The full table is always written to the
export path (output.csv by default, gzipped when the path ends in .gz).

Query flags print severity-colored views of the table, in this order:
  --info, --error, --warning       records at that level
  --aws, --storage, --cloudsnap    built-in categories
  --category NAME                  any configured category (repeatable)

Without query flags nothing is printed.

Example:
  logdocker extract px.log
  logdocker extract --error --aws px.log
  logdocker extract --export px.csv.gz --summary px.log
  logdocker extract --config logdocker.yaml --category kvdb px.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Info, "info", false, "Print info records")
	cmd.Flags().BoolVar(&opts.Error, "error", false, "Print error records")
	cmd.Flags().BoolVar(&opts.Warning, "warning", false, "Print warning records")
	cmd.Flags().BoolVar(&opts.AWS, "aws", false, "Print object store component records")
	cmd.Flags().BoolVar(&opts.Storage, "storage", false, "Print storage volume driver records")
	cmd.Flags().BoolVar(&opts.Cloudsnap, "cloudsnap", false, "Print cloudsnap backup records")
	cmd.Flags().StringArrayVar(&opts.Categories, "category", nil, "Print a configured category (can be repeated)")

	cmd.Flags().StringVarP(&opts.Export, "export", "e", "", "Export path (overrides export.path)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.Flags().StringVar(&opts.Color, "color", "", "Color output (auto|always|never)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Extraction workers (overrides workers)")

	cmd.Flags().BoolVarP(&opts.Summary, "summary", "s", false, "Print the run report")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "text", "Run report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print the run report as a single line")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show progress on stderr")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *ExtractOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	start := time.Now()

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyExtractFlags(cfg, opts); err != nil {
		return err
	}

	// Resolve everything that can fail before touching the input
	queries, err := selectQueries(cfg, opts)
	if err != nil {
		return err
	}
	var formatter output.Formatter
	if opts.Summary {
		formatter, err = output.NewFormatter(opts.Format, output.FormatOptions{
			Verbose: opts.Verbose,
			Quiet:   opts.Quiet,
		})
		if err != nil {
			return err
		}
	}

	result, err := extractor.New().ExtractFile(ctx, logFile, cfg.Workers)
	if err != nil {
		return err
	}
	if opts.Verbose {
		fmt.Fprintf(stderr, "Read %d line(s) from %s\n", result.LinesRead, logFile)
		fmt.Fprintf(stderr, "Extracted %d record(s), dropped %d line(s)\n", len(result.Records), result.Dropped())
	}

	s := store.NewWithCapacity(len(result.Records))
	for _, rec := range result.Records {
		s.Append(rec)
	}

	if err := export.WriteFile(cfg.Export.Path, s.Records()); err != nil {
		return err
	}
	if opts.Verbose {
		fmt.Fprintf(stderr, "Wrote %d record(s) to %s\n", s.Len(), cfg.Export.Path)
	}

	report := output.NewReport(result, s, logFile, cfg.Export.Path, start, time.Now())

	renderer := render.New(stdout, cfg.Color)
	for i, q := range queries {
		records, err := q.run(s)
		if err != nil {
			return fmt.Errorf("query %s: %w", q.name, err)
		}
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if err := renderer.Write(stdout, records); err != nil {
			return fmt.Errorf("writing %s records: %w", q.name, err)
		}
		report.AddQuery(q.name, len(records))
	}

	if formatter != nil {
		if len(queries) > 0 {
			fmt.Fprintln(stdout)
		}
		if err := formatter.Format(ctx, report, stdout); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	// Webhook failures are reported but don't fail the run
	notifyWebhooks(ctx, cfg, report, stderr)

	return nil
}

// applyExtractFlags overlays explicitly set flags on the loaded config.
func applyExtractFlags(cfg *config.Config, opts *ExtractOptions) error {
	if opts.Export != "" {
		cfg.Export.Path = opts.Export
	}
	if opts.Color != "" {
		mode := render.ColorMode(opts.Color)
		if !mode.Valid() {
			return fmt.Errorf("invalid color %q (use auto, always or never)", opts.Color)
		}
		cfg.Color = mode
	}
	if opts.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", opts.Workers)
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	return nil
}

// selectQueries returns the selected views in print order: levels, built-in
// categories, then --category names as given.
func selectQueries(cfg *config.Config, opts *ExtractOptions) ([]query, error) {
	var queries []query

	levels := []struct {
		on   bool
		name string
		run  func(*store.Store) []record.LogRecord
	}{
		{opts.Info, store.LevelInfo, (*store.Store).InfoLogs},
		{opts.Error, store.LevelError, (*store.Store).ErrorLogs},
		{opts.Warning, store.LevelWarning, (*store.Store).WarningLogs},
	}
	for _, l := range levels {
		if !l.on {
			continue
		}
		queries = append(queries, query{
			name: l.name,
			run: func(s *store.Store) ([]record.LogRecord, error) {
				return l.run(s), nil
			},
		})
	}

	var names []string
	if opts.AWS {
		names = append(names, store.CategoryAWS)
	}
	if opts.Storage {
		names = append(names, store.CategoryStorage)
	}
	if opts.Cloudsnap {
		names = append(names, store.CategoryCloudsnap)
	}
	names = append(names, opts.Categories...)

	for _, name := range names {
		cat, ok := cfg.Category(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		c := cat.Category()
		queries = append(queries, query{
			name: name,
			run: func(s *store.Store) ([]record.LogRecord, error) {
				return s.Query(c)
			},
		})
	}

	return queries, nil
}

// notifyWebhooks sends the report to all configured webhooks.
func notifyWebhooks(ctx context.Context, cfg *config.Config, report *output.Report, log io.Writer) {
	if len(cfg.Webhooks) == 0 {
		return
	}
	webhook.NewClient().Notify(ctx, cfg.Webhooks, report, log)
}
