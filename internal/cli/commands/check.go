package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdocker/pkg/coverage"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Output     string
	SampleSize int
	Show       int
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <log-file>",
		Short: "Check how much of a log file the grammar recognizes",
		Long: `Sample the head of a log file and report how many lines match the log grammar.

Lines that do not match are dropped by "logdocker extract". This command shows
the coverage ratio, the level distribution of matched lines, and example
unmatched lines with their line numbers, without writing any export.

Blank lines are not sampled.

Example:
  logdocker check px.log
  logdocker check --sample 1000 --show 10 px.log
  logdocker check -o json px.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of non-blank lines to sample")
	cmd.Flags().IntVar(&opts.Show, "show", 5, "Number of unmatched lines to show")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	c := coverage.New(
		coverage.WithSampleSize(opts.SampleSize),
		coverage.WithMaxExamples(opts.Show),
	)

	result, err := c.CheckFile(ctx, logFile)
	if err != nil {
		return err
	}

	if opts.Output == "json" {
		return outputCheckJSON(cmd.OutOrStdout(), result, logFile)
	}
	return outputCheckText(cmd.OutOrStdout(), result, logFile)
}

func outputCheckText(w io.Writer, result *coverage.Result, logFile string) error {
	fmt.Fprintln(w, "=== Grammar Coverage ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines matched: %d\n", result.MatchedLines)
	fmt.Fprintln(w)

	if result.SampledLines == 0 {
		fmt.Fprintln(w, "No lines to sample.")
		return nil
	}

	fmt.Fprintf(w, "Coverage: %.1f%% (%d line(s) would be dropped)\n", result.Coverage()*100, result.Dropped())
	fmt.Fprintln(w)

	if len(result.Levels) > 0 {
		fmt.Fprintln(w, "Levels:")
		for _, level := range slices.Sorted(maps.Keys(result.Levels)) {
			fmt.Fprintf(w, "  %-10s %d\n", level, result.Levels[level])
		}
		fmt.Fprintln(w)
	}

	if len(result.Unmatched) > 0 {
		fmt.Fprintln(w, "--- Unmatched lines ---")
		for _, line := range result.Unmatched {
			fmt.Fprintf(w, "  %d: %s\n", line.Num, line.Text)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// CheckJSONLine is an unmatched line in JSON output.
type CheckJSONLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// CheckJSONOutput represents the full JSON output.
type CheckJSONOutput struct {
	File         string          `json:"file"`
	SampledLines int             `json:"sampled_lines"`
	MatchedLines int             `json:"matched_lines"`
	Coverage     float64         `json:"coverage"`
	Levels       map[string]int  `json:"levels"`
	Unmatched    []CheckJSONLine `json:"unmatched"`
}

func outputCheckJSON(w io.Writer, result *coverage.Result, logFile string) error {
	out := CheckJSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		MatchedLines: result.MatchedLines,
		Coverage:     result.Coverage(),
		Levels:       result.Levels,
		Unmatched:    make([]CheckJSONLine, 0, len(result.Unmatched)),
	}
	for _, line := range result.Unmatched {
		out.Unmatched = append(out.Unmatched, CheckJSONLine{Line: line.Num, Text: line.Text})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
