package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logdocker: %d lines read, %d records extracted, %d dropped\n",
		report.Summary.LinesRead,
		report.Summary.RecordsExtracted,
		report.Summary.LinesDropped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== logdocker Extraction Report ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Input:  %s\n", report.Metadata.InputFile)
	fmt.Fprintf(w, "Export: %s\n", report.Metadata.ExportPath)
	fmt.Fprintln(w)

	if len(report.Queries) > 0 {
		fmt.Fprintln(w, "Queries:")
		for _, q := range report.Queries {
			fmt.Fprintf(w, "  %-12s %d record(s)\n", q.Name, q.Records)
		}
		fmt.Fprintln(w)
	}

	if f.opts.Verbose && len(report.Summary.Levels) > 0 {
		fmt.Fprintln(w, "Levels:")
		for _, level := range report.Summary.SortedLevels() {
			fmt.Fprintf(w, "  %-12s %d\n", level, report.Summary.Levels[level])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d lines read, %d records extracted, %d dropped\n",
		report.Summary.LinesRead,
		report.Summary.RecordsExtracted,
		report.Summary.LinesDropped)
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		_, err = fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}
	return err
}
