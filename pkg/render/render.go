// Package render formats log records as a severity-colored table.
//
// Rendering is a presentation concern only: it never filters or reorders
// records, and the text of each line is the same with or without color.
package render

import (
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// Separator joins the fields of one table line.
const Separator = " | "

// ColorMode controls whether ANSI colors are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Valid reports whether m is a known color mode.
func (m ColorMode) Valid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Renderer turns records into table lines.
type Renderer struct {
	header  lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	plain   lipgloss.Style
}

// New creates a Renderer for output written to w. In ColorAuto mode the
// color profile is detected from w.
func New(w io.Writer, mode ColorMode) *Renderer {
	lr := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		lr.SetColorProfile(termenv.ANSI)
	case ColorNever:
		lr.SetColorProfile(termenv.Ascii)
	}

	base := lr.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Renderer{
		header:  base.Foreground(lipgloss.Color("2")), // green
		info:    base.Foreground(lipgloss.Color("2")), // green
		warning: base.Foreground(lipgloss.Color("3")), // yellow
		err:     base.Foreground(lipgloss.Color("1")), // red
		plain:   base,
	}
}

// Header returns the unstyled header line.
func Header() string {
	return strings.Join(record.Columns(), Separator)
}

// Row returns the unstyled line for one record.
func Row(r record.LogRecord) string {
	return strings.Join(r.Values(), Separator)
}

// StyleRow applies the severity color for level to an already formatted line.
func (r *Renderer) StyleRow(level, line string) string {
	switch level {
	case "info":
		return r.info.Render(line)
	case "warning":
		return r.warning.Render(line)
	case "error":
		return r.err.Render(line)
	default:
		return r.plain.Render(line)
	}
}

// Lines yields the header followed by one styled line per record.
// Lines are produced on demand.
func (r *Renderer) Lines(records []record.LogRecord) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(r.header.Render(Header())) {
			return
		}
		for _, rec := range records {
			if !yield(r.StyleRow(rec.Level, Row(rec))) {
				return
			}
		}
	}
}

// Render joins all lines with newlines.
func (r *Renderer) Render(records []record.LogRecord) string {
	var sb strings.Builder
	first := true
	for line := range r.Lines(records) {
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		sb.WriteString(line)
	}
	return sb.String()
}

// Write streams the rendered table to w, one line at a time.
func (r *Renderer) Write(w io.Writer, records []record.LogRecord) error {
	for line := range r.Lines(records) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
