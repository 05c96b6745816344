package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter renders reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json".
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the single-line form written in quiet mode. It carries
// the same counters as the text formatter's quiet line.
type quietReport struct {
	LinesRead        int `json:"lines_read"`
	RecordsExtracted int `json:"records_extracted"`
	LinesDropped     int `json:"lines_dropped"`
}

// Format writes the full report indented, or in quiet mode one compact
// object per run so the output can be appended to a JSON-lines file.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if f.opts.Quiet {
		data, err = json.Marshal(quietReport{
			LinesRead:        report.Summary.LinesRead,
			RecordsExtracted: report.Summary.RecordsExtracted,
			LinesDropped:     report.Summary.LinesDropped,
		})
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding %s report: %w", f.Name(), err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
