// Package output provides formatting for extraction run reports.
package output

import (
	"sort"
	"time"

	"github.com/ccollicutt/logdocker/pkg/extractor"
	"github.com/ccollicutt/logdocker/pkg/store"
)

// Report is the complete run output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Queries lists the queries that were printed and their sizes.
	Queries []QueryResult `json:"queries,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesRead is the number of input lines fed to the extractor.
	LinesRead int `json:"lines_read"`

	// RecordsExtracted is the number of lines that matched the grammar.
	RecordsExtracted int `json:"records_extracted"`

	// LinesDropped is the number of lines that did not match.
	LinesDropped int `json:"lines_dropped"`

	// Levels counts records per level.
	Levels map[string]int `json:"levels"`
}

// QueryResult records how many rows a printed query produced.
type QueryResult struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// Metadata provides context about the run.
type Metadata struct {
	// InputFile is the log file that was read.
	InputFile string `json:"input_file"`

	// ExportPath is where the table was written.
	ExportPath string `json:"export_path"`

	// ExtractedAt is when extraction finished.
	ExtractedAt time.Time `json:"extracted_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from an extraction result and the store built from it.
func NewReport(result *extractor.Result, s *store.Store, inputFile, exportPath string, start, end time.Time) *Report {
	return &Report{
		Summary: Summary{
			LinesRead:        result.LinesRead,
			RecordsExtracted: len(result.Records),
			LinesDropped:     result.Dropped(),
			Levels:           s.LevelCounts(),
		},
		Metadata: Metadata{
			InputFile:   inputFile,
			ExportPath:  exportPath,
			ExtractedAt: end,
			Duration:    end.Sub(start),
		},
	}
}

// AddQuery records a printed query.
func (r *Report) AddQuery(name string, records int) {
	r.Queries = append(r.Queries, QueryResult{Name: name, Records: records})
}

// HasDrops returns true if any input line was dropped.
func (r *Report) HasDrops() bool {
	return r.Summary.LinesDropped > 0
}

// SortedLevels returns the level names in alphabetical order.
func (s Summary) SortedLevels() []string {
	levels := make([]string, 0, len(s.Levels))
	for l := range s.Levels {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	return levels
}
