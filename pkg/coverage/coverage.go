// Package coverage measures how much of a log file the extraction grammar
// recognizes, so users can see what would be dropped before exporting.
package coverage

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/ccollicutt/logdocker/pkg/extractor"
)

// Result holds the outcome of sampling a log file.
type Result struct {
	SampledLines int              // Number of non-blank lines sampled
	MatchedLines int              // Number of sampled lines the grammar recognized
	Levels       map[string]int   // Matched lines per level
	Unmatched    []extractor.Line // Up to the configured number of unmatched lines
}

// Coverage returns the fraction of sampled lines that matched, 0.0 to 1.0.
func (r *Result) Coverage() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.MatchedLines) / float64(r.SampledLines)
}

// Dropped returns the number of sampled lines that did not match.
func (r *Result) Dropped() int {
	return r.SampledLines - r.MatchedLines
}

// Checker samples log files against the grammar.
type Checker struct {
	extractor   *extractor.Extractor
	sampleSize  int
	maxExamples int
}

// Option configures the Checker.
type Option func(*Checker)

// WithSampleSize sets the number of lines to sample (default 100).
// A value of 0 or less keeps the default.
func WithSampleSize(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithMaxExamples sets how many unmatched lines to keep (default 5).
func WithMaxExamples(n int) Option {
	return func(c *Checker) {
		if n >= 0 {
			c.maxExamples = n
		}
	}
}

// New creates a Checker using the default grammar.
func New(opts ...Option) *Checker {
	c := &Checker{
		extractor:   extractor.New(),
		sampleSize:  100,
		maxExamples: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckFile samples the head of the file at path. Open and read failures
// are returned as *extractor.InputAccessError.
func (c *Checker) CheckFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- path is provided by user via CLI
	if err != nil {
		return nil, &extractor.InputAccessError{Path: path, Err: err}
	}
	defer f.Close()

	result, err := c.CheckReader(ctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &extractor.InputAccessError{Path: path, Err: err}
	}
	return result, nil
}

// CheckReader samples lines from r, reading no further than needed.
func (c *Checker) CheckReader(ctx context.Context, r io.Reader) (*Result, error) {
	result := newResult()
	err := extractor.ScanLines(ctx, r, func(line extractor.Line) bool {
		c.observe(result, line)
		return result.SampledLines < c.sampleSize
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newResult() *Result {
	return &Result{Levels: make(map[string]int)}
}

// observe records one line. Blank lines are not sampled.
func (c *Checker) observe(result *Result, line extractor.Line) {
	if strings.TrimSpace(line.Text) == "" {
		return
	}
	result.SampledLines++

	if rec, ok := c.extractor.Extract(line.Text); ok {
		result.MatchedLines++
		result.Levels[rec.Level]++
		return
	}
	if len(result.Unmatched) < c.maxExamples {
		result.Unmatched = append(result.Unmatched, line)
	}
}
