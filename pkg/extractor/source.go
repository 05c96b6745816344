package extractor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// InputAccessError reports that an input log could not be opened or read.
type InputAccessError struct {
	Path string
	Err  error
}

func (e *InputAccessError) Error() string {
	return fmt.Sprintf("reading log file %s: %v", e.Path, e.Err)
}

func (e *InputAccessError) Unwrap() error {
	return e.Err
}

// Line is one raw input line with its position.
type Line struct {
	// Text is the line content without the trailing newline.
	Text string

	// Num is the 1-based line number in the source.
	Num int
}

// ScanLines calls fn with each line of r, in order, until fn returns false
// or the input ends. Lines may be of any length. The trailing "\n" or
// "\r\n" is removed, and a final line without a newline is still delivered.
func ScanLines(ctx context.Context, r io.Reader, fn func(Line) bool) error {
	br := bufio.NewReaderSize(r, 64*1024)

	for num := 1; ; num++ {
		if num%4096 == 1 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if text == "" && err != nil {
			return nil
		}
		if !fn(Line{Text: trimEOL(text), Num: num}) {
			return nil
		}
		if err != nil {
			return nil
		}
	}
}

// ReadLines reads every line of r. Empty lines are kept so that line
// numbers and read counts reflect the input exactly.
func ReadLines(ctx context.Context, r io.Reader) ([]Line, error) {
	var lines []Line
	err := ScanLines(ctx, r, func(l Line) bool {
		lines = append(lines, l)
		return true
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// ReadFile reads every line of the file at path. Any failure to open or read
// the file is returned as an *InputAccessError; nothing is returned partially.
func ReadFile(ctx context.Context, path string) ([]Line, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, &InputAccessError{Path: path, Err: err}
	}
	defer f.Close()

	lines, err := ReadLines(ctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &InputAccessError{Path: path, Err: err}
	}
	return lines, nil
}

// Result is the outcome of extracting a whole input.
type Result struct {
	// Records holds the extracted records in input order.
	Records []record.LogRecord

	// LinesRead is the number of lines fed to the extractor.
	LinesRead int
}

// Dropped returns the number of lines that did not match the grammar.
func (r *Result) Dropped() int {
	return r.LinesRead - len(r.Records)
}

// ExtractFile reads the file at path and extracts every matching line using
// up to workers goroutines.
func (e *Extractor) ExtractFile(ctx context.Context, path string, workers int) (*Result, error) {
	lines, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}

	records, err := e.ExtractLines(ctx, texts, workers)
	if err != nil {
		return nil, err
	}

	return &Result{Records: records, LinesRead: len(lines)}, nil
}
