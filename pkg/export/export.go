// Package export writes and reads the delimited table of extracted records.
//
// The table has a fixed header row of record column names followed by one
// row per record. An absent subcomponent is written as an empty cell.
// Paths ending in ".gz" are gzip-compressed.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// DefaultPath is where the table is written when no path is configured.
const DefaultPath = "output.csv"

// WriteError reports that the export destination could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing export %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrHeaderMismatch is returned when a table's header does not match the
// record columns.
var ErrHeaderMismatch = errors.New("export header does not match record columns")

// Encode writes the header and one row per record to w.
func Encode(w io.Writer, records []record.LogRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(record.Columns()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a table produced by Encode.
func Decode(r io.Reader) ([]record.LogRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = record.NumColumns

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: %w", ErrHeaderMismatch)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, name := range record.Columns() {
		if header[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q: %w", i+1, header[i], name, ErrHeaderMismatch)
		}
	}

	var records []record.LogRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+2, err)
		}
		rec, _ := record.FromValues(row)
		records = append(records, rec)
	}
	return records, nil
}

// WriteFile writes records to path, replacing any existing file.
// Every failure is returned as a *WriteError.
func WriteFile(path string, records []record.LogRecord) (err error) {
	f, err := os.Create(path) // #nosec G304 -- user-provided export path is expected
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	var w io.Writer = f
	var zw *gzip.Writer
	if isGzip(path) {
		zw = gzip.NewWriter(f)
		w = zw
	}

	if err := Encode(w, records); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	return nil
}

// ReadFile reads a table previously written by WriteFile.
func ReadFile(path string) ([]record.LogRecord, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided export path is expected
	if err != nil {
		return nil, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if isGzip(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening export %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	records, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}
	return records, nil
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
