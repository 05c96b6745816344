// Package store holds the ordered collection of extracted log records and
// the filter queries over it.
package store

import (
	"strings"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// Severity levels used by the convenience queries.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Store is an append-only, ordered collection of records for one input.
//
// Store is not safe for concurrent writes. Concurrent readers are safe once
// all appends have completed.
type Store struct {
	records []record.LogRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewWithCapacity creates an empty store sized for n records.
func NewWithCapacity(n int) *Store {
	return &Store{records: make([]record.LogRecord, 0, n)}
}

// Append adds a record to the end of the store.
func (s *Store) Append(r record.LogRecord) {
	s.records = append(s.records, r)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []record.LogRecord {
	out := make([]record.LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Filter returns the records for which keep returns true, in store order.
func (s *Store) Filter(keep func(record.LogRecord) bool) []record.LogRecord {
	var out []record.LogRecord
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByLevel returns records whose level equals level exactly.
func (s *Store) FilterByLevel(level string) []record.LogRecord {
	return s.Filter(func(r record.LogRecord) bool {
		return r.Level == level
	})
}

// FilterByComponentContains returns records whose component contains substr.
// Records with an empty component never match.
func (s *Store) FilterByComponentContains(substr string) []record.LogRecord {
	return s.Filter(func(r record.LogRecord) bool {
		return containsNonEmpty(r.Component, substr)
	})
}

// FilterBySubcomponentContains returns records whose subcomponent contains
// substr. Records without a subcomponent never match.
func (s *Store) FilterBySubcomponentContains(substr string) []record.LogRecord {
	return s.Filter(func(r record.LogRecord) bool {
		return r.HasSubcomponent() && strings.Contains(r.Subcomponent, substr)
	})
}

// FilterByFileContains returns records whose file contains substr.
// Records with an empty file never match.
func (s *Store) FilterByFileContains(substr string) []record.LogRecord {
	return s.Filter(func(r record.LogRecord) bool {
		return containsNonEmpty(r.File, substr)
	})
}

// InfoLogs returns records with level "info".
func (s *Store) InfoLogs() []record.LogRecord {
	return s.FilterByLevel(LevelInfo)
}

// ErrorLogs returns records with level "error".
func (s *Store) ErrorLogs() []record.LogRecord {
	return s.FilterByLevel(LevelError)
}

// WarningLogs returns records with level "warning".
func (s *Store) WarningLogs() []record.LogRecord {
	return s.FilterByLevel(LevelWarning)
}

// LevelCounts returns the number of records per level.
func (s *Store) LevelCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range s.records {
		counts[r.Level]++
	}
	return counts
}

func containsNonEmpty(value, substr string) bool {
	return value != "" && strings.Contains(value, substr)
}
