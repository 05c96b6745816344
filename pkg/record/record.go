// Package record defines the typed log record produced by line extraction.
package record

// Column names in fixed table order. Rendering and export both use this order.
const (
	ColDate         = "date"
	ColHost         = "host"
	ColProcess      = "process"
	ColPID          = "pid"
	ColLogTime      = "logTime"
	ColLevel        = "level"
	ColMessage      = "message"
	ColFile         = "file"
	ColComponent    = "component"
	ColSubcomponent = "subcomponent"
)

// Columns returns the column names in table order.
func Columns() []string {
	return []string{
		ColDate,
		ColHost,
		ColProcess,
		ColPID,
		ColLogTime,
		ColLevel,
		ColMessage,
		ColFile,
		ColComponent,
		ColSubcomponent,
	}
}

// NumColumns is the number of fields in a LogRecord.
const NumColumns = 10

// LogRecord is one parsed log entry.
//
// All fields except Subcomponent are populated whenever a line matches the
// grammar. A present subcomponent always carries the "pkg=" marker, so an
// empty Subcomponent means the field is absent.
type LogRecord struct {
	// Date is the syslog-style timestamp token as it appears in the line.
	Date string

	// Host is the emitting host.
	Host string

	// Process is the process name.
	Process string

	// PID is the process id, kept as text to preserve the exact digits.
	PID string

	// LogTime is the quoted time= field.
	LogTime string

	// Level is the severity token as captured (info, warning, error, ...).
	Level string

	// Message is the quoted msg= field.
	Message string

	// File is the quoted file= field.
	File string

	// Component is the cleaned component identifier.
	Component string

	// Subcomponent is the cleaned pkg= qualifier, or empty when absent.
	Subcomponent string
}

// HasSubcomponent reports whether the record carries a subcomponent.
func (r LogRecord) HasSubcomponent() bool {
	return r.Subcomponent != ""
}

// Values returns the field values in column order.
func (r LogRecord) Values() []string {
	return []string{
		r.Date,
		r.Host,
		r.Process,
		r.PID,
		r.LogTime,
		r.Level,
		r.Message,
		r.File,
		r.Component,
		r.Subcomponent,
	}
}

// FromValues builds a record from values in column order.
// It returns false if the number of values does not match NumColumns.
func FromValues(values []string) (LogRecord, bool) {
	if len(values) != NumColumns {
		return LogRecord{}, false
	}
	return LogRecord{
		Date:         values[0],
		Host:         values[1],
		Process:      values[2],
		PID:          values[3],
		LogTime:      values[4],
		Level:        values[5],
		Message:      values[6],
		File:         values[7],
		Component:    values[8],
		Subcomponent: values[9],
	}, true
}
