package store

import (
	"fmt"

	"github.com/ccollicutt/logdocker/pkg/record"
)

// Field names a record field a category can match against.
type Field string

const (
	FieldComponent    Field = "component"
	FieldSubcomponent Field = "subcomponent"
	FieldFile         Field = "file"
)

// Valid reports whether f is a supported category field.
func (f Field) Valid() bool {
	switch f {
	case FieldComponent, FieldSubcomponent, FieldFile:
		return true
	default:
		return false
	}
}

// Category is a named substring query bound to one field.
type Category struct {
	Name     string
	Field    Field
	Contains string
}

// Built-in category names.
const (
	CategoryAWS       = "aws"
	CategoryStorage   = "storage"
	CategoryCloudsnap = "cloudsnap"
)

// DefaultCategories returns the built-in queries: object store and storage
// volume components, and cloudsnap backup files.
func DefaultCategories() []Category {
	return []Category{
		{Name: CategoryAWS, Field: FieldComponent, Contains: "porx/pkg/objectstore"},
		{Name: CategoryStorage, Field: FieldComponent, Contains: "porx/storage/driver/volume"},
		{Name: CategoryCloudsnap, Field: FieldFile, Contains: "cloudsnap_backup.go"},
	}
}

// Query runs the category against the store.
func (s *Store) Query(c Category) ([]record.LogRecord, error) {
	switch c.Field {
	case FieldComponent:
		return s.FilterByComponentContains(c.Contains), nil
	case FieldSubcomponent:
		return s.FilterBySubcomponentContains(c.Contains), nil
	case FieldFile:
		return s.FilterByFileContains(c.Contains), nil
	default:
		return nil, fmt.Errorf("category %s: unsupported field %q", c.Name, c.Field)
	}
}
