package columnar

import (
	"fmt"
	"math"

	"github.com/catlasdb/catlas/errs"
)

// Field declares one column of a schema.
type Field struct {
	// Name is the column name, unique within a schema.
	Name string

	// Type is the physical column type.
	Type DataType

	// Nullable records whether the column admits null values.
	Nullable bool

	// Width is the element width in bytes. It must be set for
	// TypeFixedBinary columns and zero for every other type.
	Width int
}

// Schema is an ordered, immutable set of field declarations.
//
// Column positions are significant: consumers address columns by index as
// well as by name.
type Schema struct {
	fields []Field
	lookup map[string]int
}

// NewSchema creates a Schema from the given fields.
//
// Parameters:
//   - fields: Ordered field declarations, at least one
//
// Returns:
//   - *Schema: Validated schema
//   - error: errs.ErrInvalidSchema for empty schemas, unnamed or duplicate
//     fields, invalid types, or width violations
func NewSchema(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: schema requires at least one field", errs.ErrInvalidSchema)
	}

	s := &Schema{
		fields: make([]Field, len(fields)),
		lookup: make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)

	for i, field := range s.fields {
		if field.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", errs.ErrInvalidSchema, i)
		}
		if _, exists := s.lookup[field.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate field name %q", errs.ErrInvalidSchema, field.Name)
		}
		if !field.Type.IsValid() {
			return nil, fmt.Errorf("%w: field %q has invalid type", errs.ErrInvalidSchema, field.Name)
		}

		switch {
		case field.Type == TypeFixedBinary && (field.Width < 1 || field.Width > math.MaxUint16):
			return nil, fmt.Errorf("%w: fixed binary field %q requires width in [1, %d], got %d",
				errs.ErrInvalidSchema, field.Name, math.MaxUint16, field.Width)
		case field.Type != TypeFixedBinary && field.Width != 0:
			return nil, fmt.Errorf("%w: field %q of type %s must not declare a width",
				errs.ErrInvalidSchema, field.Name, field.Type)
		}

		s.lookup[field.Name] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on invalid fields. It is intended
// for package-level schema variables whose validity is fixed at compile
// time.
func MustSchema(fields []Field) *Schema {
	s, err := NewSchema(fields)
	if err != nil {
		panic(err)
	}

	return s
}

// NumFields returns the number of fields in the schema.
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// Field returns the field declaration at position i.
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the field declarations.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)

	return out
}

// FieldIndex returns the position of the named field and whether it exists.
func (s *Schema) FieldIndex(name string) (int, bool) {
	i, ok := s.lookup[name]

	return i, ok
}

// Equal reports whether two schemas declare the same fields in the same
// order.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.fields) != len(other.fields) {
		return false
	}

	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}

	return true
}
