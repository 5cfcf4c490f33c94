package columnar

import (
	"fmt"

	"github.com/catlasdb/catlas/errs"
)

// Batch is an immutable set of equal-length columns conforming to a schema.
//
// All validation happens in NewBatch; a constructed Batch is safe for
// unsynchronized concurrent readers.
type Batch struct {
	schema  *Schema
	columns []Array
	rows    int
}

// NewBatch assembles sealed column arrays into a batch.
//
// Parameters:
//   - schema: Schema the columns must conform to
//   - columns: One sealed array per schema field, in field order
//
// Returns:
//   - *Batch: Validated batch
//   - error: errs.ErrInvalidSchema if the column count differs from the
//     schema, errs.ErrLengthMismatch if columns disagree on row count,
//     errs.ErrInvalidColumn for a type or width mismatch or a null in a
//     non-nullable column
func NewBatch(schema *Schema, columns []Array) (*Batch, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: schema is nil", errs.ErrInvalidSchema)
	}
	if len(columns) != schema.NumFields() {
		return nil, fmt.Errorf("%w: schema declares %d fields, got %d columns",
			errs.ErrInvalidSchema, schema.NumFields(), len(columns))
	}

	rows := -1
	for i, col := range columns {
		field := schema.Field(i)
		if col == nil {
			return nil, fmt.Errorf("%w: column %q is nil", errs.ErrInvalidColumn, field.Name)
		}
		if col.Type() != field.Type {
			return nil, fmt.Errorf("%w: column %q is %s, schema declares %s",
				errs.ErrInvalidColumn, field.Name, col.Type(), field.Type)
		}
		if fixed, ok := col.(*FixedBinaryArray); ok && fixed.Width() != field.Width {
			return nil, fmt.Errorf("%w: column %q has width %d, schema declares %d",
				errs.ErrInvalidColumn, field.Name, fixed.Width(), field.Width)
		}
		if !field.Nullable && col.NullCount() > 0 {
			return nil, fmt.Errorf("%w: column %q is not nullable but holds %d nulls",
				errs.ErrInvalidColumn, field.Name, col.NullCount())
		}

		if rows == -1 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				errs.ErrLengthMismatch, field.Name, col.Len(), rows)
		}
	}

	cols := make([]Array, len(columns))
	copy(cols, columns)

	return &Batch{schema: schema, columns: cols, rows: rows}, nil
}

// NumRows returns the number of rows in the batch.
func (b *Batch) NumRows() int {
	return b.rows
}

// NumCols returns the number of columns in the batch.
func (b *Batch) NumCols() int {
	return len(b.columns)
}

// Column returns the array at position i.
func (b *Batch) Column(i int) Array {
	return b.columns[i]
}

// ColumnByName returns the named array and whether it exists.
func (b *Batch) ColumnByName(name string) (Array, bool) {
	i, ok := b.schema.FieldIndex(name)
	if !ok {
		return nil, false
	}

	return b.columns[i], true
}

// Schema returns the batch schema. The returned schema is shared and must
// not be modified.
func (b *Batch) Schema() *Schema {
	return b.schema
}
