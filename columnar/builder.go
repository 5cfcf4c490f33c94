package columnar

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/catlasdb/catlas/errs"
)

// maxColumnLen caps a variable-length column's value buffer at what the
// uint32 offset encoding can address. Variable so tests can lower the cap.
var maxColumnLen uint64 = math.MaxUint32

// Builders accumulate column values row by row and seal them into immutable
// arrays. They are single-goroutine; value buffers are limited to 4 GiB per
// column by the uint32 offset encoding.
//
// Validity is tracked lazily: the bitmap of valid positions is only
// materialized once the first null is appended, so fully-populated columns
// never pay for one.

// appendValid marks the next position valid when a validity bitmap exists.
func appendValid(valid *roaring.Bitmap, pos int) {
	if valid != nil {
		valid.Add(uint32(pos))
	}
}

// materializeValid creates the validity bitmap on the first null, marking
// all prior positions valid.
func materializeValid(valid *roaring.Bitmap, pos int) *roaring.Bitmap {
	if valid == nil {
		valid = roaring.New()
		valid.AddRange(0, uint64(pos))
	}

	return valid
}

// sealValid finalizes a validity bitmap for storage in a sealed array.
func sealValid(valid *roaring.Bitmap) *roaring.Bitmap {
	if valid != nil {
		valid.RunOptimize()
	}

	return valid
}

// Uint32Builder accumulates an unsigned 32-bit integer column.
type Uint32Builder struct {
	values []uint32
	valid  *roaring.Bitmap
}

func NewUint32Builder() *Uint32Builder {
	return &Uint32Builder{}
}

// Append adds a value to the column.
func (b *Uint32Builder) Append(v uint32) {
	appendValid(b.valid, len(b.values))
	b.values = append(b.values, v)
}

// AppendNull adds a null element to the column.
func (b *Uint32Builder) AppendNull() {
	b.valid = materializeValid(b.valid, len(b.values))
	b.values = append(b.values, 0)
}

// Len returns the number of elements appended so far.
func (b *Uint32Builder) Len() int {
	return len(b.values)
}

// Build seals the accumulated values into an array. The builder must not be
// used afterwards.
func (b *Uint32Builder) Build() *Uint32Array {
	return newUint32Array(b.values, sealValid(b.valid))
}

// Uint64Builder accumulates an unsigned 64-bit integer column.
type Uint64Builder struct {
	values []uint64
	valid  *roaring.Bitmap
}

func NewUint64Builder() *Uint64Builder {
	return &Uint64Builder{}
}

// Append adds a value to the column.
func (b *Uint64Builder) Append(v uint64) {
	appendValid(b.valid, len(b.values))
	b.values = append(b.values, v)
}

// AppendNull adds a null element to the column.
func (b *Uint64Builder) AppendNull() {
	b.valid = materializeValid(b.valid, len(b.values))
	b.values = append(b.values, 0)
}

// Len returns the number of elements appended so far.
func (b *Uint64Builder) Len() int {
	return len(b.values)
}

// Build seals the accumulated values into an array. The builder must not be
// used afterwards.
func (b *Uint64Builder) Build() *Uint64Array {
	return newUint64Array(b.values, sealValid(b.valid))
}

// BinaryBuilder accumulates a variable-length byte string column.
type BinaryBuilder struct {
	values  []byte
	offsets []uint32
	valid   *roaring.Bitmap
	err     error
}

func NewBinaryBuilder() *BinaryBuilder {
	return &BinaryBuilder{offsets: []uint32{0}}
}

// Append copies v into the column. Appending a nil slice stores an empty,
// non-null byte string. A value that would grow the buffer past the offset
// encoding's limit is recorded as an error and surfaced by Build.
func (b *BinaryBuilder) Append(v []byte) {
	if b.err != nil {
		return
	}
	if uint64(len(b.values))+uint64(len(v)) > maxColumnLen {
		b.err = fmt.Errorf("%w: binary column would exceed %d value bytes at element %d",
			errs.ErrColumnTooLarge, maxColumnLen, b.Len())

		return
	}

	appendValid(b.valid, b.Len())
	b.values = append(b.values, v...)
	b.offsets = append(b.offsets, uint32(len(b.values)))
}

// AppendNull adds a null element to the column.
func (b *BinaryBuilder) AppendNull() {
	b.valid = materializeValid(b.valid, b.Len())
	b.offsets = append(b.offsets, uint32(len(b.values)))
}

// Len returns the number of elements appended so far.
func (b *BinaryBuilder) Len() int {
	return len(b.offsets) - 1
}

// Build seals the accumulated values into an array. The builder must not be
// used afterwards.
//
// Returns:
//   - *BinaryArray: Sealed array
//   - error: errs.ErrColumnTooLarge if any append outgrew the offset
//     encoding
func (b *BinaryBuilder) Build() (*BinaryArray, error) {
	if b.err != nil {
		return nil, b.err
	}

	return newBinaryArray(b.values, b.offsets, sealValid(b.valid)), nil
}

// FixedBinaryBuilder accumulates a fixed-width byte string column.
type FixedBinaryBuilder struct {
	width  int
	values []byte
	valid  *roaring.Bitmap
	err    error
}

func NewFixedBinaryBuilder(width int) *FixedBinaryBuilder {
	return &FixedBinaryBuilder{width: width}
}

// Append copies v into the column. A value whose length differs from the
// builder width is recorded as an error and surfaced by Build.
func (b *FixedBinaryBuilder) Append(v []byte) {
	if len(v) != b.width {
		if b.err == nil {
			b.err = fmt.Errorf("%w: fixed binary element %d must be %d bytes, got %d",
				errs.ErrLengthMismatch, b.Len(), b.width, len(v))
		}

		return
	}

	appendValid(b.valid, b.Len())
	b.values = append(b.values, v...)
}

// AppendNull adds a null element to the column. Null elements still occupy
// one width-sized slot so that access stays O(1).
func (b *FixedBinaryBuilder) AppendNull() {
	b.valid = materializeValid(b.valid, b.Len())
	b.values = append(b.values, make([]byte, b.width)...)
}

// Len returns the number of elements appended so far.
func (b *FixedBinaryBuilder) Len() int {
	return len(b.values) / b.width
}

// Build seals the accumulated values into an array. The builder must not be
// used afterwards.
//
// Returns:
//   - *FixedBinaryArray: Sealed array
//   - error: errs.ErrLengthMismatch if any appended value had the wrong
//     width
func (b *FixedBinaryBuilder) Build() (*FixedBinaryArray, error) {
	if b.err != nil {
		return nil, b.err
	}

	return newFixedBinaryArray(b.width, b.values, sealValid(b.valid)), nil
}

// StringBuilder accumulates a variable-length UTF-8 string column.
type StringBuilder struct {
	values  []byte
	offsets []uint32
	valid   *roaring.Bitmap
	err     error
}

func NewStringBuilder() *StringBuilder {
	return &StringBuilder{offsets: []uint32{0}}
}

// Append copies v into the column. A value that would grow the buffer past
// the offset encoding's limit is recorded as an error and surfaced by Build.
func (b *StringBuilder) Append(v string) {
	if b.err != nil {
		return
	}
	if uint64(len(b.values))+uint64(len(v)) > maxColumnLen {
		b.err = fmt.Errorf("%w: string column would exceed %d value bytes at element %d",
			errs.ErrColumnTooLarge, maxColumnLen, b.Len())

		return
	}

	appendValid(b.valid, b.Len())
	b.values = append(b.values, v...)
	b.offsets = append(b.offsets, uint32(len(b.values)))
}

// AppendNull adds a null element to the column.
func (b *StringBuilder) AppendNull() {
	b.valid = materializeValid(b.valid, b.Len())
	b.offsets = append(b.offsets, uint32(len(b.values)))
}

// Len returns the number of elements appended so far.
func (b *StringBuilder) Len() int {
	return len(b.offsets) - 1
}

// Build seals the accumulated values into an array. The builder must not be
// used afterwards.
//
// Returns:
//   - *StringArray: Sealed array
//   - error: errs.ErrColumnTooLarge if any append outgrew the offset
//     encoding
func (b *StringBuilder) Build() (*StringArray, error) {
	if b.err != nil {
		return nil, b.err
	}

	return newStringArray(b.values, b.offsets, sealValid(b.valid)), nil
}
