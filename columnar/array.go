package columnar

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Array is a sealed, immutable sequence of column values of one data type.
//
// Arrays are produced by builders or by decoding an envelope and never
// change afterwards, so they are safe for unsynchronized concurrent
// readers.
type Array interface {
	// Len returns the number of elements in the array.
	Len() int

	// Type returns the data type of the array.
	Type() DataType

	// IsNull returns true if the element at index i is null.
	IsNull(i int) bool

	// NullCount returns the number of null elements in the array.
	NullCount() int
}

// isNull reports whether position i is absent from the validity bitmap.
// A nil bitmap means every position is valid.
func isNull(valid *roaring.Bitmap, i int) bool {
	return valid != nil && !valid.Contains(uint32(i))
}

func nullCount(valid *roaring.Bitmap, n int) int {
	if valid == nil {
		return 0
	}

	return n - int(valid.GetCardinality())
}

// Uint32Array stores unsigned 32-bit integers.
type Uint32Array struct {
	values []uint32
	valid  *roaring.Bitmap
}

func newUint32Array(values []uint32, valid *roaring.Bitmap) *Uint32Array {
	return &Uint32Array{values: values, valid: valid}
}

func (a *Uint32Array) Len() int           { return len(a.values) }
func (a *Uint32Array) Type() DataType     { return TypeUint32 }
func (a *Uint32Array) IsNull(i int) bool  { return isNull(a.valid, i) }
func (a *Uint32Array) NullCount() int     { return nullCount(a.valid, len(a.values)) }
func (a *Uint32Array) Value(i int) uint32 { return a.values[i] }

// Uint64Array stores unsigned 64-bit integers.
type Uint64Array struct {
	values []uint64
	valid  *roaring.Bitmap
}

func newUint64Array(values []uint64, valid *roaring.Bitmap) *Uint64Array {
	return &Uint64Array{values: values, valid: valid}
}

func (a *Uint64Array) Len() int           { return len(a.values) }
func (a *Uint64Array) Type() DataType     { return TypeUint64 }
func (a *Uint64Array) IsNull(i int) bool  { return isNull(a.valid, i) }
func (a *Uint64Array) NullCount() int     { return nullCount(a.valid, len(a.values)) }
func (a *Uint64Array) Value(i int) uint64 { return a.values[i] }

// BinaryArray stores variable-length byte strings in one contiguous value
// buffer with end offsets.
type BinaryArray struct {
	values  []byte
	offsets []uint32 // len+1 entries, offsets[0] == 0
	valid   *roaring.Bitmap
}

func newBinaryArray(values []byte, offsets []uint32, valid *roaring.Bitmap) *BinaryArray {
	return &BinaryArray{values: values, offsets: offsets, valid: valid}
}

func (a *BinaryArray) Len() int          { return len(a.offsets) - 1 }
func (a *BinaryArray) Type() DataType    { return TypeBinary }
func (a *BinaryArray) IsNull(i int) bool { return isNull(a.valid, i) }
func (a *BinaryArray) NullCount() int    { return nullCount(a.valid, a.Len()) }

// Value returns the byte string at index i, or nil for null elements.
// The returned slice shares the array's buffer and must not be modified.
func (a *BinaryArray) Value(i int) []byte {
	if a.IsNull(i) {
		return nil
	}

	return a.values[a.offsets[i]:a.offsets[i+1]]
}

// FixedBinaryArray stores byte strings of one fixed width back to back.
type FixedBinaryArray struct {
	width  int
	values []byte // len*width bytes
	valid  *roaring.Bitmap
}

func newFixedBinaryArray(width int, values []byte, valid *roaring.Bitmap) *FixedBinaryArray {
	return &FixedBinaryArray{width: width, values: values, valid: valid}
}

func (a *FixedBinaryArray) Len() int          { return len(a.values) / a.width }
func (a *FixedBinaryArray) Type() DataType    { return TypeFixedBinary }
func (a *FixedBinaryArray) IsNull(i int) bool { return isNull(a.valid, i) }
func (a *FixedBinaryArray) NullCount() int    { return nullCount(a.valid, a.Len()) }

// Width returns the element width in bytes.
func (a *FixedBinaryArray) Width() int { return a.width }

// Value returns the byte string at index i, or nil for null elements.
// The returned slice shares the array's buffer and must not be modified.
func (a *FixedBinaryArray) Value(i int) []byte {
	if a.IsNull(i) {
		return nil
	}

	return a.values[i*a.width : (i+1)*a.width]
}

// StringArray stores variable-length UTF-8 strings in one contiguous value
// buffer with end offsets.
type StringArray struct {
	values  []byte
	offsets []uint32
	valid   *roaring.Bitmap
}

func newStringArray(values []byte, offsets []uint32, valid *roaring.Bitmap) *StringArray {
	return &StringArray{values: values, offsets: offsets, valid: valid}
}

func (a *StringArray) Len() int          { return len(a.offsets) - 1 }
func (a *StringArray) Type() DataType    { return TypeString }
func (a *StringArray) IsNull(i int) bool { return isNull(a.valid, i) }
func (a *StringArray) NullCount() int    { return nullCount(a.valid, a.Len()) }

// Value returns the string at index i. Null elements decode to the empty
// string; use IsNull to distinguish them from stored empty strings.
func (a *StringArray) Value(i int) string {
	if a.IsNull(i) {
		return ""
	}

	return string(a.values[a.offsets[i]:a.offsets[i+1]])
}
