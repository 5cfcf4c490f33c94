package section

import (
	"fmt"

	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
)

// ColumnEntry records the layout of a single column in the envelope body.
// It is a fixed size of 32 bytes.
//
// The entry stores the xxHash64 of the column name rather than the name
// itself; the full names live in the name section so the schema can be
// reconstructed exactly. Lengths describe the column's three body sections
// in order: validity bitmap, offsets and values. A zero length means the
// section is absent for this column.
type ColumnEntry struct {
	// NameHash is the xxHash64 hash of the column name string.
	//
	// Offset: 0, Size: 8 bytes
	NameHash uint64

	// DataType is the columnar data type identifier.
	//
	// Offset: 8, Size: 1 byte
	DataType uint8

	// Nullable records whether the column admits null values.
	//
	// Offset: 9, Size: 1 byte (0 or 1)
	Nullable bool

	// Width is the element width in bytes for fixed-width binary columns,
	// zero for every other type.
	//
	// Offset: 10, Size: 2 bytes
	Width uint16

	// ValidityLen is the byte length of the column's validity bitmap in
	// roaring portable format. Zero when every row is valid.
	//
	// Offset: 12, Size: 4 bytes
	ValidityLen uint32

	// OffsetsLen is the byte length of the column's offsets section. Zero
	// for fixed-width columns.
	//
	// Offset: 16, Size: 4 bytes
	OffsetsLen uint32

	// ValuesLen is the byte length of the column's values section.
	//
	// Offset: 20, Size: 4 bytes
	ValuesLen uint32

	// Offset 24-31 is reserved and must be zero.
}

// Bytes serializes the entry into a 32-byte slice using the specified
// endian engine.
func (e *ColumnEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [ColumnEntrySize]byte
	engine.PutUint64(b[0:8], e.NameHash)
	b[8] = e.DataType
	if e.Nullable {
		b[9] = 1
	}
	engine.PutUint16(b[10:12], e.Width)
	engine.PutUint32(b[12:16], e.ValidityLen)
	engine.PutUint32(b[16:20], e.OffsetsLen)
	engine.PutUint32(b[20:24], e.ValuesLen)

	return b[:]
}

// WriteToSlice writes the entry to a pre-allocated slice and returns the
// next write position.
//
// Parameters:
//   - data: Pre-allocated byte slice (must have space for 32 bytes at offset)
//   - offset: Starting position in data slice
//   - engine: Endian engine for byte order
//
// Returns:
//   - int: Next write position (offset + 32)
func (e *ColumnEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	copy(data[offset:offset+ColumnEntrySize], e.Bytes(engine))

	return offset + ColumnEntrySize
}

// BodyLen returns the total byte length this column occupies in the
// uncompressed body.
func (e *ColumnEntry) BodyLen() int {
	return int(e.ValidityLen) + int(e.OffsetsLen) + int(e.ValuesLen)
}

// ParseColumnEntry parses a ColumnEntry from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the entry (must be at least 32 bytes)
//   - engine: Endian engine for byte order
//
// Returns:
//   - ColumnEntry: Parsed entry
//   - error: errs.ErrInvalidEnvelope if data is too short or a reserved
//     byte is non-zero
func ParseColumnEntry(data []byte, engine endian.EndianEngine) (ColumnEntry, error) {
	if len(data) < ColumnEntrySize {
		return ColumnEntry{}, fmt.Errorf("%w: column entry requires %d bytes, got %d",
			errs.ErrInvalidEnvelope, ColumnEntrySize, len(data))
	}

	if data[9] > 1 {
		return ColumnEntry{}, fmt.Errorf("%w: column entry nullable byte must be 0 or 1", errs.ErrInvalidEnvelope)
	}

	for i := 24; i < ColumnEntrySize; i++ {
		if data[i] != 0 {
			return ColumnEntry{}, fmt.Errorf("%w: column entry reserved byte %d is non-zero", errs.ErrInvalidEnvelope, i)
		}
	}

	return ColumnEntry{
		NameHash:    engine.Uint64(data[0:8]),
		DataType:    data[8],
		Nullable:    data[9] == 1,
		Width:       engine.Uint16(data[10:12]),
		ValidityLen: engine.Uint32(data[12:16]),
		OffsetsLen:  engine.Uint32(data[16:20]),
		ValuesLen:   engine.Uint32(data[20:24]),
	}, nil
}
