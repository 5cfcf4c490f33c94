// Package format defines the primitive value types of the manifest layer:
// identifiers, table offsets and regions, chunk coordinates and their byte
// codec, and the compression type enum shared with the envelope format.
package format

// CompressionType identifies the compression codec applied to an envelope
// payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is one of the defined compression types.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// NodeID identifies the array (node) that owns a chunk.
type NodeID uint32

// TableOffset is an absolute row offset into a manifest table.
type TableOffset uint32

// TableRegion is a half-open row interval [From, To) over a manifest table.
//
// A region is well-formed relative to a table iff From <= To and To does not
// exceed the table's row count. Lookups scoped by an ill-formed region find
// nothing; bounds violations on direct row access are errors.
type TableRegion struct {
	From TableOffset
	To   TableOffset
}

// Region constructs the half-open row interval [from, to).
func Region(from, to TableOffset) TableRegion {
	return TableRegion{From: from, To: to}
}

// Len returns the number of rows the region spans, or 0 when From > To.
func (r TableRegion) Len() int {
	if r.From > r.To {
		return 0
	}

	return int(r.To - r.From)
}

// Contains reports whether the absolute row offset falls inside the region.
func (r TableRegion) Contains(offset TableOffset) bool {
	return offset >= r.From && offset < r.To
}

// WellFormed reports whether the region is valid for a table with rowCount
// rows: From <= To and To <= rowCount.
func (r TableRegion) WellFormed(rowCount int) bool {
	return r.From <= r.To && int64(r.To) <= int64(rowCount)
}

// RefFlags is the reserved flags bitset carried by a manifest reference.
// No flag bits are assigned in this version; the value round-trips through
// the reference codec untouched.
type RefFlags uint8

// RefFlagNone is the empty flag set.
const RefFlagNone RefFlags = 0
