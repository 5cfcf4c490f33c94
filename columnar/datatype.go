package columnar

// DataType identifies the physical type of a column.
//
// The numeric values are stable wire identifiers stored in envelope column
// entries; they must not be reordered.
type DataType uint8

const (
	TypeInvalid     DataType = 0x0 // TypeInvalid is the zero value, never valid in a schema.
	TypeUint32      DataType = 0x1 // TypeUint32 represents unsigned 32-bit integer columns.
	TypeUint64      DataType = 0x2 // TypeUint64 represents unsigned 64-bit integer columns.
	TypeBinary      DataType = 0x3 // TypeBinary represents variable-length byte string columns.
	TypeFixedBinary DataType = 0x4 // TypeFixedBinary represents fixed-width byte string columns.
	TypeString      DataType = 0x5 // TypeString represents variable-length UTF-8 string columns.
)

func (t DataType) String() string {
	switch t {
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeBinary:
		return "binary"
	case TypeFixedBinary:
		return "fixed_binary"
	case TypeString:
		return "string"
	default:
		return "invalid"
	}
}

// IsValid checks if the data type is one of the supported column types.
func (t DataType) IsValid() bool {
	return t >= TypeUint32 && t <= TypeString
}

// FixedWidth returns the in-body element width in bytes for fixed-width
// types, or 0 for variable-width and invalid types. Fixed binary columns
// carry their width in the field declaration instead.
func (t DataType) FixedWidth() int {
	switch t {
	case TypeUint32:
		return 4
	case TypeUint64:
		return 8
	default:
		return 0
	}
}
