// Package section defines the low-level binary structures and constants of
// the catlas envelope format.
//
// The envelope is the durable form of a columnar batch. It consists of a
// fixed-size header, one fixed-size entry per column, a name section, and a
// compressed body holding the column buffers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	│  - Flag (4 bytes): magic/endianness/compression         │
//	│  - ColumnCount, RowCount (8 bytes)                      │
//	│  - NamesLen, BodyLen (8 bytes)                          │
//	│  - Checksum (8 bytes): xxHash64 of everything after     │
//	│    the header                                           │
//	├─────────────────────────────────────────────────────────┤
//	│ Column Entries (N × 32 bytes, fixed per entry)          │
//	│  - Name hash, data type, nullability, width             │
//	│  - Byte lengths of the column's body sections           │
//	├─────────────────────────────────────────────────────────┤
//	│ Names (variable)                                        │
//	│  - One uvarint-prefixed string per column               │
//	├─────────────────────────────────────────────────────────┤
//	│ Body (variable, compressed as a whole)                  │
//	│  - Per column: validity bitmap, offsets, values         │
//	└─────────────────────────────────────────────────────────┘
//
// Fixed layouts keep header and entry access O(1); the checksum covers the
// entries, names and compressed body exactly as written, so corruption is
// detected before any section is parsed.
//
// Multi-byte fields after the flag word honor the endianness bit of the
// flag. The flag word itself is always encoded little-endian so a reader
// can determine the byte order before decoding anything else.
package section
