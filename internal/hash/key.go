// Package hash provides the xxHash64 helpers used for column name keys,
// chunk coordinate keys, and envelope checksums.
//
// xxHash64 is not cryptographic. It is used here for fast fixed-width keys
// and corruption detection, never for authentication.
package hash

import (
	"github.com/cespare/xxhash/v2"
)

// NameKey returns the xxHash64 key of a column name.
//
// Column entries in the envelope store this key instead of the name itself
// so that lookups compare a single uint64 rather than a string.
func NameKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

// CoordKey returns the xxHash64 key of an encoded chunk coordinate buffer.
//
// The hash row index buckets rows by this key. Collisions are possible and
// callers must verify the coordinate bytes of every candidate row.
func CoordKey(coords []byte) uint64 {
	return xxhash.Sum64(coords)
}

// Checksum returns the xxHash64 digest of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
