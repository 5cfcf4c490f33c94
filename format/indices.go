package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/catlasdb/catlas/endian"
	"github.com/catlasdb/catlas/errs"
)

// CoordWidth is the encoded byte width of one coordinate dimension.
const CoordWidth = 8

var coordEngine = endian.GetBigEndianEngine()

// ChunkIndices is the position of a chunk within its array: one unsigned
// 64-bit index per dimension, in dimension order.
//
// The encoded form is CoordWidth big-endian bytes per dimension, so encoded
// coordinates compare bytewise equal iff the index tuples are equal, and
// each component preserves numeric order under bytewise comparison.
// ChunkIndices values are treated as immutable once handed to a builder or
// returned from a table.
type ChunkIndices []uint64

// Rank returns the number of dimensions.
func (c ChunkIndices) Rank() int {
	return len(c)
}

// Bytes encodes the indices as CoordWidth big-endian bytes per dimension.
// Encoding never fails and is injective for a given rank.
func (c ChunkIndices) Bytes() []byte {
	return c.AppendTo(make([]byte, 0, len(c)*CoordWidth))
}

// AppendTo appends the encoded form to dst and returns the extended slice.
func (c ChunkIndices) AppendTo(dst []byte) []byte {
	for _, v := range c {
		dst = coordEngine.AppendUint64(dst, v)
	}

	return dst
}

// EncodedLen returns the encoded byte length of coordinates with the given
// rank.
func EncodedLen(rank int) int {
	return rank * CoordWidth
}

// IndicesFromBytes decodes consecutive CoordWidth-byte big-endian groups.
//
// The caller must guarantee len(b) is a multiple of CoordWidth; a trailing
// partial group is ignored. Use IndicesFromBytesChecked when the input is
// not already validated.
func IndicesFromBytes(b []byte) ChunkIndices {
	rank := len(b) / CoordWidth
	if rank == 0 {
		return ChunkIndices{}
	}

	coords := make(ChunkIndices, rank)
	for i := range coords {
		coords[i] = coordEngine.Uint64(b[i*CoordWidth:])
	}

	return coords
}

// IndicesFromBytesChecked decodes coordinates of a known rank, verifying the
// buffer length first.
//
// Returns errs-wrapped ErrInvalidEncoding when len(b) != EncodedLen(rank),
// reporting actual versus expected length.
func IndicesFromBytesChecked(rank int, b []byte) (ChunkIndices, error) {
	if len(b) != EncodedLen(rank) {
		return nil, fmt.Errorf("%w: coordinate buffer for rank %d must be %d bytes, got %d",
			errs.ErrInvalidEncoding, rank, EncodedLen(rank), len(b))
	}

	return IndicesFromBytes(b), nil
}

// Equal reports whether c and other have the same rank and identical
// indices.
func (c ChunkIndices) Equal(other ChunkIndices) bool {
	if len(c) != len(other) {
		return false
	}
	for i, v := range c {
		if v != other[i] {
			return false
		}
	}

	return true
}

// String renders the indices as a coordinate tuple, e.g. "(0, 2, 1)".
func (c ChunkIndices) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range c {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(v, 10))
	}
	sb.WriteByte(')')

	return sb.String()
}
