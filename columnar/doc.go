// Package columnar provides schema-driven columnar batches with a compact
// binary envelope format.
//
// A batch is built once through typed column builders, sealed into an
// immutable Batch, and then shared freely between goroutines. The envelope
// codec turns a batch into a single self-describing byte blob and back.
//
// # Overview
//
// The package is organized around four pieces:
//
//  1. Schema: ordered field declarations (name, type, nullability, width)
//  2. Arrays: immutable typed column storage with per-row validity
//  3. Builders: append-only accumulators that seal into arrays
//  4. Envelope: durable encoding with checksums and body compression
//
// # Arrays and Validity
//
// Five physical types cover the supported columns: Uint32Array,
// Uint64Array, BinaryArray, FixedBinaryArray and StringArray.
// Variable-width arrays store one contiguous value buffer plus uint32 end
// offsets, so element access is two slice reads with no per-row pointers.
//
// Validity is tracked with a roaring bitmap of the valid row positions.
// A nil bitmap means every row is valid, which keeps fully-populated
// columns free of bitmap overhead. Value accessors return the zero value
// for null rows; callers that distinguish null from zero consult IsNull
// first.
//
// # Build Then Read
//
// Builders are single-goroutine, append-only and cheap to create. Sealing
// via Build produces arrays that never change afterwards, and NewBatch
// validates the assembled columns against the schema in one shot. After
// construction a Batch is safe for unsynchronized concurrent readers.
//
// # Envelope
//
// EncodeBatch and DecodeBatch convert between a Batch and the envelope
// layout defined in the section package: a fixed 32-byte header, one
// 32-byte entry per column, a name section and a compressed body. The
// body compression (zstd by default) and byte order are selectable per
// envelope and recorded in the header flag word, so any reader can decode
// any writer's choice.
//
// Decoding is zero-copy where possible: decoded arrays may reference the
// input buffer, so callers must not modify envelope bytes after a
// successful decode.
package columnar
