// Package manifest implements the chunk manifest of a versioned,
// chunked-array store: the columnar structure recording, for every chunk of
// every array in a snapshot, where its bytes live.
//
// A chunk's bytes can be embedded directly in the manifest (inline), stored
// in the engine's own content-addressed object store (ref), or referenced
// by byte range inside an externally-owned object (virtual). ChunkPayload
// models the three cases as a tagged union with exactly one active variant.
//
// # Lifecycle
//
// Build consumes a fallible record sequence and seals a Table in one shot:
// either every record lands in the table in input order, or the build
// fails and no table exists. A sealed Table is immutable and safe for any
// number of concurrent readers; point lookups, row decodes and iteration
// all operate on per-call state.
//
// Lookup is coordinate-based. Each row stores its chunk coordinates as a
// fixed-width big-endian byte string; FindRow compares encoded bytes
// within a caller-supplied row region, so one manifest can serve several
// arrays partitioned by region. The default lookup path is a hash index
// from coordinate bytes to row offsets, built once at table construction;
// a plain linear scan remains available for tiny tables.
//
// # Persistence
//
// A Table is durable as a columnar envelope. Store binds tables to an
// object store backend: Put derives a content-addressed id from the
// envelope bytes and returns a ManifestRef, Get and OpenRef load tables
// back, with OpenRef re-validating the ref's row region against the
// loaded row count.
package manifest
