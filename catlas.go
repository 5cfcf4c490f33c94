// Package catlas provides a compact, immutable columnar manifest format for
// chunked-array storage engines.
//
// A manifest maps chunk coordinates to chunk payloads for the arrays of one
// dataset version. Catlas stores manifests as columnar tables serialized into
// a self-describing binary envelope, optimized for datasets with many chunks
// per array and read-heavy access patterns.
//
// # Core Features
//
//   - Fixed eight-column manifest schema with per-row payload variants
//     (inline bytes, virtual file references, or chunk object references)
//   - Big-endian coordinate encoding preserving lexicographic order
//   - Hash-based row lookup (xxHash64) with a linear-scan alternative
//   - Optional compression (None, Zstd, S2, LZ4) with xxHash64 checksums
//   - Content-addressed manifest storage over pluggable object stores
//     (in-memory, local filesystem, S3, MinIO)
//
// # Basic Usage
//
// Building a manifest from chunk records:
//
//	import "github.com/catlasdb/catlas"
//
//	records := manifest.RecordSeq(
//	    manifest.ChunkInfo{
//	        NodeID:  1,
//	        Coords:  format.ChunkIndices{0, 0},
//	        Payload: manifest.RefPayload(chunkID, 0, 65536),
//	    },
//	    manifest.ChunkInfo{
//	        NodeID:  1,
//	        Coords:  format.ChunkIndices{0, 1},
//	        Payload: manifest.InlinePayload([]byte{0x01, 0x02}),
//	    },
//	)
//	table, _ := catlas.BuildManifest(ctx, records)
//
// Looking up a chunk:
//
//	info, ok, _ := table.GetChunkInfo(format.ChunkIndices{0, 1}, table.Region())
//	if ok {
//	    fmt.Println(info.Payload.Kind())
//	}
//
// Persisting and reloading:
//
//	data, _ := catlas.EncodeManifest(table)
//	reloaded, _ := catlas.OpenManifest(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the manifest and
// columnar packages, simplifying the most common use cases. For fine-grained
// control over schemas, envelopes, and object stores, use those packages
// directly.
package catlas

import (
	"context"
	"errors"
	"iter"

	"github.com/catlasdb/catlas/columnar"
	"github.com/catlasdb/catlas/manifest"
	"github.com/catlasdb/catlas/objstore"
)

var errNilTable = errors.New("nil manifest table")

// BuildManifest constructs an immutable manifest table from a sequence of
// chunk records.
//
// The sequence is consumed exactly once and construction is all-or-nothing:
// the first failed element aborts the build and no table is produced. Records
// are assigned row offsets in arrival order.
//
// Parameters:
//   - ctx: Cancellation context, checked between elements
//   - records: Fallible sequence of chunk records (see manifest.RecordSeq
//     for building one from a slice)
//   - opts: Optional configuration (see manifest.TableOption)
//
// Returns:
//   - *manifest.Table: The constructed table.
//   - error: An error if any record fails, carries no payload variant, or an
//     option is invalid.
//
// Example:
//
//	table, err := catlas.BuildManifest(ctx, records,
//	    manifest.WithRowIndex(manifest.IndexScan),
//	)
func BuildManifest(ctx context.Context, records iter.Seq2[manifest.ChunkInfo, error], opts ...manifest.TableOption) (*manifest.Table, error) {
	return manifest.Build(ctx, records, opts...)
}

// EncodeManifest serializes a manifest table into a self-describing binary
// envelope.
//
// The envelope embeds the schema, row validity, and a checksum, so
// OpenManifest needs no out-of-band information. Bodies are zstd-compressed
// unless overridden.
//
// Parameters:
//   - table: The manifest table to serialize
//   - opts: Optional encoding configuration (see columnar.EncodeOption)
//
// Returns:
//   - []byte: The serialized envelope.
//   - error: An error if the table is nil or encoding fails.
//
// Example:
//
//	data, err := catlas.EncodeManifest(table,
//	    columnar.WithCompression(format.CompressionLZ4),
//	)
func EncodeManifest(table *manifest.Table, opts ...columnar.EncodeOption) ([]byte, error) {
	if table == nil {
		return nil, errNilTable
	}

	return columnar.EncodeBatch(table.Batch(), opts...)
}

// OpenManifest deserializes an envelope produced by EncodeManifest and wraps
// it in a manifest table.
//
// The envelope's compression and byte order are detected from its header. The
// batch must carry the manifest schema.
//
// Parameters:
//   - data: The raw envelope bytes (from EncodeManifest or storage)
//   - opts: Optional configuration (see manifest.TableOption)
//
// Returns:
//   - *manifest.Table: The reconstructed table.
//   - error: An error if the envelope is corrupt or the schema does not match.
//
// Example:
//
//	table, err := catlas.OpenManifest(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for info, err := range table.All() {
//	    ...
//	}
func OpenManifest(data []byte, opts ...manifest.TableOption) (*manifest.Table, error) {
	batch, err := columnar.DecodeBatch(data)
	if err != nil {
		return nil, err
	}

	return manifest.FromBatch(batch, opts...)
}

// NewManifestStore creates a content-addressed manifest store over an object
// store backend.
//
// Manifests are stored under their content identity: Put serializes the
// table, derives the object id from the envelope bytes, and returns a
// manifest ref carrying the id, row region, and coordinate extents.
//
// Parameters:
//   - backend: The object store to persist envelopes in (see the objstore
//     package for backends)
//   - opts: Optional configuration (see manifest.StoreOption)
//
// Returns:
//   - *manifest.Store: The created store.
//   - error: An error if the backend is nil or an option is invalid.
//
// Example:
//
//	store, err := catlas.NewManifestStore(objstore.NewMemory(),
//	    manifest.WithKeyPrefix("manifests/"),
//	)
//	ref, err := store.Put(ctx, table)
func NewManifestStore(backend objstore.Store, opts ...manifest.StoreOption) (*manifest.Store, error) {
	return manifest.NewStore(backend, opts...)
}
