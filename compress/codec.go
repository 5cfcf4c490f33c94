package compress

import (
	"fmt"

	"github.com/catlasdb/catlas/errs"
	"github.com/catlasdb/catlas/format"
)

// Compressor compresses envelope payloads.
//
// Inputs are complete section payloads (validity bitmaps, offset arrays and
// value buffers concatenated per column); payload sizes range from a few
// hundred bytes for small manifests to tens of megabytes for dense ones.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified. Implementations may reuse internal
	// buffers across calls.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses the transformation of the matching Compressor.
//
// Implementations must be safe for concurrent use: a decoded manifest may
// be opened by many readers at once.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// payload.
	//
	// Returns an error when the input is corrupted or was produced by a
	// different algorithm. The returned slice is newly allocated and owned
	// by the caller; the input slice is not modified.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Returns errs.ErrInvalidCompressionType for identifiers outside the
// defined set. Both envelope encode and decode resolve their codec here, so
// an envelope can only ever name an algorithm this function can serve.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompressionType, compressionType)
}
