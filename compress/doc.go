// Package compress provides the compression codecs applied to columnar
// envelope payloads.
//
// A manifest envelope stores its column sections as one contiguous payload;
// the codec named in the envelope flag compresses that payload as a unit.
// Four algorithms are supported, selected by format.CompressionType:
//   - None: no compression (fastest, largest)
//   - Zstd: best ratio; the default for persisted manifests
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// # Architecture
//
// Three interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// GetCodec maps a format.CompressionType to its built-in Codec. Envelope
// encoding and decoding both resolve their codec through it, so the two
// sides can never disagree on the algorithm: the identifier travels in the
// envelope flag word.
//
// # Selection guide
//
// Coordinate and offset columns are small integers with heavy byte-level
// repetition and compress well under every algorithm. Inline-data columns
// carry arbitrary chunk bytes and may not compress at all. Zstd is the
// right default for manifests that go to object storage; use LZ4 or S2 when
// manifests are decoded on a hot query path; use None for already-compressed
// inline payloads or when profiling the envelope itself.
//
// # Build variants
//
// The Zstd codec has two implementations selected at build time: a cgo
// binding (valyala/gozstd) when cgo is enabled, and a pure-Go fallback
// (klauspost/compress/zstd) otherwise. Both produce standard Zstandard
// frames and decode each other's output.
//
// # Thread safety
//
// All codecs are stateless values or use internal pools; they are safe for
// concurrent use.
package compress
