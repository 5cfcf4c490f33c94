package compress

// ZstdCompressor compresses payloads with Zstandard.
//
// Zstd gives the best ratio of the supported algorithms and is the default
// for manifests persisted to object storage, where envelope size translates
// directly into transfer time and storage cost.
//
// The implementation is selected at build time: the cgo binding
// (valyala/gozstd) when cgo is available, or the pure-Go encoder
// (klauspost/compress/zstd) otherwise. Both emit standard frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
