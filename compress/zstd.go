package compress

// ZstdCompressor handles Zstandard frames, the format of .zst files.
//
// The default build uses the pure Go klauspost/compress/zstd implementation.
// Building with the gozstd tag switches to the cgo binding valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
