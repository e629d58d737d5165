package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Compressor compresses a whole TDMS file image.
type Compressor interface {
	// Compress returns the compressed form of data. The result is owned by the caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a TDMS file image.
//
// Implementations accept both the framed stream format written by the
// algorithm's command line tools and the raw block format.
type Decompressor interface {
	// Decompress returns the original bytes. The result is owned by the caller.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
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

// GetCodec retrieves the built-in Codec for the compression type.
//
// Returns:
//   - Codec: Shared codec instance, safe for concurrent use
//   - error: ErrUnsupportedCompression for unknown types
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

var (
	zstdMagic     = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}
	s2StreamMagic = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic   = []byte("\xff\x06\x00\x00sNaPpY")
	tdmsTag       = []byte("TDSm")
)

// Sniff guesses the compression of data from its leading magic bytes.
// Uncompressed TDMS data and unrecognised data report CompressionNone.
func Sniff(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, tdmsTag):
		return format.CompressionNone
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4FrameMagic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2StreamMagic), bytes.HasPrefix(data, snappyMagic):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}
