// Package compress provides the codecs used to read archived TDMS files.
//
// Measurement archives are frequently stored compressed. The source package
// uses these codecs to inflate such an archive into memory before the
// segment walk starts; the TDMS decoder itself never sees compressed bytes.
//
// # Supported Algorithms
//
//	Type                   | Files  | Formats accepted by Decompress
//	-----------------------|--------|-------------------------------------
//	format.CompressionNone | .tdms  | anything, returned as is
//	format.CompressionZstd | .zst   | Zstandard frames
//	format.CompressionS2   | .s2    | S2 / Snappy framed streams, raw S2 blocks
//	format.CompressionLZ4  | .lz4   | LZ4 frames, raw LZ4 blocks
//
// Zstandard uses the pure Go klauspost/compress/zstd by default; build with
// the gozstd tag to use the cgo binding valyala/gozstd instead.
//
//	codec, err := compress.GetCodec(compress.Sniff(data))
//	if err != nil {
//	    return err
//	}
//	image, err := codec.Decompress(data)
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoders and decoders and
// may be shared across goroutines.
package compress
