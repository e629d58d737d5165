package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Compressor handles S2 (and Snappy) streams as well as raw S2 blocks.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data into a raw S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// CompressStream compresses data into the framed S2 stream format of .s2 files.
func (c S2Compressor) CompressStream(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("s2 stream compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("s2 stream compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a framed S2/Snappy stream or a raw S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if bytes.HasPrefix(data, s2StreamMagic) || bytes.HasPrefix(data, snappyMagic) {
		out, err := io.ReadAll(s2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("s2 stream decompression failed: %w", err)
		}

		return out, nil
	}

	return s2.Decode(nil, data)
}
