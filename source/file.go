package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/tdms/compress"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/options"
)

// File is a ByteSource over an open file.
type File struct {
	f    *os.File
	size int64
}

var _ ReadCloser = (*File)(nil)

// OpenFile opens path for positioned reads.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &File{f: f, size: st.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *File) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the file size at open time.
func (s *File) Size() int64 {
	return s.size
}

// Name returns the file name as given to OpenFile.
func (s *File) Name() string {
	return s.f.Name()
}

// Close closes the file.
func (s *File) Close() error {
	return s.f.Close()
}

type openConfig struct {
	compression format.CompressionType
	detect      bool
}

// Option configures Open.
type Option = options.Option[*openConfig]

// WithCompression forces the archive compression instead of detecting it.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *openConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct
		c.detect = false

		return nil
	})
}

var suffixes = map[string]format.CompressionType{
	".zst":  format.CompressionZstd,
	".zstd": format.CompressionZstd,
	".lz4":  format.CompressionLZ4,
	".s2":   format.CompressionS2,
	".sz":   format.CompressionS2,
}

// CompressionFromName returns the compression implied by the file suffix,
// CompressionNone for anything else.
func CompressionFromName(path string) format.CompressionType {
	if ct, ok := suffixes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}

	return format.CompressionNone
}

// Open opens a TDMS file or a compressed archive of one.
//
// Plain files are read with positioned reads. Files whose suffix names a
// compression (.zst, .lz4, .s2) or set with WithCompression are inflated into
// memory.
//
// Parameters:
//   - path: File path
//   - opts: Optional WithCompression
//
// Returns:
//   - ReadCloser: The source, to be closed by the caller
//   - error: Open, read or decompression error
func Open(path string, opts ...Option) (ReadCloser, error) {
	cfg := &openConfig{compression: CompressionFromName(path), detect: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.compression == format.CompressionNone {
		return OpenFile(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ct := cfg.compression
	if cfg.detect {
		if sniffed := compress.Sniff(raw); sniffed != format.CompressionNone {
			ct = sniffed
		}
	}

	return decompress(raw, ct)
}

// Decompress returns an in-memory source over the decompressed archive data.
func Decompress(data []byte, ct format.CompressionType) (ReadCloser, error) {
	return decompress(data, ct)
}

func decompress(data []byte, ct format.CompressionType) (ReadCloser, error) {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}

	image, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s archive: %w", ct, err)
	}

	return memory{bytes.NewReader(image)}, nil
}
