package chain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/internal/options"
)

// DefaultMaxMetadataSize bounds the metadata block of a single segment.
const DefaultMaxMetadataSize = 256 << 20

type config struct {
	logger          *zap.Logger
	strict          bool
	maxMetadataSize uint64
	metadataCache   bool
}

func defaultConfig() *config {
	return &config{
		logger:          zap.NewNop(),
		maxMetadataSize: DefaultMaxMetadataSize,
		metadataCache:   true,
	}
}

// Option configures Build.
type Option = options.Option[*config]

// WithLogger sets the logger that receives segment diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return options.New(func(c *config) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", errs.ErrInvalidOption)
		}
		c.logger = logger

		return nil
	})
}

// WithStrict makes corruption after the first segment fatal. Without it Build
// returns the segments parsed so far and records ErrPartialFile.
func WithStrict(strict bool) Option {
	return options.NoError(func(c *config) {
		c.strict = strict
	})
}

// WithMaxMetadataSize rejects segments whose metadata block is larger than n bytes.
func WithMaxMetadataSize(n uint64) Option {
	return options.New(func(c *config) error {
		if n == 0 {
			return fmt.Errorf("%w: metadata size limit must be positive", errs.ErrInvalidOption)
		}
		c.maxMetadataSize = n

		return nil
	})
}

// WithMetadataCache enables or disables reuse of the parsed object list when a
// segment repeats the previous segment's metadata block byte for byte.
func WithMetadataCache(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.metadataCache = enabled
	})
}
