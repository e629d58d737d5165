package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/internal/options"
	"github.com/arloliu/tdms/internal/pool"
)

// DefaultReadWindow is the default number of bytes fetched per source read.
const DefaultReadWindow = pool.WindowBufferDefaultSize

type config struct {
	logger *zap.Logger
	window int
}

// Option configures a Reader.
type Option = options.Option[*config]

// WithLogger sets the logger for sequence diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return options.New(func(c *config) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", errs.ErrInvalidOption)
		}
		c.logger = logger

		return nil
	})
}

// WithReadWindow sets the maximum number of bytes fetched per source read.
// A window smaller than one value still reads whole values.
func WithReadWindow(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: read window must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.window = n

		return nil
	})
}
