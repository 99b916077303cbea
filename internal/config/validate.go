package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/volmesh/internal/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if clip := c.Mesh.Clip; clip != nil {
		if clip.X < 0 || clip.Y < 0 {
			err = multierr.Append(err, invalid("mesh.clip origin %d,%d is negative", clip.X, clip.Y))
		}
		if clip.Width < 1 || clip.Height < 1 {
			err = multierr.Append(err, invalid("mesh.clip size %dx%d is empty", clip.Width, clip.Height))
		}
	}
	if c.Volume.Depth < 0 {
		err = multierr.Append(err, invalid("volume.depth %v is negative", c.Volume.Depth))
	}
	if c.Output.STL && c.Output.Dir == "" {
		err = multierr.Append(err, invalid("output.dir is required for STL export"))
	}
	if c.Provider.Workers < 1 {
		err = multierr.Append(err, invalid("provider.workers %d must be at least 1", c.Provider.Workers))
	}
	if _, lerr := logger.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, invalid("logging.level: %v", lerr))
	}

	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
