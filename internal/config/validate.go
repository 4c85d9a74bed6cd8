package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCombine(); err != nil {
		return err
	}
	if err := c.validateStitch(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCombine() error {
	if len(c.Combine.Extensions) == 0 {
		return errors.New("combine.extensions must list at least one extension")
	}
	if _, _, err := ParseSize(c.Combine.Size); err != nil {
		return fmt.Errorf("combine.size: %w", err)
	}
	if strings.ContainsAny(c.Combine.OutputName, `/\`) {
		return fmt.Errorf("combine.output_name %q must be a bare file name", c.Combine.OutputName)
	}
	return nil
}

func (c *Config) validateStitch() error {
	if len(c.Stitch.Extensions) == 0 {
		return errors.New("stitch.extensions must list at least one extension")
	}
	if c.Stitch.BucketCount < 1 {
		return errors.New("stitch.bucket_count must be at least 1")
	}
	if c.Stitch.FrameRate <= 0 {
		return errors.New("stitch.frame_rate must be positive")
	}
	if c.Stitch.TimestampOverlay {
		if c.Stitch.OverlayWidth <= 0 || c.Stitch.OverlayHeight <= 0 {
			return errors.New("stitch.overlay_width and stitch.overlay_height must be positive when timestamp_overlay is enabled")
		}
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.Retries < 0 {
		return errors.New("encoder.retries must be zero or positive")
	}
	if c.Encoder.Quality < 1 || c.Encoder.Quality > 31 {
		return errors.New("encoder.quality must be between 1 and 31")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
