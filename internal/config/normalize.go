package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Combine.Prefix = strings.TrimSpace(c.Combine.Prefix)
	c.Combine.Extensions = normalizeExtensions(c.Combine.Extensions)
	c.Combine.Size = strings.ToLower(strings.TrimSpace(c.Combine.Size))
	c.Combine.Codec = strings.TrimSpace(c.Combine.Codec)
	if c.Combine.Codec == "" {
		c.Combine.Codec = defaultCombineCodec
	}
	c.Combine.OutputName = strings.TrimSpace(c.Combine.OutputName)
	if c.Combine.OutputName == "" {
		c.Combine.OutputName = defaultCombineOutputName
	}

	c.Stitch.Prefix = strings.TrimSpace(c.Stitch.Prefix)
	c.Stitch.Extensions = normalizeExtensions(c.Stitch.Extensions)
	c.Stitch.Codec = strings.TrimSpace(c.Stitch.Codec)
	if c.Stitch.Codec == "" {
		c.Stitch.Codec = defaultStitchCodec
	}
	c.normalizeEncoder()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("MEDIABATCH_LOG_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LogDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir()
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.StagingMaxAgeHours < 0 {
		c.Paths.StagingMaxAgeHours = 0
	}
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		if value, ok := os.LookupEnv("MEDIABATCH_FFMPEG"); ok {
			c.Encoder.Binary = strings.TrimSpace(value)
		}
	}
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = defaultEncoderBinary
	}
	if c.Encoder.RetryDelaySeconds < 0 {
		c.Encoder.RetryDelaySeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// normalizeExtensions trims entries, strips a leading dot, and drops
// duplicates. Case is preserved because extension matching is case-sensitive.
func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.TrimPrefix(strings.TrimSpace(value), ".")
		if ext == "" {
			continue
		}
		if _, exists := seen[ext]; exists {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}
