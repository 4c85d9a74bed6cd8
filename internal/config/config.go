package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains log and staging directory configuration.
type Paths struct {
	LogDir             string `toml:"log_dir"`
	StagingDir         string `toml:"staging_dir"`
	StagingMaxAgeHours int    `toml:"staging_max_age_hours"`
}

// Combine contains configuration for the video combine workflow.
type Combine struct {
	Prefix     string   `toml:"prefix"`
	Extensions []string `toml:"extensions"`
	Size       string   `toml:"size"`
	Codec      string   `toml:"codec"`
	OutputName string   `toml:"output_name"`
}

// Stitch contains configuration for the image stitch workflow.
type Stitch struct {
	Prefix           string   `toml:"prefix"`
	Extensions       []string `toml:"extensions"`
	BucketCount      int      `toml:"bucket_count"`
	FrameRate        int      `toml:"frame_rate"`
	Codec            string   `toml:"codec"`
	TimestampOverlay bool     `toml:"timestamp_overlay"`
	OverlayWidth     int      `toml:"overlay_width"`
	OverlayHeight    int      `toml:"overlay_height"`
}

// Encoder contains configuration for the external ffmpeg invocation.
type Encoder struct {
	Binary            string `toml:"binary"`
	Quality           int    `toml:"quality"`
	Retries           int    `toml:"retries"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
	// IgnoreExitStatus marks units complete even when ffmpeg fails.
	IgnoreExitStatus bool `toml:"ignore_exit_status"`
}

// Walk contains directory traversal settings.
type Walk struct {
	// Sorted orders file names lexically. When false the raw filesystem
	// listing order is kept.
	Sorted bool `toml:"sorted"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
	Verbose       bool   `toml:"verbose"`
}

// Journal contains configuration for the SQLite run history.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for mediabatch.
//
// Configuration sections by subsystem:
//   - Paths: log and staging directories
//   - Combine: file filter and encoder parameters for video concatenation
//   - Stitch: file filter, bucket count and overlay settings for image clips
//   - Encoder: ffmpeg binary, quality, retry and exit-status policy
//   - Walk: traversal ordering
//   - Logging: log format, level, retention and console mirroring
//   - Journal: optional SQLite history of processed units
type Config struct {
	Paths   Paths   `toml:"paths"`
	Combine Combine `toml:"combine"`
	Stitch  Stitch  `toml:"stitch"`
	Encoder Encoder `toml:"encoder"`
	Walk    Walk    `toml:"walk"`
	Logging Logging `toml:"logging"`
	Journal Journal `toml:"journal"`
}

// ErrLogDirMissing reports a configured log directory that does not exist.
var ErrLogDirMissing = errors.New("log directory does not exist")

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediabatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates the config. Callers that mutate a loaded
// config (for example from command-line flags) run it again afterwards.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediabatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the staging directory and confirms the log
// directory exists. A missing log directory is a fatal configuration error;
// it is never created implicitly.
func (c *Config) EnsureDirectories() error {
	info, err := os.Stat(c.Paths.LogDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrLogDirMissing, c.Paths.LogDir)
		}
		return fmt.Errorf("stat log directory %q: %w", c.Paths.LogDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("log directory %q is not a directory", c.Paths.LogDir)
	}
	if err := os.MkdirAll(c.Paths.StagingDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StagingDir, err)
	}
	return nil
}

// EncoderBinary returns the ffmpeg executable name or path.
func (c *Config) EncoderBinary() string {
	if strings.TrimSpace(c.Encoder.Binary) == "" {
		return defaultEncoderBinary
	}
	return c.Encoder.Binary
}

// JournalPath returns the SQLite history location.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Paths.LogDir, defaultJournalDatabaseName)
}

// ParseSize splits a WidthxHeight string into its dimensions.
func ParseSize(value string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(value)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad size %q; expected WidthxHeight", value)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad width in %q: %w", value, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad height in %q: %w", value, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must have positive dimensions", value)
	}
	return w, h, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStagingDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "mediabatch", "staging")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mediabatch-staging")
	}
	return filepath.Join(home, ".cache", "mediabatch", "staging")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
