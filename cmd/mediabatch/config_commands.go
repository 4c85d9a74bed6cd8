package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediabatch/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

// resolveInitTarget returns the expanded destination for config init.
func resolveInitTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(target)
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration and show the directories it uses",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveInitTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			_, statErr := os.Stat(target)
			switch {
			case statErr == nil && !overwrite:
				return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
			case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
				return fmt.Errorf("check config path: %w", statErr)
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Log directory:     %s (%s)\n", cfg.Paths.LogDir, dirState(cfg.Paths.LogDir))
			fmt.Fprintf(out, "Staging directory: %s (%s)\n", cfg.Paths.StagingDir, dirState(cfg.Paths.StagingDir))
			if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
				fmt.Fprintf(out, "Run `mkdir -p %s` before combine or stitch; the log directory is never created for you.\n", cfg.Paths.LogDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func dirState(path string) string {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return "missing"
	case !info.IsDir():
		return "not a directory"
	default:
		return "exists"
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration, check its directories and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			source := ctx.configPath
			if _, statErr := os.Stat(source); errors.Is(statErr, fs.ErrNotExist) {
				source += " (not found; defaults in use)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)
			printSettings(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func printSettings(w io.Writer, cfg *config.Config) {
	rows := [][]string{
		{"paths.log_dir", cfg.Paths.LogDir},
		{"paths.staging_dir", cfg.Paths.StagingDir},
		{"combine.prefix", cfg.Combine.Prefix},
		{"combine.extensions", strings.Join(cfg.Combine.Extensions, ", ")},
		{"combine.size", cfg.Combine.Size},
		{"stitch.prefix", cfg.Stitch.Prefix},
		{"stitch.extensions", strings.Join(cfg.Stitch.Extensions, ", ")},
		{"stitch.bucket_count", strconv.Itoa(cfg.Stitch.BucketCount)},
		{"stitch.timestamp_overlay", yesNo(cfg.Stitch.TimestampOverlay)},
		{"encoder.binary", cfg.EncoderBinary()},
		{"encoder.retries", strconv.Itoa(cfg.Encoder.Retries)},
		{"logging.verbose", yesNo(cfg.Logging.Verbose)},
		{"journal.enabled", yesNo(cfg.Journal.Enabled)},
	}
	fmt.Fprintln(w, renderTable([]string{"Setting", "Value"}, rows, nil))
}
