package main

import (
	"github.com/spf13/cobra"

	"mediabatch/internal/config"
	"mediabatch/internal/pipeline"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var prefix string
	var logDir string
	var size string

	cmd := &cobra.Command{
		Use:   "combine <root>",
		Short: "Concatenate the video clips of every directory into one file",
		Long: `Walk <root> and, in every directory without a done sentinel, concatenate
the matching clips in name order into a single output video. The directory
is marked done once the encoder succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override := func(cfg *config.Config) {
				if cmd.Flags().Changed("prefix") {
					cfg.Combine.Prefix = prefix
				}
				if cmd.Flags().Changed("log-dir") {
					cfg.Paths.LogDir = logDir
				}
				if cmd.Flags().Changed("size") {
					cfg.Combine.Size = size
				}
			}
			return runWorkflow(cmd, ctx, "combine", args[0], override, func(cfg *config.Config, deps pipeline.Deps) pipeline.Processor {
				return pipeline.NewCombiner(cfg, deps)
			})
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only combine files whose name starts with this prefix")
	cmd.Flags().StringVarP(&logDir, "log-dir", "l", "", "Directory for the dated log file (must exist)")
	cmd.Flags().StringVarP(&size, "size", "s", "", "Output frame size as WidthxHeight")
	return cmd
}
