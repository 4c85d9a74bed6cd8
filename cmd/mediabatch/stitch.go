package main

import (
	"github.com/spf13/cobra"

	"mediabatch/internal/config"
	"mediabatch/internal/pipeline"
)

func newStitchCommand(ctx *commandContext) *cobra.Command {
	var prefix string
	var logDir string
	var buckets int
	var timestamp bool

	cmd := &cobra.Command{
		Use:   "stitch <root>",
		Short: "Turn the photos of every directory into short image-sequence clips",
		Long: `Walk <root> and, in every directory without a done sentinel, deal the
matching images round-robin into buckets and encode each bucket as
<dir>/seqNNN/seqNNN.mov. Completed buckets are skipped on later runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override := func(cfg *config.Config) {
				if cmd.Flags().Changed("prefix") {
					cfg.Stitch.Prefix = prefix
				}
				if cmd.Flags().Changed("log-dir") {
					cfg.Paths.LogDir = logDir
				}
				if cmd.Flags().Changed("buckets") {
					cfg.Stitch.BucketCount = buckets
				}
				if cmd.Flags().Changed("timestamp") {
					cfg.Stitch.TimestampOverlay = timestamp
				}
			}
			return runWorkflow(cmd, ctx, "stitch", args[0], override, func(cfg *config.Config, deps pipeline.Deps) pipeline.Processor {
				return pipeline.NewStitcher(cfg, deps)
			})
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only stitch files whose name starts with this prefix")
	cmd.Flags().StringVarP(&logDir, "log-dir", "l", "", "Directory for the dated log file (must exist)")
	cmd.Flags().IntVarP(&buckets, "buckets", "n", 0, "Number of clips to split each directory into")
	cmd.Flags().BoolVar(&timestamp, "timestamp", false, "Burn the EXIF capture time into each frame")
	return cmd
}
