package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediabatch/internal/deps"
	"mediabatch/internal/preflight"
	"mediabatch/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [root]",
		Short: "Check the encoder and the configured directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := cfg.EnsureDirectories(); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			}

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			depRows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				detail := s.Detail
				if s.Available {
					detail = strings.TrimSpace(s.Path + " " + s.Version)
				}
				depRows = append(depRows, []string{s.Name, statusLabel(out, s.Available, s.Optional), detail})
			}
			fmt.Fprintln(out, "Dependencies")
			fmt.Fprintln(out, renderTable([]string{"Name", "Status", "Detail"}, depRows, nil))

			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			results := preflight.RunAll(cfg, root)
			checkRows := make([][]string, 0, len(results))
			for _, r := range results {
				checkRows = append(checkRows, []string{r.Name, statusLabel(out, r.Passed, false), r.Detail})
			}
			fmt.Fprintln(out, "Directories")
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows, nil))

			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			fmt.Fprintf(out, "Journal: %s\n", yesNo(cfg.Journal.Enabled))
			if leftovers, err := staging.ListDirectories(cfg.Paths.StagingDir); err == nil && len(leftovers) > 0 {
				var total int64
				for _, d := range leftovers {
					total += d.Size
				}
				fmt.Fprintf(out, "Staging: %d leftover unit directories (%d bytes)\n", len(leftovers), total)
			}

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("required dependency %s unavailable: %s", missing[0].Name, missing[0].Detail)
			}
			return preflight.FirstFailure(results)
		},
	}
}
