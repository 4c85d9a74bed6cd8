package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediabatch/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently encoded units from the run journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.JournalPath()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(out, "No history recorded (%s)\n", path)
				if !cfg.Journal.Enabled {
					fmt.Fprintln(out, "Set journal.enabled = true to record runs.")
				}
				return nil
			}

			store, err := journal.Open(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			units, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Fprintln(out, "No history recorded")
				return nil
			}

			rows := make([][]string, 0, len(units))
			for _, u := range units {
				rows = append(rows, []string{
					u.RecordedAt.Local().Format("2006-01-02 15:04"),
					u.Mode,
					u.Directory,
					u.Label,
					strconv.Itoa(u.FileCount),
					string(u.Status),
					strconv.Itoa(u.Attempts),
					u.Duration.Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Mode", "Directory", "Unit", "Files", "Status", "Attempts", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of units to show (0 for all)")
	return cmd
}
