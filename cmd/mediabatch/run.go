package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediabatch/internal/config"
	"mediabatch/internal/encoder"
	"mediabatch/internal/journal"
	"mediabatch/internal/logging"
	"mediabatch/internal/pipeline"
	"mediabatch/internal/preflight"
	"mediabatch/internal/runlock"
	"mediabatch/internal/staging"
	"mediabatch/internal/walk"
)

// errUnitsFailed is returned when a run finished but some units could not be encoded.
var errUnitsFailed = errors.New("some units failed to encode")

type processorFactory func(cfg *config.Config, deps pipeline.Deps) pipeline.Processor

// runWorkflow executes one combine or stitch run over root.
func runWorkflow(cmd *cobra.Command, ctx *commandContext, mode, root string, override func(*config.Config), build processorFactory) (err error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if override != nil {
		override(cfg)
		if err := cfg.Finalize(); err != nil {
			return err
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", root, err)
	}
	if _, statErr := os.Stat(absRoot); errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", walk.ErrRootNotFound, absRoot)
	}
	if err := preflight.FirstFailure(preflight.RunAll(cfg, absRoot)); err != nil {
		return err
	}

	logger, logPath, err := logging.NewFromConfig(cfg, mode, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	dryRun := ctx.isDryRun()
	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)

	if !dryRun {
		lock, lockErr := runlock.Acquire(absRoot)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logging.WarnWithContext(logger, "failed to release run lock", "runlock_release_failed",
					logging.String("path", lock.Path()),
					logging.Error(err),
				)
			}
		}()
	}

	maxAge := time.Duration(cfg.Paths.StagingMaxAgeHours) * time.Hour
	staging.CleanStale(runCtx, cfg.Paths.StagingDir, maxAge, logger)
	logging.PruneDatedLogs(logger, cfg.Paths.LogDir, mode, logPath, cfg.Logging.RetentionDays)

	var recorder pipeline.Recorder
	if cfg.Journal.Enabled && !dryRun {
		store, openErr := journal.Open(runCtx, cfg.JournalPath())
		if openErr != nil {
			return fmt.Errorf("open journal: %w", openErr)
		}
		defer store.Close()
		if err := store.BeginRun(runCtx, journal.Run{ID: runID, Mode: mode, Root: absRoot, StartedAt: time.Now()}); err != nil {
			return err
		}
		recorder = store
		defer func() {
			// The run context may already be cancelled; finishing must still land.
			if ferr := store.FinishRun(context.Background(), runID, err); ferr != nil {
				logging.WarnWithContext(logger, "failed to finish journal run", "journal_write_failed", logging.Error(ferr))
			}
		}()
	}

	encOpts := []encoder.Option{
		encoder.WithLogger(logger),
		encoder.WithRetries(cfg.Encoder.Retries, time.Duration(cfg.Encoder.RetryDelaySeconds)*time.Second),
	}
	if cfg.Logging.Verbose {
		encOpts = append(encOpts, encoder.WithStderr(cmd.ErrOrStderr()))
	}
	deps := pipeline.Deps{
		Encoder:          encoder.New(cfg.EncoderBinary(), encOpts...),
		Logger:           logger,
		DryRun:           dryRun,
		IgnoreExitStatus: cfg.Encoder.IgnoreExitStatus,
	}
	runner := pipeline.NewRunner(build(cfg, deps), pipeline.Options{
		RunID:    runID,
		Walk:     walk.Options{Sorted: cfg.Walk.Sorted},
		DryRun:   dryRun,
		Logger:   logger,
		Recorder: recorder,
	})

	summary, err := runner.Run(runCtx, absRoot)
	printSummary(cmd.OutOrStdout(), mode, summary, logPath)
	if err != nil {
		return err
	}
	if summary.UnitsFailed > 0 {
		return fmt.Errorf("%w: %d failed; see %s", errUnitsFailed, summary.UnitsFailed, logPath)
	}
	return nil
}

func printSummary(w io.Writer, mode string, s pipeline.Summary, logPath string) {
	rows := [][]string{
		{"Directories", strconv.Itoa(s.Directories)},
		{"Already done", strconv.Itoa(s.Skipped)},
		{"No matching files", strconv.Itoa(s.Empty)},
		{"Completed", strconv.Itoa(s.Processed)},
		{"Incomplete", strconv.Itoa(s.Incomplete)},
		{"Units encoded", strconv.Itoa(s.UnitsEncoded)},
		{"Units failed", strconv.Itoa(s.UnitsFailed)},
	}
	if s.UnitsSkipped > 0 {
		rows = append(rows, []string{"Units skipped", strconv.Itoa(s.UnitsSkipped)})
	}
	if s.UnitsPlanned > 0 {
		rows = append(rows, []string{"Units planned (dry run)", strconv.Itoa(s.UnitsPlanned)})
	}
	fmt.Fprintf(w, "%s summary\n", mode)
	fmt.Fprintln(w, renderTable([]string{"Item", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	if logPath != "" {
		fmt.Fprintf(w, "Log: %s\n", logPath)
	}
}
