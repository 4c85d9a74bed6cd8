// Package pipeline drives the walk → group → encode flow shared by the
// combine and stitch workflows.
//
// The Runner visits every directory beneath a root, skips directories that
// already carry a done sentinel, groups the qualifying files into buckets and
// hands them to a Processor. The directory sentinel is written only when the
// processor reports every unit complete.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"mediabatch/internal/batch"
	"mediabatch/internal/journal"
	"mediabatch/internal/logging"
	"mediabatch/internal/sentinel"
	"mediabatch/internal/walk"
)

// Processor turns the buckets of one directory into encoded outputs.
type Processor interface {
	Name() string
	Filter() batch.Filter
	BucketCount() int
	Process(ctx context.Context, dir walk.Directory, buckets []batch.Bucket) ([]UnitResult, error)
}

// Recorder receives unit outcomes. journal.Store satisfies it.
type Recorder interface {
	RecordUnit(ctx context.Context, unit journal.Unit) error
}

// Options configures a Runner.
type Options struct {
	RunID    string
	Walk     walk.Options
	DryRun   bool
	Logger   *slog.Logger
	Recorder Recorder
}

// Runner walks a tree and applies a Processor to each directory.
type Runner struct {
	proc    Processor
	opts    Options
	logger  *slog.Logger
	summary Summary
}

// NewRunner constructs a Runner for proc.
func NewRunner(proc Processor, opts Options) *Runner {
	return &Runner{
		proc:   proc,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
}

// Run processes every directory under root. A relative root is resolved
// against the working directory before the walk. Fatal errors stop the walk;
// encoder failures only leave the affected directory unmarked.
func (r *Runner) Run(ctx context.Context, root string) (Summary, error) {
	r.summary = Summary{}
	abs, err := filepath.Abs(root)
	if err != nil {
		return r.summary, fmt.Errorf("resolve root %q: %w", root, err)
	}
	root = abs
	if r.opts.RunID != "" {
		ctx = logging.WithRunID(ctx, r.opts.RunID)
	}
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("starting run",
		logging.String(logging.FieldMode, r.proc.Name()),
		logging.String("root", root),
		logging.Int("buckets", r.proc.BucketCount()),
		logging.Bool("dry_run", r.opts.DryRun),
	)
	if err := walk.Walk(ctx, root, r.opts.Walk, r.visit); err != nil {
		return r.summary, err
	}
	logger.Info("run finished", r.summary.attrs()...)
	return r.summary, nil
}

func (r *Runner) visit(ctx context.Context, dir walk.Directory) error {
	ctx = logging.WithDirectory(ctx, dir.Path)
	logger := logging.WithContext(ctx, r.logger)
	r.summary.Directories++
	logger.Info("found directory", logging.Int("files", len(dir.Files)))

	done, err := sentinel.Exists(dir.Path)
	if err != nil {
		return err
	}
	if done {
		r.summary.Skipped++
		logger.Info("directory already processed; skipping")
		return nil
	}

	buckets, err := batch.Group(r.proc.Filter(), dir.Files, r.proc.BucketCount())
	if err != nil {
		return err
	}
	if !batch.NonEmpty(buckets) {
		r.summary.Empty++
		logger.Info("no matching files")
		return nil
	}
	logger.Info("grouped files",
		logging.Int("matched", batch.Total(buckets)),
		logging.Int("buckets", len(buckets)),
	)

	results, procErr := r.proc.Process(ctx, dir, buckets)
	complete := true
	for _, res := range results {
		r.summary.add(res)
		r.record(ctx, dir, res)
		if !res.Complete() {
			complete = false
		}
	}
	if procErr != nil {
		return fmt.Errorf("process %s: %w", dir.Path, procErr)
	}

	if !complete {
		r.summary.Incomplete++
		logging.WarnWithContext(logger, "directory left unmarked", "directory_incomplete",
			logging.String(logging.FieldErrorHint, "inspect encoder errors above and re-run"),
			logging.String(logging.FieldImpact, "directory will be retried on the next run"),
		)
		return nil
	}
	if r.opts.DryRun {
		r.summary.Processed++
		logger.Info("dry run; directory sentinel not written")
		return nil
	}
	if err := sentinel.Mark(dir.Path); err != nil {
		return err
	}
	r.summary.Processed++
	logger.Info("directory complete", logging.String("sentinel", sentinel.Path(dir.Path)))
	return nil
}

func (r *Runner) record(ctx context.Context, dir walk.Directory, res UnitResult) {
	if r.opts.Recorder == nil || r.opts.DryRun {
		return
	}
	unit := journal.Unit{
		RunID:      r.opts.RunID,
		Directory:  dir.Path,
		Label:      res.Label,
		OutputPath: res.Output,
		FileCount:  res.Files,
		Status:     res.Status,
		Attempts:   res.Attempts,
		Duration:   res.Elapsed,
	}
	if res.Err != nil {
		unit.ErrorMessage = res.Err.Error()
	}
	if err := r.opts.Recorder.RecordUnit(ctx, unit); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to record unit", "journal_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history will be incomplete"),
		)
	}
}

// Summary tallies one run.
type Summary struct {
	Directories  int
	Skipped      int
	Empty        int
	Processed    int
	Incomplete   int
	UnitsEncoded int
	UnitsFailed  int
	UnitsSkipped int
	UnitsPlanned int
}

func (s *Summary) add(res UnitResult) {
	switch res.Status {
	case journal.StatusEncoded:
		s.UnitsEncoded++
	case journal.StatusFailed:
		s.UnitsFailed++
	case journal.StatusSkipped:
		s.UnitsSkipped++
	case journal.StatusPlanned:
		s.UnitsPlanned++
	}
}

func (s Summary) attrs() []any {
	return logging.Args(
		logging.Int("directories", s.Directories),
		logging.Int("skipped", s.Skipped),
		logging.Int("empty", s.Empty),
		logging.Int("processed", s.Processed),
		logging.Int("incomplete", s.Incomplete),
		logging.Int("units_encoded", s.UnitsEncoded),
		logging.Int("units_failed", s.UnitsFailed),
	)
}
