package pipeline

import (
	"context"
	"log/slog"
	"time"

	"mediabatch/internal/encoder"
	"mediabatch/internal/journal"
	"mediabatch/internal/logging"
)

// UnitResult is the outcome of one output unit.
type UnitResult struct {
	Label    string
	Output   string
	Files    int
	Status   journal.Status
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Complete reports whether the unit counts toward the directory sentinel.
func (u UnitResult) Complete() bool {
	return u.Status != journal.StatusFailed
}

// Deps are the collaborators shared by processors.
type Deps struct {
	Encoder encoder.Runner
	Logger  *slog.Logger
	DryRun  bool
	// IgnoreExitStatus treats failed encodes as complete.
	IgnoreExitStatus bool
}

func (d Deps) logger(ctx context.Context, component string) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(d.Logger, component))
}

// encode runs inv unless this is a dry run, folding the outcome into unit.
// It reports whether the invocation succeeded (or was only planned).
func (d Deps) encode(ctx context.Context, logger *slog.Logger, inv encoder.Invocation, unit *UnitResult) bool {
	command := encoder.Command(d.Encoder.Binary(), inv.Args)
	if d.DryRun {
		logger.Info("dry run; encoder not invoked", logging.String("command", command))
		unit.Status = journal.StatusPlanned
		return true
	}

	logger.Info("encoding", logging.String("step", inv.Label), logging.String("command", command))
	res := d.Encoder.Run(ctx, inv)
	unit.Attempts += res.Attempts
	unit.Elapsed += res.Elapsed
	if res.OK() {
		unit.Status = journal.StatusEncoded
		return true
	}

	unit.Err = res.Err
	if d.IgnoreExitStatus && ctx.Err() == nil {
		logging.WarnWithContext(logger, "encoder failed; marking complete anyway", "encode_failed_ignored",
			logging.Error(res.Err),
			logging.Int("attempts", res.Attempts),
			logging.String(logging.FieldImpact, "output may be missing or truncated"),
		)
		unit.Status = journal.StatusEncoded
		return true
	}
	logging.ErrorWithContext(logger, "encoder failed", "encode_failed",
		logging.Error(res.Err),
		logging.Int("attempts", res.Attempts),
		logging.String(logging.FieldErrorHint, "check the encoder stderr above or raise encoder.retries"),
		logging.String(logging.FieldImpact, "no sentinel written; unit will be retried on the next run"),
	)
	unit.Status = journal.StatusFailed
	return false
}
