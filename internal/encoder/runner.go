// Package encoder builds ffmpeg argument lists and runs them as checked,
// optionally retried subprocesses.
//
// Arguments are always passed as a programmatic list; paths are never
// interpolated into a shell command line.
package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"mediabatch/internal/logging"
)

// ErrEncoderFailed wraps every failed invocation.
var ErrEncoderFailed = errors.New("encoder failed")

const stderrTailLines = 8

// Invocation describes one encoder run.
type Invocation struct {
	Label string
	Dir   string
	Args  []string
}

// Result reports the outcome of an invocation after all attempts.
type Result struct {
	Attempts int
	Stderr   string
	Elapsed  time.Duration
	Err      error
}

// OK reports whether the final attempt succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Runner executes encoder invocations.
type Runner interface {
	Binary() string
	Run(ctx context.Context, inv Invocation) Result
}

type commandFunc func(ctx context.Context, dir, name string, args []string, stderr io.Writer) error

// Exec runs the encoder binary with os/exec.
type Exec struct {
	binary     string
	retries    int
	retryDelay time.Duration
	stream     io.Writer
	logger     *slog.Logger
	run        commandFunc
}

// Option customizes an Exec runner.
type Option func(*Exec)

// WithRetries re-runs failed invocations up to n extra times, sleeping delay
// between attempts.
func WithRetries(n int, delay time.Duration) Option {
	return func(e *Exec) {
		if n > 0 {
			e.retries = n
		}
		e.retryDelay = delay
	}
}

// WithStderr tees encoder stderr to w as it is produced.
func WithStderr(w io.Writer) Option {
	return func(e *Exec) { e.stream = w }
}

// WithLogger sets the logging destination.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exec) { e.logger = logging.NewComponentLogger(logger, "encoder") }
}

func withCommandFunc(fn commandFunc) Option {
	return func(e *Exec) { e.run = fn }
}

// New constructs an Exec runner for binary.
func New(binary string, opts ...Option) *Exec {
	e := &Exec{
		binary: strings.TrimSpace(binary),
		logger: logging.NewComponentLogger(nil, "encoder"),
		run:    runCommand,
	}
	if e.binary == "" {
		e.binary = "ffmpeg"
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the executable name or path.
func (e *Exec) Binary() string { return e.binary }

// Run executes inv, retrying failed attempts. Cancellation of ctx is never
// retried.
func (e *Exec) Run(ctx context.Context, inv Invocation) Result {
	start := time.Now()
	logger := logging.WithContext(ctx, e.logger)
	var result Result
	for attempt := 1; attempt <= e.retries+1; attempt++ {
		result.Attempts = attempt
		var stderr bytes.Buffer
		var sink io.Writer = &stderr
		if e.stream != nil {
			sink = io.MultiWriter(&stderr, e.stream)
		}
		logger.Debug("running encoder",
			logging.String("label", inv.Label),
			logging.Int("attempt", attempt),
			logging.String("command", Command(e.binary, inv.Args)),
		)
		err := e.run(ctx, inv.Dir, e.binary, inv.Args, sink)
		result.Stderr = stderr.String()
		if err == nil {
			result.Err = nil
			break
		}
		result.Err = fmt.Errorf("%w: %s: %v%s", ErrEncoderFailed, inv.Label, err, formatTail(result.Stderr))
		if ctx.Err() != nil {
			result.Err = fmt.Errorf("%w: %s: %w", ErrEncoderFailed, inv.Label, ctx.Err())
			break
		}
		if attempt > e.retries {
			break
		}
		logging.WarnWithContext(logger, "encoder attempt failed; retrying", "encoder_retry",
			logging.String("label", inv.Label),
			logging.Int("attempt", attempt),
			logging.Error(err),
			logging.String(logging.FieldImpact, "unit will be re-encoded"),
		)
		if !sleep(ctx, e.retryDelay) {
			result.Err = fmt.Errorf("%w: %s: %w", ErrEncoderFailed, inv.Label, ctx.Err())
			break
		}
	}
	result.Elapsed = time.Since(start)
	return result
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func formatTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return ": " + strings.Join(lines, " | ")
}

func runCommand(ctx context.Context, dir, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = stderr
	return cmd.Run()
}
