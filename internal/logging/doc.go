// Package logging assembles structured slog loggers and formatting helpers used
// across mediabatch.
//
// It owns the console and JSON handlers, the dated per-mode log file, and the
// optional console mirror. Context helpers tag log lines with the run
// identifier, directory, and unit so a single log file can be followed across
// a long traversal. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
