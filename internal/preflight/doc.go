// Package preflight checks the filesystem and external programs a run depends
// on before any directory is touched.
//
// The combine and stitch commands call RunAll and refuse to start when a check
// fails; the status command renders the same results as a table.
package preflight
