// Package main hosts the mediabatch CLI entrypoint and command graph.
//
// The combine and stitch commands walk a media tree and hand each directory
// to the pipeline; status, history and config are supporting utilities.
// Configuration resolution, logger setup, locking and journaling are wired
// here.
package main
