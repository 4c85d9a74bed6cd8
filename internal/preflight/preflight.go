package preflight

import (
	"context"
	"fmt"
	"strings"

	"mediabatch/internal/config"
	"mediabatch/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the log directory, staging directory and, when root is not
// empty, the tree to process.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
	}
	if strings.TrimSpace(root) != "" {
		results = append(results, CheckDirectoryAccess("Media root", root))
	}
	return results
}

// CheckSystemDeps reports the encoder binary availability for cfg.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(ctx, []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.EncoderBinary(),
			Description: "Required for encoding",
			VersionArgs: []string{"-version"},
		},
	})
}

// FirstFailure returns an error describing the first failed result, or nil.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			return fmt.Errorf("preflight %s: %s", strings.ToLower(r.Name), r.Detail)
		}
	}
	return nil
}
