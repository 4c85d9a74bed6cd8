package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediabatch/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllReportsMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(cfg, "")
	if len(results) != 2 {
		t.Fatalf("expected 2 results without root, got %d", len(results))
	}
	if err := FirstFailure(results); err != nil {
		t.Fatalf("expected all checks to pass, got %v", err)
	}

	results = RunAll(cfg, filepath.Join(t.TempDir(), "missing"))
	err := FirstFailure(results)
	if err == nil || !strings.Contains(err.Error(), "media root") {
		t.Fatalf("expected media root failure, got %v", err)
	}
}

func TestCheckSystemDepsUsesConfiguredBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg"))
	statuses := CheckSystemDeps(context.Background(), cfg)
	if len(statuses) != 1 || !statuses[0].Available {
		t.Fatalf("expected stubbed ffmpeg to be available, got %#v", statuses)
	}

	cfg.Encoder.Binary = "definitely-not-ffmpeg"
	statuses = CheckSystemDeps(context.Background(), cfg)
	if statuses[0].Available {
		t.Fatal("expected missing binary to be reported")
	}
}
