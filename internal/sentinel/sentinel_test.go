package sentinel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarkAndExists(t *testing.T) {
	dir := t.TempDir()

	done, err := Exists(dir)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if done {
		t.Fatal("fresh directory should not be marked")
	}

	if err := Mark(dir); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := Mark(dir); err != nil {
		t.Fatalf("second Mark: %v", err)
	}

	done, err = Exists(dir)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !done {
		t.Fatal("expected directory to be marked")
	}

	info, err := os.Stat(filepath.Join(dir, "done"))
	if err != nil {
		t.Fatalf("stat marker: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("marker must be zero bytes, got %d", info.Size())
	}
}

func TestMarkMissingDirectory(t *testing.T) {
	if err := Mark(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error marking a missing directory")
	}
}
