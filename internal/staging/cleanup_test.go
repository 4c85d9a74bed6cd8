package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"mediabatch/internal/logging"
)

func unitName(label string) string {
	return label + "-" + uuid.NewString()
}

func makeOldDir(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("set old time: %v", err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	root := t.TempDir()

	oldDir := filepath.Join(root, unitName("seq000"))
	makeOldDir(t, oldDir, 2*time.Hour)
	recentDir := filepath.Join(root, unitName("seq001"))
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("create recent dir: %v", err)
	}

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected %s removed, got %v", oldDir, result.Removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old directory should have been removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent directory should still exist")
	}
}

func TestCleanStaleLeavesForeignDirectories(t *testing.T) {
	root := t.TempDir()
	foreign := []string{
		filepath.Join(root, "family-photos"),
		filepath.Join(root, "seq000-not-a-uuid"),
		filepath.Join(root, "backup-"+uuid.NewString()+"-old"),
	}
	for _, dir := range foreign {
		makeOldDir(t, dir, 72*time.Hour)
	}
	unit := filepath.Join(root, unitName("seq004"))
	makeOldDir(t, unit, 72*time.Hour)

	result := CleanStale(context.Background(), root, 24*time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != unit {
		t.Fatalf("expected only %s removed, got %v", unit, result.Removed)
	}
	for _, dir := range foreign {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("foreign directory %s must survive: %v", dir, err)
		}
	}
}

func TestIsUnitName(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name string
		want bool
	}{
		{"seq003-" + id, true},
		{id, true},
		{"seq-003-" + id, true},
		{"-" + id, false},
		{"seq003" + id, false},
		{"seq003-" + id + "x", false},
		{"family-photos", false},
		{"seq003-zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", false},
	}
	for _, tt := range tests {
		if got := IsUnitName(tt.name); got != tt.want {
			t.Errorf("IsUnitName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCleanStaleZeroAgeDisabled(t *testing.T) {
	root := t.TempDir()
	makeOldDir(t, filepath.Join(root, unitName("seq000")), 48*time.Hour)
	if result := CleanStale(context.Background(), root, 0, logging.NewNop()); len(result.Removed) != 0 {
		t.Fatalf("zero max age must not remove anything, got %v", result.Removed)
	}
}

func TestCleanStaleIgnoresFiles(t *testing.T) {
	root := t.TempDir()
	oldFile := filepath.Join(root, "old-file.txt")
	if err := os.WriteFile(oldFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Errorf("expected no removals for files, got %d", len(result.Removed))
	}
	if _, err := os.Stat(oldFile); err != nil {
		t.Error("file should not have been removed")
	}
}

func TestListDirectories(t *testing.T) {
	root := t.TempDir()
	name1, name2 := unitName("seq000"), unitName("seq001")
	dir1 := filepath.Join(root, name1)
	dir2 := filepath.Join(root, name2)
	for _, d := range []string{dir1, dir2, filepath.Join(root, "unrelated")} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "not-a-dir.txt"), []byte("test"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "data.bin"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir1, "data.bin"), filepath.Join(dir2, "img0000000000.jpg")); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListDirectories(root)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directories, got %d", len(dirs))
	}
	sizes := map[string]int64{}
	for _, d := range dirs {
		sizes[d.Name] = d.Size
		if d.ModTime.IsZero() {
			t.Errorf("ModTime should not be zero for %s", d.Name)
		}
	}
	if sizes[name1] != 5 {
		t.Errorf("%s size = %d, want 5", name1, sizes[name1])
	}
	if sizes[name2] != 0 {
		t.Errorf("symlinks must not count toward size, got %d", sizes[name2])
	}
}

func TestListDirectoriesInvalidPaths(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/12345"} {
		dirs, err := ListDirectories(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if dirs != nil {
			t.Errorf("expected nil for path %q, got %v", path, dirs)
		}
	}
}
