package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"io/fs"
	"reflect"
	"strings"
	"testing"
)

func mkTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestWalkPreOrderWithFiles(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		"b.txt", "a.txt",
		"day1/M002.mpg", "day1/M001.mpg",
		"day1/nested/M010.mpg",
		"day2/notes.txt",
	)

	var got []Directory
	err := Walk(context.Background(), root, Options{Sorted: true}, func(_ context.Context, dir Directory) error {
		got = append(got, dir)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []Directory{
		{Path: root, Files: []string{"a.txt", "b.txt"}},
		{Path: filepath.Join(root, "day1"), Files: []string{"M001.mpg", "M002.mpg"}},
		{Path: filepath.Join(root, "day1", "nested"), Files: []string{"M010.mpg"}},
		{Path: filepath.Join(root, "day2"), Files: []string{"notes.txt"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected walk order:\n got %#v\nwant %#v", got, want)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}, func(context.Context, Directory) error {
		t.Fatal("callback must not run")
		return nil
	})
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestWalkSkipsDirectoriesCreatedDuringVisit(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "IMG_1.jpg")

	visits := 0
	err := Walk(context.Background(), root, Options{Sorted: true}, func(_ context.Context, dir Directory) error {
		visits++
		if dir.Path == root {
			return os.Mkdir(filepath.Join(root, "seq000"), 0o755)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if visits != 1 {
		t.Fatalf("expected only the root to be visited, got %d visits", visits)
	}
}

func TestWalkPropagatesCallbackError(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "a/x", "b/y")
	boom := errors.New("boom")

	visits := 0
	err := Walk(context.Background(), root, Options{Sorted: true}, func(context.Context, Directory) error {
		visits++
		if visits == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if visits != 2 {
		t.Fatalf("walk should stop after error, got %d visits", visits)
	}
}

func TestWalkPropagatesReadErrors(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	mkTree(t, root, "a/x", "locked/y", "z/w")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var visited []string
	err := Walk(context.Background(), root, Options{Sorted: true}, func(_ context.Context, dir Directory) error {
		visited = append(visited, dir.Path)
		return nil
	})
	if err == nil {
		t.Fatal("expected read error")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if !strings.Contains(err.Error(), "open directory") && !strings.Contains(err.Error(), "read directory") {
		t.Fatalf("error should name the failing read, got %v", err)
	}
	want := []string{root, filepath.Join(root, "a")}
	if !reflect.DeepEqual(visited, want) {
		t.Fatalf("walk should stop at the unreadable directory, visited %v", visited)
	}
}

func TestWalkHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "a/x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Walk(ctx, root, Options{}, func(context.Context, Directory) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWalkUnsortedKeepsAllEntries(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, "c", "a", "b")

	var files []string
	err := Walk(context.Background(), root, Options{Sorted: false}, func(_ context.Context, dir Directory) error {
		files = dir.Files
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
}

func TestFilePaths(t *testing.T) {
	dir := Directory{Path: "/media/day1", Files: []string{"M1.mpg", "M2.mpg"}}
	want := []string{filepath.Join("/media/day1", "M1.mpg"), filepath.Join("/media/day1", "M2.mpg")}
	if got := dir.FilePaths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("FilePaths() = %v, want %v", got, want)
	}
}
