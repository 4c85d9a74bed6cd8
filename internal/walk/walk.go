// Package walk enumerates a directory tree depth-first, yielding each
// directory once together with the names of its immediate files.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrRootNotFound reports a traversal root that does not exist.
var ErrRootNotFound = errors.New("root path does not exist")

// Directory is one visited directory and its immediate file names.
type Directory struct {
	Path  string
	Files []string
}

// FilePaths joins every file name onto the directory path.
func (d Directory) FilePaths() []string {
	paths := make([]string, len(d.Files))
	for i, name := range d.Files {
		paths[i] = filepath.Join(d.Path, name)
	}
	return paths
}

// Options controls traversal ordering.
type Options struct {
	// Sorted orders files and subdirectories lexically. When false the
	// order returned by the filesystem is kept.
	Sorted bool
}

// Func is called once per directory. Returning an error stops the walk.
type Func func(ctx context.Context, dir Directory) error

// Walk visits root and every directory beneath it in pre-order. The
// subdirectory list of a directory is read before fn runs for it, so
// directories created by fn are not visited during the same walk.
// Read errors are returned unchanged to the caller.
func Walk(ctx context.Context, root string, opts Options, fn Func) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", root)
	}
	return walkDir(ctx, root, opts, fn)
}

func walkDir(ctx context.Context, path string, opts Options, fn Func) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	files, subdirs, err := readDir(path, opts.Sorted)
	if err != nil {
		return err
	}
	if err := fn(ctx, Directory{Path: path, Files: files}); err != nil {
		return err
	}
	for _, name := range subdirs {
		if err := walkDir(ctx, filepath.Join(path, name), opts, fn); err != nil {
			return err
		}
	}
	return nil
}

// readDir splits the entries of path into file and directory names.
// Symlinks to directories are reported as files and never followed.
func readDir(path string, sorted bool) ([]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open directory: %w", err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory %s: %w", path, err)
	}
	if sorted {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	}

	var files, dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}
	return files, dirs, nil
}
