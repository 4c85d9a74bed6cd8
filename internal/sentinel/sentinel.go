// Package sentinel manages the zero-byte "done" marker files that record a
// completed directory or bucket. A marker is the only completion record; its
// presence skips the owning directory on every later run.
package sentinel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Name is the marker file name.
const Name = "done"

// Path returns the marker location for dir.
func Path(dir string) string {
	return filepath.Join(dir, Name)
}

// Exists reports whether dir carries a marker. Stat failures other than
// "not exist" are returned to the caller.
func Exists(dir string) (bool, error) {
	_, err := os.Stat(Path(dir))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat sentinel: %w", err)
}

// Mark creates the marker in dir. An existing marker is left untouched.
func Mark(dir string) error {
	f, err := os.OpenFile(Path(dir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("create sentinel: %w", err)
	}
	return f.Close()
}
