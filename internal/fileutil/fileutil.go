package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst, truncating any existing dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// LinkOrCopy makes dst refer to src, preferring a symlink and falling back to
// a full copy on filesystems that refuse links. It reports whether a copy was
// made.
func LinkOrCopy(src, dst string) (bool, error) {
	linkErr := os.Symlink(src, dst)
	if linkErr == nil {
		return false, nil
	}
	if errors.Is(linkErr, os.ErrExist) {
		return false, linkErr
	}
	if err := CopyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return false, fmt.Errorf("symlink failed (%v), copy failed: %w", linkErr, err)
	}
	return true, nil
}
