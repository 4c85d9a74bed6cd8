// Package staging manages the scratch directories where numbered links to
// source images are assembled before encoding.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mediabatch/internal/fileutil"
)

// uuidLen is the length of the canonical textual UUID form.
const uuidLen = 36

// IsUnitName reports whether name has the <label>-<uuid> (or bare <uuid>)
// form NewUnit produces.
func IsUnitName(name string) bool {
	if len(name) < uuidLen {
		return false
	}
	id := name[len(name)-uuidLen:]
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	prefix := name[:len(name)-uuidLen]
	return prefix == "" || (len(prefix) > 1 && strings.HasSuffix(prefix, "-"))
}

// Unit is a scratch directory owned by a single output unit.
type Unit struct {
	Path   string
	copies int
}

// NewUnit creates a fresh, uniquely named directory under root.
func NewUnit(root, label string) (*Unit, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("staging root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	name := uuid.NewString()
	if label = strings.TrimSpace(label); label != "" {
		name = label + "-" + name
	}
	path := filepath.Join(root, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Unit{Path: path}, nil
}

// Stage links each source into the unit as fmt.Sprintf(pattern, i) with i
// counting from zero. Sources keep their order.
func (u *Unit) Stage(pattern string, sources []string) error {
	for i, src := range sources {
		dst := filepath.Join(u.Path, fmt.Sprintf(pattern, i))
		copied, err := fileutil.LinkOrCopy(src, dst)
		if err != nil {
			return fmt.Errorf("stage %s: %w", filepath.Base(src), err)
		}
		if copied {
			u.copies++
		}
	}
	return nil
}

// Join returns a path inside the unit directory.
func (u *Unit) Join(name string) string {
	return filepath.Join(u.Path, name)
}

// Copies reports how many sources were copied rather than linked.
func (u *Unit) Copies() int { return u.copies }

// Remove deletes the unit directory and everything in it.
func (u *Unit) Remove() error {
	if u == nil || u.Path == "" {
		return nil
	}
	return os.RemoveAll(u.Path)
}
