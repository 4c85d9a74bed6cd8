// Package batch selects candidate files and assigns them to round-robin
// buckets. Bucket membership depends only on input order and bucket count.
package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNoBuckets reports a bucket count below one.
var ErrNoBuckets = errors.New("bucket count must be at least 1")

// Filter matches file names by prefix and extension. Extension membership is
// case-sensitive; names are compared in Unicode NFC form.
type Filter struct {
	Prefix     string
	Extensions []string
	// Exclude lists exact names that never qualify, such as a previous output.
	Exclude []string
}

// Match reports whether name qualifies.
func (f Filter) Match(name string) bool {
	name = norm.NFC.String(name)
	for _, excluded := range f.Exclude {
		if name == norm.NFC.String(excluded) {
			return false
		}
	}
	if !strings.HasPrefix(name, norm.NFC.String(f.Prefix)) {
		return false
	}
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	ext = ext[1:]
	for _, allowed := range f.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Select returns the qualifying names in input order.
func (f Filter) Select(names []string) []string {
	var out []string
	for _, name := range names {
		if f.Match(name) {
			out = append(out, name)
		}
	}
	return out
}

// Bucket is one ordered group of files destined for a single output unit.
type Bucket struct {
	Index int
	Files []string
}

// Label returns the output unit name for the bucket, e.g. seq003.
func (b Bucket) Label() string {
	return fmt.Sprintf("seq%03d", b.Index)
}

// Group assigns the qualifying names to n buckets: the k-th qualifying name
// (zero-based) lands in bucket k mod n. Exactly n buckets are returned, some
// possibly empty.
func Group(f Filter, names []string, n int) ([]Bucket, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrNoBuckets, n)
	}
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Index = i
	}
	count := 0
	for _, name := range names {
		if !f.Match(name) {
			continue
		}
		slot := count % n
		buckets[slot].Files = append(buckets[slot].Files, name)
		count++
	}
	return buckets, nil
}

// Total returns the number of files across all buckets.
func Total(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += len(b.Files)
	}
	return total
}

// NonEmpty reports whether any bucket has members.
func NonEmpty(buckets []Bucket) bool {
	for _, b := range buckets {
		if len(b.Files) > 0 {
			return true
		}
	}
	return false
}
