// Package exifmeta reads capture timestamps from image EXIF data.
package exifmeta

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Layout is the display format for capture timestamps.
const Layout = "2006-01-02 15:04:05"

// Unknown is shown when an image carries no readable timestamp.
const Unknown = "Unknown"

// CaptureTime returns DateTimeOriginal, falling back to DateTime.
func CaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exif: %w", err)
	}
	return x.DateTime()
}

// Timestamp formats the capture time of path, or returns Unknown.
func Timestamp(path string) string {
	ts, err := CaptureTime(path)
	if err != nil || ts.IsZero() {
		return Unknown
	}
	return ts.Format(Layout)
}
