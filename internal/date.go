package internal

import (
	"os"
	"strings"
	"time"
)

const exifTimeLayout = "2006:01:02 15:04:05"

var videoTimeLayouts = []string{
	"2006-01-02 15:04:05",
	exifTimeLayout,
	"2006-01-02T15:04:05",
}

// ResolveDate picks the capture timestamp with an ordered fallback: the
// original-capture tag, then digitized, then the generic timestamp, then the
// video container's creation date, then the filesystem timestamp. Every parse
// failure is skipped silently; ok is false only when even the file itself
// cannot be stat'd.
func ResolveDate(meta Metadata, path string) (time.Time, bool) {
	for _, raw := range []string{meta.OriginalDate, meta.DigitizedDate, meta.GenericDate} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(exifTimeLayout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}

	if meta.VideoCreation != "" {
		raw := strings.TrimSpace(meta.VideoCreation)
		// Drop fractional seconds before matching.
		if i := strings.IndexByte(raw, '.'); i >= 0 {
			raw = raw[:i]
		}
		for _, layout := range videoTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}

	// fallback to file modification time
	if fi, err := os.Stat(path); err == nil {
		return fi.ModTime(), true
	}
	return time.Time{}, false
}
