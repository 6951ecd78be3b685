package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	UnknownYear  = "Unknown_Year"
	UnknownMonth = "Unknown_Month"
)

// DestDir builds the destination directory root/<year>/<MM-MonthName>/<location>,
// degrading to the Unknown placeholders when no capture date was resolved.
func DestDir(root string, date time.Time, ok bool, location string) string {
	year, month := UnknownYear, UnknownMonth
	if ok {
		year = fmt.Sprintf("%04d", date.Year())
		month = fmt.Sprintf("%02d-%s", int(date.Month()), date.Month().String())
	}
	return filepath.Join(root, year, month, location)
}

// ResolveCollision returns a filename that does not yet exist in dir: the bare
// name when free, otherwise name_1, name_2, ... before the extension. The
// search is linear and deterministic for a given directory state.
func ResolveCollision(dir, name string) string {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		try := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(filepath.Join(dir, try)); os.IsNotExist(err) {
			return try
		}
	}
}
