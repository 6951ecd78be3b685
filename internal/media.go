package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category classifies a media file by its extension.
type Category int

const (
	CategoryUnsupported Category = iota
	CategoryPhoto
	CategoryVideo
	CategoryPhoneNative // HEIC/HEIF phone formats, treated as photos with EXIF
)

// MediaFile is a discovered source file. Immutable once scanned.
type MediaFile struct {
	Path     string
	Ext      string // lowercase, including the dot
	Category Category
}

// Categorize maps a lowercase extension to its media category.
func (c *Config) Categorize(ext string) Category {
	for _, e := range c.PhotoExt {
		if ext == e {
			return CategoryPhoto
		}
	}
	for _, e := range c.VideoExt {
		if ext == e {
			return CategoryVideo
		}
	}
	for _, e := range c.PhoneExt {
		if ext == e {
			return CategoryPhoneNative
		}
	}
	return CategoryUnsupported
}

// ScanMediaFiles scans input directory recursively for media files based on extensions
func ScanMediaFiles(inputDir string, cfg *Config) ([]MediaFile, error) {
	var files []MediaFile
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		cat := cfg.Categorize(ext)
		if cat == CategoryUnsupported {
			return nil
		}
		files = append(files, MediaFile{Path: path, Ext: ext, Category: cat})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}
	return files, nil
}
