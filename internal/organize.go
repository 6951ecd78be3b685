package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stats is the aggregate result of a run. Per-file outcomes only appear in
// logs and the session manifest.
type Stats struct {
	Attempted        int
	Succeeded        int
	SkippedDuplicate int
	Failed           int
}

// Organizer drives the per-file pipeline: hash, dedup gate, metadata
// extraction, date/location resolution, destination build, copy or move.
// A failure in one file never stops the walk.
type Organizer struct {
	cfg      *Config
	log      *Logger
	video    VideoMetadataReader
	location *LocationResolver
	seen     *DigestSet

	Move   bool // relocate instead of copy
	DryRun bool // report intent, write nothing
}

func NewOrganizer(cfg *Config, log *Logger, video VideoMetadataReader, location *LocationResolver) *Organizer {
	return &Organizer{
		cfg:      cfg,
		log:      log,
		video:    video,
		location: location,
		seen:     NewDigestSet(),
	}
}

// Run walks sourceDir and organizes every supported file into outputDir.
// The context is checked between files, never mid-copy.
func (o *Organizer) Run(ctx context.Context, sourceDir, outputDir string) (Stats, error) {
	var stats Stats

	files, err := ScanMediaFiles(sourceDir, o.cfg)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		o.log.Info("no supported media files found")
		return stats, nil
	}
	o.log.Info("found %d media files to process", len(files))

	var session *RunSession
	if !o.DryRun {
		session, err = NewRunSession(outputDir)
		if err != nil {
			return stats, err
		}
		defer session.Close()
		session.LogRunStart(sourceDir, len(files))
	}

	errStats := NewErrorStats()
	for _, mf := range files {
		if err := ctx.Err(); err != nil {
			o.log.Warning("run canceled after %d/%d files", stats.Succeeded, stats.Attempted)
			return stats, err
		}

		stats.Attempted++
		outcome, err := o.processFile(ctx, mf, outputDir)
		if err != nil {
			stats.Failed++
			procErr := CategorizeError(mf.Path, err)
			o.log.Error("failed to process %s: %v", mf.Path, err)
			errStats.Add(procErr)
			if session != nil {
				session.LogError(mf.Path, procErr)
			}
			if abort, reason := errStats.ShouldAbort(); abort {
				o.log.Error("%s", errStats.GenerateReport())
				return stats, errors.New(reason)
			}
			continue
		}
		errStats.ResetConsecutive()

		if outcome.duplicate {
			stats.SkippedDuplicate++
			if session != nil {
				session.LogSkippedDuplicate(mf.Path, outcome.digest)
			}
			continue
		}

		stats.Succeeded++
		if session != nil {
			session.LogOrganized(mf.Path, outcome.dest, outcome.digest, outcome.size)
		}
	}

	if session != nil {
		session.LogRunEnd(stats)
	}
	o.log.Info("successfully processed %d/%d files", stats.Succeeded, stats.Attempted)
	return stats, nil
}

// ProcessOne runs the pipeline for a single path, used by watch mode.
// Unsupported extensions are ignored silently.
func (o *Organizer) ProcessOne(ctx context.Context, path, outputDir string) error {
	ext := strings.ToLower(filepath.Ext(path))
	cat := o.cfg.Categorize(ext)
	if cat == CategoryUnsupported {
		return nil
	}
	mf := MediaFile{Path: path, Ext: ext, Category: cat}
	outcome, err := o.processFile(ctx, mf, outputDir)
	if err != nil {
		return err
	}
	if outcome.duplicate {
		o.log.Info("skipping duplicate file: %s", path)
	}
	return nil
}

type fileOutcome struct {
	duplicate bool
	dest      string
	digest    string
	size      int64
}

func (o *Organizer) processFile(ctx context.Context, mf MediaFile, outputDir string) (fileOutcome, error) {
	var out fileOutcome

	// Dedup gate. A hash failure means the file skips duplicate detection,
	// not that it fails: dedup is best-effort.
	digest, err := FileDigest(mf.Path)
	if err != nil {
		o.log.Warning("failed to calculate hash for %s, duplicate check skipped: %v", mf.Path, err)
	} else {
		out.digest = digest
		if o.seen.Seen(digest) {
			o.log.Info("skipping duplicate file: %s", mf.Path)
			out.duplicate = true
			return out, nil
		}
	}

	var meta Metadata
	switch mf.Category {
	case CategoryPhoto, CategoryPhoneNative:
		meta = ExtractPhotoMetadata(mf.Path)
	case CategoryVideo:
		meta = o.video.Read(mf.Path)
	}

	date, dateOK := ResolveDate(meta, mf.Path)
	coord := DecodeGPS(meta.GPS)
	location := o.location.Resolve(ctx, coord)

	destDir := DestDir(outputDir, date, dateOK, location)
	name := filepath.Base(mf.Path)

	if o.DryRun {
		verb := "copy"
		if o.Move {
			verb = "move"
		}
		o.log.Info("[dry-run] would %s %s -> %s", verb, mf.Path, filepath.Join(destDir, name))
		out.dest = filepath.Join(destDir, name)
		return out, nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return out, fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	name = ResolveCollision(destDir, name)
	destPath := filepath.Join(destDir, name)

	if fi, err := os.Stat(mf.Path); err == nil {
		out.size = fi.Size()
	}

	if o.Move {
		err = moveFile(mf.Path, destPath)
	} else {
		err = copyFileAtomic(mf.Path, destPath)
	}
	if err != nil {
		return out, err
	}

	if o.Move {
		o.log.Info("moved: %s -> %s", mf.Path, destPath)
	} else {
		o.log.Info("copied: %s -> %s", mf.Path, destPath)
	}
	out.dest = destPath
	return out, nil
}

// copyFileAtomic copies a file atomically (copy temp → rename)
func copyFileAtomic(src, dest string) error {
	tmp := dest + ".tmp"
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	out.Close()

	return os.Rename(tmp, dest)
}

// moveFile renames when possible and falls back to copy+remove across devices.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFileAtomic(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}
