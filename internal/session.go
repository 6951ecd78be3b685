package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunSession records a JSONL manifest for one organize run under
// <output>/.sessions/<id>/manifest.jsonl. The manifest is the audit trail for
// --move runs: every relocation, duplicate skip and error lands in it.
type RunSession struct {
	ID         string
	SessionDir string
	manifest   *os.File
}

// RunEvent is a single line in the manifest log.
type RunEvent struct {
	Event string `json:"event"`
	Ts    string `json:"ts"`
	Src   string `json:"src,omitempty"`
	Dest  string `json:"dest,omitempty"`
	Hash  string `json:"hash,omitempty"`
	Size  int64  `json:"size,omitempty"`
	Error string `json:"error,omitempty"`

	// Error details (for categorized errors)
	ErrorCategory   string `json:"error_category,omitempty"`
	ErrorSeverity   string `json:"error_severity,omitempty"`
	ErrorSuggestion string `json:"error_suggestion,omitempty"`

	// Run start/end fields
	SourceDir  string `json:"source_dir,omitempty"`
	TotalFiles int    `json:"total_files,omitempty"`
	Attempted  int    `json:"attempted,omitempty"`
	Succeeded  int    `json:"succeeded,omitempty"`
	Duplicates int    `json:"duplicates,omitempty"`
	Failed     int    `json:"failed,omitempty"`
}

// NewRunSession creates the session directory and opens the manifest.
func NewRunSession(outputDir string) (*RunSession, error) {
	sessionID := time.Now().Format("2006-01-02-150405")
	sessionDir := filepath.Join(outputDir, ".sessions", sessionID)

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	manifestPath := filepath.Join(sessionDir, "manifest.jsonl")
	manifest, err := os.OpenFile(manifestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest file: %w", err)
	}

	return &RunSession{
		ID:         sessionID,
		SessionDir: sessionDir,
		manifest:   manifest,
	}, nil
}

// LogRunStart writes the run start event to the manifest
func (s *RunSession) LogRunStart(sourceDir string, totalFiles int) error {
	return s.writeEvent(RunEvent{
		Event:      "run_start",
		Ts:         time.Now().UTC().Format(time.RFC3339),
		SourceDir:  sourceDir,
		TotalFiles: totalFiles,
	})
}

// LogOrganized logs a successfully relocated file
func (s *RunSession) LogOrganized(src, dest, hash string, size int64) error {
	return s.writeEvent(RunEvent{
		Event: "organized",
		Ts:    time.Now().UTC().Format(time.RFC3339),
		Src:   src,
		Dest:  dest,
		Hash:  hash,
		Size:  size,
	})
}

// LogSkippedDuplicate logs a file skipped because its content was already seen
func (s *RunSession) LogSkippedDuplicate(src, hash string) error {
	return s.writeEvent(RunEvent{
		Event: "skipped_duplicate",
		Ts:    time.Now().UTC().Format(time.RFC3339),
		Src:   src,
		Hash:  hash,
	})
}

// LogError logs a categorized per-file error
func (s *RunSession) LogError(src string, procErr *ProcessError) error {
	return s.writeEvent(RunEvent{
		Event:           "error",
		Ts:              time.Now().UTC().Format(time.RFC3339),
		Src:             src,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

// LogRunEnd writes the aggregate counts to the manifest
func (s *RunSession) LogRunEnd(stats Stats) error {
	return s.writeEvent(RunEvent{
		Event:      "run_end",
		Ts:         time.Now().UTC().Format(time.RFC3339),
		Attempted:  stats.Attempted,
		Succeeded:  stats.Succeeded,
		Duplicates: stats.SkippedDuplicate,
		Failed:     stats.Failed,
	})
}

// Close closes the manifest file
func (s *RunSession) Close() error {
	if s.manifest != nil {
		return s.manifest.Close()
	}
	return nil
}

// writeEvent writes a manifest event as a JSON line
func (s *RunSession) writeEvent(event RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := s.manifest.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to manifest: %w", err)
	}

	return s.manifest.Sync()
}
