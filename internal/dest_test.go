package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDestDir(t *testing.T) {
	date := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)

	got := DestDir("/out", date, true, "Paris_France")
	want := filepath.Join("/out", "2024", "03-March", "Paris_France")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDestDir_UnknownPlaceholders(t *testing.T) {
	got := DestDir("/out", time.Time{}, false, UnknownLocation)
	want := filepath.Join("/out", "Unknown_Year", "Unknown_Month", "Unknown_Location")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()

	// Empty directory: bare name is free.
	if got := ResolveCollision(dir, "img.jpg"); got != "img.jpg" {
		t.Errorf("expected img.jpg, got %s", got)
	}

	os.WriteFile(filepath.Join(dir, "img.jpg"), []byte("a"), 0644)
	if got := ResolveCollision(dir, "img.jpg"); got != "img_1.jpg" {
		t.Errorf("expected img_1.jpg, got %s", got)
	}

	os.WriteFile(filepath.Join(dir, "img_1.jpg"), []byte("b"), 0644)
	if got := ResolveCollision(dir, "img.jpg"); got != "img_2.jpg" {
		t.Errorf("expected img_2.jpg, got %s", got)
	}
}
