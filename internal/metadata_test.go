package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractPhotoMetadata_NoExif(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	meta := ExtractPhotoMetadata(path)
	if meta.OriginalDate != "" || meta.GenericDate != "" || meta.GPS != nil {
		t.Errorf("expected empty metadata for a file without EXIF, got %+v", meta)
	}
}

func TestExtractPhotoMetadata_MissingFile(t *testing.T) {
	meta := ExtractPhotoMetadata(filepath.Join(t.TempDir(), "gone.jpg"))
	if meta.OriginalDate != "" || meta.GPS != nil {
		t.Errorf("expected empty metadata for a missing file, got %+v", meta)
	}
}

func TestNoopVideoReader(t *testing.T) {
	r := NoopVideoReader()
	defer r.Close()

	meta := r.Read("whatever.mp4")
	if meta.VideoCreation != "" {
		t.Errorf("expected empty metadata from the no-op reader, got %+v", meta)
	}
}
