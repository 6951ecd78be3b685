package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	c := filepath.Join(dir, "c.jpg")

	os.WriteFile(a, []byte("same content"), 0644)
	os.WriteFile(b, []byte("same content"), 0644)
	os.WriteFile(c, []byte("different content"), 0644)

	da, err := FileDigest(a)
	if err != nil {
		t.Fatal(err)
	}
	db, _ := FileDigest(b)
	dc, _ := FileDigest(c)

	if da != db {
		t.Error("identical content should produce identical digests")
	}
	if da == dc {
		t.Error("different content should produce different digests")
	}
}

func TestFileDigest_MissingFile(t *testing.T) {
	if _, err := FileDigest(filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDigestSet_Seen(t *testing.T) {
	s := NewDigestSet()

	if s.Seen("abc") {
		t.Error("first sighting should not report seen")
	}
	if !s.Seen("abc") {
		t.Error("second sighting should report seen")
	}
	if s.Seen("def") {
		t.Error("distinct digest should not report seen")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 digests, got %d", s.Len())
	}
}
