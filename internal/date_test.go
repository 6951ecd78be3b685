package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveDate_OriginalWins(t *testing.T) {
	meta := Metadata{
		OriginalDate: "2020:05:01 10:00:00",
		GenericDate:  "2021:06:02 11:00:00",
	}

	got, ok := ResolveDate(meta, "does-not-matter")
	if !ok {
		t.Fatal("expected a resolved date")
	}
	want := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveDate_SkipsUnparseable(t *testing.T) {
	meta := Metadata{
		OriginalDate:  "not a date",
		DigitizedDate: "2019:12:24 18:30:00",
	}

	got, ok := ResolveDate(meta, "does-not-matter")
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if got.Year() != 2019 || got.Month() != time.December {
		t.Errorf("expected digitized date, got %v", got)
	}
}

func TestResolveDate_VideoFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2022-07-15 08:45:30", time.Date(2022, 7, 15, 8, 45, 30, 0, time.UTC)},
		{"2022:07:15 08:45:30", time.Date(2022, 7, 15, 8, 45, 30, 0, time.UTC)},
		{"2022-07-15T08:45:30", time.Date(2022, 7, 15, 8, 45, 30, 0, time.UTC)},
		// Fractional seconds are stripped before matching.
		{"2022-07-15 08:45:30.123456", time.Date(2022, 7, 15, 8, 45, 30, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ResolveDate(Metadata{VideoCreation: tc.raw}, "does-not-matter")
			if !ok {
				t.Fatal("expected a resolved date")
			}
			if !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolveDate_ModTimeFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("no metadata here"), 0644); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2018, 3, 9, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, want, want); err != nil {
		t.Fatal(err)
	}

	got, ok := ResolveDate(Metadata{}, path)
	if !ok {
		t.Fatal("expected a resolved date")
	}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveDate_MissingFile(t *testing.T) {
	if _, ok := ResolveDate(Metadata{}, filepath.Join(t.TempDir(), "gone.jpg")); ok {
		t.Error("expected no resolved date for a missing file")
	}
}
