package internal

import (
	"os"
	"sort"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Rational is a raw EXIF rational component. A zero denominator marks a
// malformed value and invalidates the coordinate it belongs to.
type Rational struct {
	Num int64
	Den int64
}

// GPSRecord holds the raw GPS sub-directory of an image: latitude and
// longitude as rational triplets (or a single rational) plus hemisphere refs.
type GPSRecord struct {
	LatRef string // "N" or "S"
	LonRef string // "E" or "W"
	Lat    []Rational
	Lon    []Rational
}

// Metadata is the normalized per-file tag record. Empty fields mean the tag
// was absent or unreadable; an all-zero Metadata is a normal outcome.
type Metadata struct {
	OriginalDate  string // DateTimeOriginal, "YYYY:MM:DD HH:MM:SS"
	DigitizedDate string // DateTimeDigitized, same layout
	GenericDate   string // DateTime, same layout
	VideoCreation string // raw creation-date string from the video container
	GPS           *GPSRecord
	Extra         map[string]string // passthrough for unrecognized tags
}

// ExtractPhotoMetadata reads the EXIF directory of an image into a Metadata
// record. Any open or decode failure yields an empty record: many images
// simply carry no metadata and that is not an error.
func ExtractPhotoMetadata(path string) Metadata {
	var meta Metadata

	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return meta
	}

	meta.OriginalDate = tagString(x, exif.DateTimeOriginal)
	meta.DigitizedDate = tagString(x, exif.DateTimeDigitized)
	meta.GenericDate = tagString(x, exif.DateTime)
	meta.GPS = extractGPS(x)

	meta.Extra = make(map[string]string)
	x.Walk(extraWalker(meta.Extra))

	return meta
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func extractGPS(x *exif.Exif) *GPSRecord {
	lat := tagRationals(x, exif.GPSLatitude)
	lon := tagRationals(x, exif.GPSLongitude)
	if lat == nil && lon == nil {
		return nil
	}

	g := &GPSRecord{Lat: lat, Lon: lon, LatRef: "N", LonRef: "E"}
	if ref := tagString(x, exif.GPSLatitudeRef); ref != "" {
		g.LatRef = ref
	}
	if ref := tagString(x, exif.GPSLongitudeRef); ref != "" {
		g.LonRef = ref
	}
	return g
}

func tagRationals(x *exif.Exif, name exif.FieldName) []Rational {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	vals := make([]Rational, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil
		}
		vals = append(vals, Rational{Num: num, Den: den})
	}
	return vals
}

type extraWalker map[string]string

var knownTags = map[exif.FieldName]struct{}{
	exif.DateTimeOriginal:  {},
	exif.DateTimeDigitized: {},
	exif.DateTime:          {},
	exif.GPSLatitude:       {},
	exif.GPSLatitudeRef:    {},
	exif.GPSLongitude:      {},
	exif.GPSLongitudeRef:   {},
}

func (w extraWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if _, ok := knownTags[name]; ok {
		return nil
	}
	w[string(name)] = tag.String()
	return nil
}

// VideoMetadataReader is the optional video-metadata capability. The
// exiftool-backed implementation is selected when the binary is available;
// otherwise the no-op reader degrades every video to an empty record.
type VideoMetadataReader interface {
	Read(path string) Metadata
	Close() error
}

// Field names checked first so the captured creation date is deterministic.
var preferredDateFields = []string{
	"CreateDate",
	"CreationDate",
	"DateTimeOriginal",
	"MediaCreateDate",
	"TrackCreateDate",
}

type exiftoolVideoReader struct {
	et  *exiftool.Exiftool
	log *Logger
}

// NewVideoReader returns the exiftool-backed reader when the exiftool binary
// can be started, falling back to the no-op reader with a warning.
func NewVideoReader(log *Logger) VideoMetadataReader {
	et, err := exiftool.NewExiftool()
	if err != nil {
		log.Warning("video metadata support unavailable (exiftool not found): %v", err)
		return noopVideoReader{}
	}
	return &exiftoolVideoReader{et: et, log: log}
}

func (r *exiftoolVideoReader) Read(path string) Metadata {
	var meta Metadata

	fms := r.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return meta
	}
	fm := fms[0]
	if fm.Err != nil {
		r.log.Debug("video metadata extraction failed for %s: %v", path, fm.Err)
		return meta
	}

	meta.VideoCreation = firstDateField(fm)
	return meta
}

func (r *exiftoolVideoReader) Close() error {
	return r.et.Close()
}

// firstDateField picks the creation-date string: preferred fields first, then
// any remaining field whose name contains "Date", in sorted order.
func firstDateField(fm exiftool.FileMetadata) string {
	for _, key := range preferredDateFields {
		if v, err := fm.GetString(key); err == nil && v != "" {
			return v
		}
	}

	var keys []string
	for key := range fm.Fields {
		if strings.Contains(key, "Date") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v, err := fm.GetString(key); err == nil && v != "" {
			return v
		}
	}
	return ""
}

type noopVideoReader struct{}

func (noopVideoReader) Read(string) Metadata { return Metadata{} }
func (noopVideoReader) Close() error         { return nil }

// NoopVideoReader returns the degraded reader directly. Tests and dry runs
// use it to avoid spawning exiftool.
func NoopVideoReader() VideoMetadataReader { return noopVideoReader{} }
