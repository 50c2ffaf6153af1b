// Package metadata reads camera metadata embedded in image files.
package metadata

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"go-image-quality/pkg/models"
)

// ReadExif returns the EXIF summary of the file at path. Files without
// readable EXIF data yield nil and no error.
func ReadExif(path string) (*models.ExifSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, nil
	}
	return summarize(x), nil
}

func summarize(x *exif.Exif) *models.ExifSummary {
	s := &models.ExifSummary{
		Make:  stringTag(x, exif.Make),
		Model: stringTag(x, exif.Model),
	}
	if t, err := x.DateTime(); err == nil {
		s.CapturedAt = &t
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil {
			s.Orientation = v
		}
	}
	return s
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(v, "\x00"))
}
