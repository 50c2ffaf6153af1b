package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ImageSource fetches an image reference onto local disk
type ImageSource interface {
	Fetch(ctx context.Context, ref string) (*LocalImage, error)
	Name() string
}

// ErrTooLarge is returned when a payload exceeds the configured size limit
var ErrTooLarge = errors.New("image exceeds size limit")

// LocalImage is an image file ready for decoding. Close releases any
// temporary copy; it is safe to call more than once.
type LocalImage struct {
	// Path is the file to decode. Its extension selects the decoder.
	Path string
	// Source is the reference the image was fetched from
	Source string

	cleanup func() error
}

// Close removes temporary files owned by the image
func (l *LocalImage) Close() error {
	if l == nil || l.cleanup == nil {
		return nil
	}
	fn := l.cleanup
	l.cleanup = nil
	return fn()
}

// NewTempImage copies r into a temporary file named after name's extension.
// A positive limit caps the number of bytes accepted.
func NewTempImage(r io.Reader, name, source string, limit int64) (*LocalImage, error) {
	f, err := os.CreateTemp("", "imgqa-*"+extensionOf(name))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	remove := func() error { return os.Remove(tmp) }

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		remove()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if limit > 0 && n > limit {
		remove()
		return nil, ErrTooLarge
	}

	return &LocalImage{Path: tmp, Source: source, cleanup: remove}, nil
}

// extensionOf returns the lowercase extension of a file name or URL path,
// ignoring any query string.
func extensionOf(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(path.Ext(filepath.ToSlash(name)))
}
