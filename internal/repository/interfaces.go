package repository

import (
	"context"

	"go-image-quality/internal/storage"
)

// ImageRepository resolves image references to local files
type ImageRepository interface {
	// Open fetches ref and returns a file ready for decoding. The caller
	// must Close the result.
	Open(ctx context.Context, ref string) (*storage.LocalImage, error)

	// Validate checks ref without fetching anything
	Validate(ref string) error

	// SourceFor names the source that would serve ref
	SourceFor(ref string) (string, error)
}
