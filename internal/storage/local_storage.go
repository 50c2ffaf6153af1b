package storage

import (
	"context"
	"os"

	apperrors "go-image-quality/internal/errors"
)

type localStorage struct{}

// NewLocalStorage returns a source for files already on disk
func NewLocalStorage() ImageSource {
	return &localStorage{}
}

func (s *localStorage) Name() string { return "local" }

// Fetch checks that ref is a regular file. The file is used in place.
func (s *localStorage) Fetch(ctx context.Context, ref string) (*LocalImage, error) {
	info, err := os.Stat(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("image file not found", err)
		}
		return nil, apperrors.NewValidationError("cannot access image file", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewValidationError("image path is a directory", nil)
	}
	return &LocalImage{Path: ref, Source: ref}, nil
}
