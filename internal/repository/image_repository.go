package repository

import (
	"context"
	"fmt"

	apperrors "go-image-quality/internal/errors"
	"go-image-quality/internal/storage"
	"go-image-quality/pkg/validation"
)

// Sources holds the image sources a repository routes between. A nil
// source disables that kind of reference.
type Sources struct {
	Local storage.ImageSource
	HTTP  storage.ImageSource
	Azure storage.ImageSource
}

// SourceRepository implements ImageRepository by routing on the reference
// form: blob storage URLs, other URLs, then filesystem paths.
type SourceRepository struct {
	sources   Sources
	validator *validation.SourceValidator
}

// NewSourceRepository creates a repository over the given sources
func NewSourceRepository(sources Sources, validator *validation.SourceValidator) ImageRepository {
	if validator == nil {
		validator = validation.NewSourceValidator(sources.Local != nil)
	}
	return &SourceRepository{sources: sources, validator: validator}
}

// Validate checks ref against the validator and the configured sources
func (r *SourceRepository) Validate(ref string) error {
	if err := r.validator.Validate(ref); err != nil {
		return err
	}
	_, err := r.route(ref)
	return err
}

// SourceFor names the source that would serve ref
func (r *SourceRepository) SourceFor(ref string) (string, error) {
	src, err := r.route(ref)
	if err != nil {
		return "", err
	}
	return src.Name(), nil
}

// Open validates ref and fetches it from the matching source
func (r *SourceRepository) Open(ctx context.Context, ref string) (*storage.LocalImage, error) {
	if err := r.validator.Validate(ref); err != nil {
		return nil, err
	}
	src, err := r.route(ref)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx, ref)
}

func (r *SourceRepository) route(ref string) (storage.ImageSource, error) {
	var src storage.ImageSource
	kind := "local"
	switch {
	case storage.IsBlobURL(ref) && r.sources.Azure != nil:
		src, kind = r.sources.Azure, "azure"
	case validation.IsURL(ref):
		src, kind = r.sources.HTTP, "http"
	default:
		src = r.sources.Local
	}
	if src == nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s references are not enabled", kind), ErrSourceUnavailable)
	}
	return src, nil
}
