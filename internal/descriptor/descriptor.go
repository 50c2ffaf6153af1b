// Package descriptor derives the dimension- and path-based facts of an image:
// resolution label and standard, aspect ratio, composition and file format.
package descriptor

import (
	"fmt"
	"image"

	apperrors "go-image-quality/internal/errors"
	"go-image-quality/internal/strategy"
	"go-image-quality/pkg/models"
)

// Descriptor holds everything Describe derives from the original image
type Descriptor struct {
	Width              int
	Height             int
	Resolution         string
	ResolutionStandard models.ResolutionStandard
	AspectRatio        string
	Composition        models.Composition
	FileFormat         string
}

// Describer computes descriptors with a pluggable resolution strategy
type Describer struct {
	resolutions strategy.ResolutionStrategy
}

// NewDescriber creates a describer. A nil strategy selects the default
// exact-then-threshold chain.
func NewDescriber(resolutions strategy.ResolutionStrategy) *Describer {
	if resolutions == nil {
		resolutions = strategy.DefaultStrategy()
	}
	return &Describer{resolutions: resolutions}
}

// Describe must be given the decoded original, not a resized copy.
func (d *Describer) Describe(img image.Image, path string) (Descriptor, error) {
	bounds := img.Bounds()
	return d.DescribeSize(bounds.Dx(), bounds.Dy(), path)
}

// DescribeSize is Describe for callers that only know the dimensions
func (d *Describer) DescribeSize(width, height int, path string) (Descriptor, error) {
	if width <= 0 || height <= 0 {
		return Descriptor{}, apperrors.NewInvalidDimensionError(width, height)
	}

	desc := Descriptor{
		Width:       width,
		Height:      height,
		Resolution:  fmt.Sprintf("%dx%d", width, height),
		Composition: models.CompositionOf(width, height),
		FileFormat:  FileFormat(path),
	}

	match, ok := d.resolutions.Match(width, height)
	if ok {
		desc.ResolutionStandard = match.Standard
	}
	if ok && match.AspectRatio != "" {
		desc.AspectRatio = match.AspectRatio
		return desc, nil
	}

	ratio, err := AspectRatio(width, height)
	if err != nil {
		return Descriptor{}, err
	}
	desc.AspectRatio = ratio
	return desc, nil
}

// StrategyName reports which resolution strategy is in use
func (d *Describer) StrategyName() string {
	return d.resolutions.GetStrategyName()
}
