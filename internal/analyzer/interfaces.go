package analyzer

import (
	"image"

	"go-image-quality/pkg/models"
)

// ImageEvaluator runs the full evaluation pipeline
type ImageEvaluator interface {
	// Evaluate decodes the file at path and evaluates it
	Evaluate(path string) (models.Report, error)

	// EvaluateImage evaluates an already decoded original. path is only
	// used for the file format label.
	EvaluateImage(img image.Image, path string) (models.Report, error)
}

// MetricsCalculator computes pixel statistics of a preprocessed image
type MetricsCalculator interface {
	CalculateMetrics(pre *image.NRGBA) Metrics
}
