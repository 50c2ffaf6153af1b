package validation

import "go-image-quality/pkg/models"

// Sharpness boundaries between quality levels. Both comparisons are strict,
// so a sharpness of exactly 100 is Medium and exactly 50 is Low.
const (
	HighSharpnessThreshold   = 100.0
	MediumSharpnessThreshold = 50.0
)

// Classify grades an image by its Laplacian variance
func Classify(sharpness float64) models.QualityLevel {
	switch {
	case sharpness > HighSharpnessThreshold:
		return models.QualityHigh
	case sharpness > MediumSharpnessThreshold:
		return models.QualityMedium
	default:
		return models.QualityLow
	}
}
