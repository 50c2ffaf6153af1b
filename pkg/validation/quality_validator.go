package validation

import (
	"go-image-quality/pkg/models"
)

// Issue severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// QualityThresholds defines configurable thresholds for quality advisories
type QualityThresholds struct {
	// Brightness thresholds on the 0-255 gray scale
	MinBrightness float64
	MaxBrightness float64

	// MinContrast is the lowest acceptable gray standard deviation
	MinContrast float64
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinBrightness: 80.0,
		MaxBrightness: 220.0,
		MinContrast:   20.0,
	}
}

// QualityValidator derives advisory issues from a finished report
type QualityValidator struct {
	thresholds QualityThresholds
}

// NewQualityValidator creates a new quality validator with default thresholds
func NewQualityValidator() *QualityValidator {
	return &QualityValidator{
		thresholds: DefaultQualityThresholds(),
	}
}

// NewQualityValidatorWithThresholds creates a quality validator with custom thresholds
func NewQualityValidatorWithThresholds(thresholds QualityThresholds) *QualityValidator {
	return &QualityValidator{
		thresholds: thresholds,
	}
}

// Thresholds returns the thresholds in use
func (qv *QualityValidator) Thresholds() QualityThresholds {
	return qv.thresholds
}

// Validate lists the issues found in report. The report itself is not
// changed; an empty result means nothing worth flagging.
func (qv *QualityValidator) Validate(report models.Report) []models.QualityIssue {
	var issues []models.QualityIssue

	// 1. Blurriness
	if report.QualityLevel == models.QualityLow {
		issues = append(issues, models.QualityIssue{
			Type:        "blurriness",
			Message:     "Image is blurry. Please hold the camera steady and try again.",
			Severity:    SeverityError,
			ActualValue: report.Sharpness,
			Threshold:   MediumSharpnessThreshold,
		})
	}

	// 2. Brightness
	if report.Brightness < qv.thresholds.MinBrightness {
		issues = append(issues, models.QualityIssue{
			Type:        "too_dark",
			Message:     "Image is too dark. Take the photo in more light.",
			Severity:    SeverityWarning,
			ActualValue: report.Brightness,
			Threshold:   qv.thresholds.MinBrightness,
		})
	} else if report.Brightness > qv.thresholds.MaxBrightness {
		issues = append(issues, models.QualityIssue{
			Type:        "too_bright",
			Message:     "Image is too bright. Avoid strong sunlight or flash.",
			Severity:    SeverityWarning,
			ActualValue: report.Brightness,
			Threshold:   qv.thresholds.MaxBrightness,
		})
	}

	// 3. Contrast
	if report.Contrast < qv.thresholds.MinContrast {
		issues = append(issues, models.QualityIssue{
			Type:        "low_contrast",
			Message:     "Image looks flat. Avoid haze and uniform lighting.",
			Severity:    SeverityWarning,
			ActualValue: report.Contrast,
			Threshold:   qv.thresholds.MinContrast,
		})
	}

	// 4. Resolution standard
	if report.ResolutionStandard == models.Unrecognized {
		issues = append(issues, models.QualityIssue{
			Type:     "unrecognized_resolution",
			Message:  "Resolution " + report.Resolution + " does not match a known standard.",
			Severity: SeverityInfo,
		})
	}

	return issues
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func HasCriticalIssues(issues []models.QualityIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
