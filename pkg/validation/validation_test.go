package validation

import (
	"testing"

	apperrors "go-image-quality/internal/errors"
	"go-image-quality/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sharpness float64
		want      models.QualityLevel
	}{
		{0, models.QualityLow},
		{50, models.QualityLow},
		{50.01, models.QualityMedium},
		{99.99, models.QualityMedium},
		{100, models.QualityMedium},
		{100.01, models.QualityHigh},
		{5000, models.QualityHigh},
	}

	for _, tt := range tests {
		if got := Classify(tt.sharpness); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.sharpness, got, tt.want)
		}
	}
}

func goodReport() models.Report {
	return models.Report{
		Sharpness:          250,
		Brightness:         128,
		Contrast:           45,
		Width:              1920,
		Height:             1080,
		Resolution:         "1920x1080",
		ResolutionStandard: "1080p",
		AspectRatio:        "16:9",
		Composition:        models.CompositionLandscape,
		FileFormat:         "JPG",
		QualityLevel:       models.QualityHigh,
	}
}

func issueTypes(issues []models.QualityIssue) map[string]models.QualityIssue {
	m := make(map[string]models.QualityIssue, len(issues))
	for _, issue := range issues {
		m[issue.Type] = issue
	}
	return m
}

func TestQualityValidator_GoodImage(t *testing.T) {
	issues := NewQualityValidator().Validate(goodReport())
	if len(issues) != 0 {
		t.Errorf("Expected no issues for a good report, got %v", issues)
	}
}

func TestQualityValidator_Issues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *models.Report)
		want     string
		severity string
	}{
		{"blurry", func(r *models.Report) { r.Sharpness = 12; r.QualityLevel = models.QualityLow }, "blurriness", SeverityError},
		{"dark", func(r *models.Report) { r.Brightness = 40 }, "too_dark", SeverityWarning},
		{"bright", func(r *models.Report) { r.Brightness = 240 }, "too_bright", SeverityWarning},
		{"flat", func(r *models.Report) { r.Contrast = 3 }, "low_contrast", SeverityWarning},
		{"odd size", func(r *models.Report) { r.ResolutionStandard = models.Unrecognized; r.Resolution = "640x480" }, "unrecognized_resolution", SeverityInfo},
	}

	v := NewQualityValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodReport()
			tt.mutate(&r)

			issues := v.Validate(r)
			if len(issues) != 1 {
				t.Fatalf("Expected exactly one issue, got %v", issues)
			}
			issue, ok := issueTypes(issues)[tt.want]
			if !ok {
				t.Fatalf("Expected %s issue, got %v", tt.want, issues)
			}
			if issue.Severity != tt.severity {
				t.Errorf("Expected severity %s, got %s", tt.severity, issue.Severity)
			}
		})
	}
}

func TestQualityValidator_BoundariesAreExclusive(t *testing.T) {
	r := goodReport()
	r.Brightness = 80
	r.Contrast = 20
	if issues := NewQualityValidator().Validate(r); len(issues) != 0 {
		t.Errorf("Expected values on the thresholds to pass, got %v", issues)
	}
}

func TestQualityValidator_CustomThresholds(t *testing.T) {
	v := NewQualityValidatorWithThresholds(QualityThresholds{MinBrightness: 150, MaxBrightness: 255, MinContrast: 0})
	issues := v.Validate(goodReport())
	if _, ok := issueTypes(issues)["too_dark"]; !ok {
		t.Errorf("Expected too_dark with raised minimum, got %v", issues)
	}
	if v.Thresholds().MinBrightness != 150 {
		t.Errorf("Expected thresholds to be kept, got %+v", v.Thresholds())
	}
}

func TestQualityValidator_DoesNotModifyReport(t *testing.T) {
	r := goodReport()
	r.QualityLevel = models.QualityLow
	before := r
	NewQualityValidator().Validate(r)
	if r != before {
		t.Error("Expected report to be unchanged")
	}
}

func TestHasCriticalIssues(t *testing.T) {
	if HasCriticalIssues([]models.QualityIssue{{Severity: SeverityWarning}, {Severity: SeverityInfo}}) {
		t.Error("Expected warnings and info not to be critical")
	}
	if !HasCriticalIssues([]models.QualityIssue{{Severity: SeverityError}}) {
		t.Error("Expected error severity to be critical")
	}
}

func TestSourceValidator(t *testing.T) {
	tests := []struct {
		name       string
		allowLocal bool
		ref        string
		wantErr    bool
	}{
		{"http url", false, "http://example.com/a.jpg", false},
		{"https url", false, "https://acct.blob.core.windows.net/c/a.png", false},
		{"uppercase scheme", false, "HTTPS://example.com/a.png", false},
		{"empty", true, "   ", true},
		{"ftp scheme", false, "ftp://example.com/a.jpg", true},
		{"no host", false, "http:///a.jpg", true},
		{"local path disallowed", false, "/tmp/a.jpg", true},
		{"local path allowed", true, "/tmp/a.jpg", false},
		{"relative path allowed", true, "images/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSourceValidator(tt.allowLocal).Validate(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestSourceValidator_AllowedHosts(t *testing.T) {
	v := NewSourceValidatorWithOptions([]string{"https"}, []string{"images.example.com"}, false)

	if err := v.Validate("https://images.example.com:8443/a.jpg"); err != nil {
		t.Errorf("Expected allowed host to pass, got %v", err)
	}
	if err := v.Validate("https://evil.example.com/a.jpg"); err == nil {
		t.Error("Expected other host to be rejected")
	}
	if err := v.Validate("http://images.example.com/a.jpg"); err == nil {
		t.Error("Expected http to be rejected when only https is allowed")
	}
}
