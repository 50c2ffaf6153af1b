package models

import "time"

// EvaluationResponse wraps a Report with the facts the service layer knows
// about where the image came from.
type EvaluationResponse struct {
	// ID is the content fingerprint of the evaluated file.
	ID                string         `json:"id"`
	Source            string         `json:"source"`
	Timestamp         time.Time      `json:"timestamp"`
	ProcessingTimeSec float64        `json:"processing_time_sec"`
	Report            Report         `json:"report"`
	Exif              *ExifSummary   `json:"exif,omitempty"`
	Issues            []QualityIssue `json:"issues,omitempty"`
}

// ExifSummary carries the few EXIF fields worth showing next to a report.
type ExifSummary struct {
	Make        string     `json:"make,omitempty"`
	Model       string     `json:"model,omitempty"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
	Orientation int        `json:"orientation,omitempty"`
}

// QualityIssue is an advisory finding about a report
type QualityIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning", "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}
