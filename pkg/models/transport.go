package models

// EvaluationRequest asks the API to evaluate an image reference: a local
// path, an http(s) URL or an Azure blob URL.
type EvaluationRequest struct {
	Source string `json:"source" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// StatsResponse exposes evaluation counters collected by the observer.
type StatsResponse struct {
	TotalEvaluations      int64                  `json:"total_evaluations"`
	SuccessfulEvaluations int64                  `json:"successful_evaluations"`
	FailedEvaluations     int64                  `json:"failed_evaluations"`
	AvgProcessingTimeMs   float64                `json:"avg_processing_time_ms"`
	ByQualityLevel        map[QualityLevel]int64 `json:"by_quality_level"`
}
