package models

import (
	"encoding/json"
	"testing"
)

func TestCompositionOf(t *testing.T) {
	tests := []struct {
		width, height int
		want          Composition
	}{
		{100, 100, CompositionSquare},
		{1, 1, CompositionSquare},
		{1920, 1080, CompositionLandscape},
		{2, 1, CompositionLandscape},
		{1080, 1920, CompositionPortrait},
		{1, 2, CompositionPortrait},
	}

	for _, tt := range tests {
		if got := CompositionOf(tt.width, tt.height); got != tt.want {
			t.Errorf("CompositionOf(%d, %d) = %s, want %s", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestQualityLevel_Order(t *testing.T) {
	if !(QualityLow < QualityMedium && QualityMedium < QualityHigh) {
		t.Error("Expected Low < Medium < High")
	}
}

func TestQualityLevel_JSON(t *testing.T) {
	report := Report{QualityLevel: QualityMedium}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Failed to marshal report: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal report: %v", err)
	}
	if decoded["quality_level"] != "medium" {
		t.Errorf("Expected quality_level to be \"medium\", got %v", decoded["quality_level"])
	}

	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if back.QualityLevel != QualityMedium {
		t.Errorf("Expected QualityMedium after decode, got %v", back.QualityLevel)
	}
}

func TestQualityLevel_UnmarshalUnknownName(t *testing.T) {
	var q QualityLevel
	if err := q.UnmarshalText([]byte("excellent")); err == nil {
		t.Error("Expected error for unknown level name")
	}
}
