package models

import (
	"fmt"
	"strings"
)

// ResolutionStandard is a named display/broadcast tier such as "4K" or "1080p".
// The empty value means the dimensions matched no known standard.
type ResolutionStandard string

// Unrecognized is the standard reported when no table entry matches.
const Unrecognized ResolutionStandard = ""

// Composition classifies the orientation of an image.
type Composition string

const (
	CompositionSquare    Composition = "square"
	CompositionLandscape Composition = "landscape"
	CompositionPortrait  Composition = "portrait"
)

// CompositionOf returns the composition for positive dimensions.
func CompositionOf(width, height int) Composition {
	switch {
	case width == height:
		return CompositionSquare
	case width > height:
		return CompositionLandscape
	default:
		return CompositionPortrait
	}
}

// QualityLevel is an ordered grade derived from sharpness.
type QualityLevel int

const (
	QualityUnknown QualityLevel = iota
	QualityLow
	QualityMedium
	QualityHigh
)

func (q QualityLevel) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level by name so JSON output stays readable.
func (q QualityLevel) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText parses a level name produced by MarshalText.
func (q *QualityLevel) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "low":
		*q = QualityLow
	case "medium":
		*q = QualityMedium
	case "high":
		*q = QualityHigh
	case "unknown", "":
		*q = QualityUnknown
	default:
		return fmt.Errorf("unknown quality level %q", text)
	}
	return nil
}

// Report is the outcome of evaluating one image. It is a plain value: callers
// may copy and render it freely.
//
// Width and Height always describe the decoded original, never the resized
// copy used for the pixel metrics.
type Report struct {
	Sharpness  float64 `json:"sharpness"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`

	Width              int                `json:"width"`
	Height             int                `json:"height"`
	Resolution         string             `json:"resolution"`
	ResolutionStandard ResolutionStandard `json:"resolution_standard"`
	AspectRatio        string             `json:"aspect_ratio"`
	Composition        Composition        `json:"composition"`
	FileFormat         string             `json:"file_format"`

	QualityLevel QualityLevel `json:"quality_level"`
}
