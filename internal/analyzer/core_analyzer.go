package analyzer

import (
	"image"

	"go-image-quality/internal/decoder"
	"go-image-quality/internal/descriptor"
	"go-image-quality/pkg/models"
	"go-image-quality/pkg/validation"
)

// Evaluator implements ImageEvaluator. It holds no mutable state and may be
// shared between goroutines.
type Evaluator struct {
	targetSize        int
	decoder           decoder.ImageDecoder
	describer         *descriptor.Describer
	metricsCalculator MetricsCalculator
}

// NewEvaluator creates an evaluator. Zero fields of opts take their defaults.
func NewEvaluator(opts Options) *Evaluator {
	defaults := DefaultOptions()
	if opts.TargetSize <= 0 {
		opts.TargetSize = defaults.TargetSize
	}
	if opts.Decoder == nil {
		opts.Decoder = defaults.Decoder
	}
	if opts.Describer == nil {
		opts.Describer = defaults.Describer
	}

	return &Evaluator{
		targetSize:        opts.TargetSize,
		decoder:           opts.Decoder,
		describer:         opts.Describer,
		metricsCalculator: NewMetricsCalculator(),
	}
}

// Evaluate decodes the file at path and evaluates it. Decode failures are
// returned as is and no report is produced.
func (e *Evaluator) Evaluate(path string) (models.Report, error) {
	img, err := e.decoder.Decode(path)
	if err != nil {
		return models.Report{}, err
	}
	return e.EvaluateImage(img, path)
}

// EvaluateImage evaluates a decoded original
func (e *Evaluator) EvaluateImage(img image.Image, path string) (models.Report, error) {
	desc, err := e.describer.Describe(img, path)
	if err != nil {
		return models.Report{}, err
	}

	metrics := e.metricsCalculator.CalculateMetrics(Preprocess(img, e.targetSize))
	level := validation.Classify(metrics.Sharpness)

	return Assemble(metrics, desc, level), nil
}

// StrategyName returns the name of the resolution strategy in use
func (e *Evaluator) StrategyName() string {
	return e.describer.StrategyName()
}

// Assemble combines the pipeline outputs into a report
func Assemble(m Metrics, d descriptor.Descriptor, level models.QualityLevel) models.Report {
	return models.Report{
		Sharpness:          m.Sharpness,
		Brightness:         m.Brightness,
		Contrast:           m.Contrast,
		Width:              d.Width,
		Height:             d.Height,
		Resolution:         d.Resolution,
		ResolutionStandard: d.ResolutionStandard,
		AspectRatio:        d.AspectRatio,
		Composition:        d.Composition,
		FileFormat:         d.FileFormat,
		QualityLevel:       level,
	}
}
