package analyzer

import (
	"go-image-quality/internal/decoder"
	"go-image-quality/internal/descriptor"
	"go-image-quality/internal/strategy"
)

// DefaultTargetSize is the side length metrics are computed at
const DefaultTargetSize = 512

// Options configures an Evaluator
type Options struct {
	// TargetSize is the side of the square image metrics are computed on
	TargetSize int

	Decoder   decoder.ImageDecoder
	Describer *descriptor.Describer
}

// DefaultOptions returns default evaluation options
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		Decoder:    decoder.NewDecoder(),
		Describer:  descriptor.NewDescriber(nil),
	}
}

// WithResolutionStrategy returns options describing images with s
func (opts Options) WithResolutionStrategy(s strategy.ResolutionStrategy) Options {
	opts.Describer = descriptor.NewDescriber(s)
	return opts
}

// WithDecoder returns options decoding files with d
func (opts Options) WithDecoder(d decoder.ImageDecoder) Options {
	opts.Decoder = d
	return opts
}

// WithTargetSize returns options computing metrics at size x size
func (opts Options) WithTargetSize(size int) Options {
	opts.TargetSize = size
	return opts
}
