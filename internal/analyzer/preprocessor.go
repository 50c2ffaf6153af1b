package analyzer

import (
	"image"

	"github.com/disintegration/imaging"
)

// resampleFilter is the interpolation used to bring images to the target
// size. It is fixed so that metrics stay comparable across evaluations.
var resampleFilter = imaging.Lanczos

// ResampleFilter returns the interpolation Preprocess uses
func ResampleFilter() imaging.ResampleFilter {
	return resampleFilter
}

// Preprocess returns an opaque size x size copy of img. Alpha is discarded
// rather than composited, and img is left untouched.
func Preprocess(img image.Image, size int) *image.NRGBA {
	if size <= 0 {
		size = DefaultTargetSize
	}

	rgb := imaging.Clone(img)
	for i := 3; i < len(rgb.Pix); i += 4 {
		rgb.Pix[i] = 0xff
	}
	return imaging.Resize(rgb, size, size, resampleFilter)
}
