package decoder

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/oov/psd"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxSVGDimension caps the raster size an SVG viewBox may ask for
const maxSVGDimension = 16384

// decodePSD returns the merged composite of a Photoshop document. Layer
// pixels are not read.
func decodePSD(r io.Reader) (image.Image, error) {
	doc, _, err := psd.Decode(r, &psd.DecodeOptions{SkipLayerImage: true})
	if err != nil {
		return nil, err
	}
	if doc.Picker == nil {
		return nil, fmt.Errorf("psd has no merged image")
	}
	return doc.Picker, nil
}

// decodeSVG rasterizes an SVG at its viewBox size, one pixel per user unit,
// over a transparent background.
func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 || w > maxSVGDimension || h > maxSVGDimension {
		return nil, fmt.Errorf("unusable svg viewBox %gx%g", icon.ViewBox.W, icon.ViewBox.H)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}
