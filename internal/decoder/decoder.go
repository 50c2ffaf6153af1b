// Package decoder turns image files into decoded images. The format is chosen
// from the file extension only; file contents are never sniffed.
package decoder

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/gen2brain/avif"
	"github.com/samuel/go-pcx/pcx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	apperrors "go-image-quality/internal/errors"
)

// ImageDecoder decodes the image stored at path
type ImageDecoder interface {
	Decode(path string) (image.Image, error)
}

type decodeFunc func(io.Reader) (image.Image, error)

// decoders maps lowercase extensions to their decoder. GIF, APNG and AVIF
// yield their first frame, PSD its merged composite.
var decoders = map[string]decodeFunc{
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".png":  png.Decode,
	".apng": png.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".avif": avif.Decode,
	".tga":  tga.Decode,
	".pcx":  pcx.Decode,
	".psd":  decodePSD,
	".svg":  decodeSVG,
}

const rawExtension = ".raw"

// Decoder implements ImageDecoder for the extension table plus RAW files
type Decoder struct {
	bayer BayerPattern
}

// Option configures a Decoder
type Option func(*Decoder)

// WithBayerPattern sets the sensor layout assumed for single-channel RAW data
func WithBayerPattern(p BayerPattern) Option {
	return func(d *Decoder) {
		if p.valid() {
			d.bayer = p
		}
	}
}

// NewDecoder creates a Decoder
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{bayer: BayerRGGB}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads the file at path. Every failure is a decode error and no
// image is returned with it.
func (d *Decoder) Decode(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		img image.Image
		err error
	)
	switch {
	case ext == rawExtension:
		img, err = decodeRaw(path, d.bayer)
	case decoders[ext] != nil:
		img, err = decodeFile(path, decoders[ext])
	default:
		return nil, apperrors.NewDecodeError(path, fmt.Sprintf("unsupported file extension %q", ext), nil)
	}
	if err != nil {
		return nil, err
	}

	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, apperrors.NewDecodeError(path, fmt.Sprintf("decoded image is empty (%dx%d)", b.Dx(), b.Dy()), nil)
	}
	return img, nil
}

func decodeFile(path string, decode decodeFunc) (img image.Image, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(path, "failed to open image file", err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = apperrors.NewDecodeError(path, "decoder panicked", fmt.Errorf("%v", r))
		}
	}()

	img, err = decode(f)
	if err != nil {
		return nil, apperrors.NewDecodeError(path, "failed to decode image", err)
	}
	return img, nil
}

// IsSupported reports whether path has an extension Decode can handle
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == rawExtension || decoders[ext] != nil
}

// SupportedExtensions returns the decodable extensions in sorted order
func SupportedExtensions() []string {
	exts := []string{rawExtension}
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
