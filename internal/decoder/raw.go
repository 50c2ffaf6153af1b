package decoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	apperrors "go-image-quality/internal/errors"
)

// BayerPattern names the colour filter layout of a sensor, read row by row
// starting at the top-left 2x2 cell.
type BayerPattern string

const (
	BayerRGGB BayerPattern = "RGGB"
	BayerBGGR BayerPattern = "BGGR"
	BayerGRBG BayerPattern = "GRBG"
	BayerGBRG BayerPattern = "GBRG"
)

func (p BayerPattern) valid() bool {
	switch p {
	case BayerRGGB, BayerBGGR, BayerGRBG, BayerGBRG:
		return true
	}
	return false
}

// channel returns 0, 1 or 2 for the filter colour covering (x, y)
func (p BayerPattern) channel(x, y int) int {
	switch p[(y&1)*2+(x&1)] {
	case 'R':
		return 0
	case 'G':
		return 1
	default:
		return 2
	}
}

// openRawHandles counts RAW files currently held open.
var openRawHandles atomic.Int64

// rawHandle owns an open RAW file for the duration of one decode
type rawHandle struct {
	path   string
	file   *os.File
	closed bool
}

func openRaw(path string) (*rawHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	openRawHandles.Add(1)
	return &rawHandle{path: path, file: f}, nil
}

func (h *rawHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	openRawHandles.Add(-1)
	return h.file.Close()
}

// postprocess parses the TIFF-structured container and renders 8-bit RGB.
// Single-channel data is treated as an undemosaiced sensor mosaic.
func (h *rawHandle) postprocess(pattern BayerPattern) (*image.NRGBA, error) {
	r, err := containerReader(h.file)
	if err != nil {
		return nil, err
	}
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray16:
		return demosaic(src.Bounds(), func(x, y int) uint32 { return uint32(src.Gray16At(x, y).Y) }, pattern), nil
	case *image.Gray:
		return demosaic(src.Bounds(), func(x, y int) uint32 { return uint32(src.GrayAt(x, y).Y) }, pattern), nil
	}

	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out, nil
}

// panasonicVersion is the TIFF version field Panasonic and Leica write in
// place of 42. The IFD structure that follows is standard.
const panasonicVersion = 0x55

// containerReader returns r with a Panasonic header rewritten to plain
// little-endian TIFF, so the TIFF reader accepts it.
func containerReader(r io.Reader) (io.Reader, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("reading raw header: %w", err)
	}
	if head[0] == 'I' && head[1] == 'I' && head[2] == panasonicVersion && head[3] == 0 {
		head[2] = 42
	}
	return io.MultiReader(bytes.NewReader(head[:]), r), nil
}

func decodeRaw(path string, pattern BayerPattern) (img image.Image, err error) {
	h, err := openRaw(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(path, "failed to open raw file", err)
	}
	defer h.Close()

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = apperrors.NewDecodeError(path, "raw processing panicked", fmt.Errorf("%v", r))
		}
	}()

	out, err := h.postprocess(pattern)
	if err != nil {
		return nil, apperrors.NewDecodeError(path, "failed to process raw file", err)
	}
	return out, nil
}

// demosaic performs bilinear interpolation: each missing channel is the mean
// of the same-colour sites in the surrounding 3x3 window. Output is scaled so
// the brightest sample maps to 255.
func demosaic(b image.Rectangle, sample func(x, y int) uint32, pattern BayerPattern) *image.NRGBA {
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	var peak uint32
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if v := sample(x, y); v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 0xff
		}
		return out
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [3]uint64
			var n [3]uint64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sx, sy := x+dx, y+dy
					if sx < 0 || sy < 0 || sx >= w || sy >= h {
						continue
					}
					c := pattern.channel(sx, sy)
					sum[c] += uint64(sample(b.Min.X+sx, b.Min.Y+sy))
					n[c]++
				}
			}

			var px [3]uint8
			own := pattern.channel(x, y)
			for c := 0; c < 3; c++ {
				var v float64
				switch {
				case c == own:
					v = float64(sample(b.Min.X+x, b.Min.Y+y))
				case n[c] > 0:
					v = float64(sum[c]) / float64(n[c])
				}
				px[c] = uint8(v*255/float64(peak) + 0.5)
			}
			out.SetNRGBA(x, y, color.NRGBA{R: px[0], G: px[1], B: px[2], A: 0xff})
		}
	}
	return out
}
