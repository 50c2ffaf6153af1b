package analyzer

import (
	"image"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Metrics are the pixel statistics of a preprocessed image
type Metrics struct {
	// Sharpness is the variance of the Laplacian response
	Sharpness float64
	// Brightness is the mean gray level in [0, 255]
	Brightness float64
	// Contrast is the standard deviation of the gray levels
	Contrast float64
}

// BT.601 luma weights in 14-bit fixed point
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaRound = 1 << (lumaShift - 1)
)

// minParallelPixels is the image size below which rows are not split
// across goroutines.
const minParallelPixels = 100000

// metricsCalculator implements MetricsCalculator with Gonum statistics
type metricsCalculator struct {
	slicePool sync.Pool
}

// NewMetricsCalculator creates a new metrics calculator using Gonum
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{
		slicePool: sync.Pool{
			New: func() interface{} {
				s := make([]float64, 0, DefaultTargetSize*DefaultTargetSize)
				return &s
			},
		},
	}
}

// CalculateMetrics computes sharpness, brightness and contrast
func (mc *metricsCalculator) CalculateMetrics(pre *image.NRGBA) Metrics {
	gray := Grayscale(pre)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return Metrics{}
	}

	buf := mc.slicePool.Get().(*[]float64)
	defer mc.slicePool.Put(buf)
	if cap(*buf) < w*h {
		*buf = make([]float64, w*h)
	}
	data := (*buf)[:w*h]

	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			data[y*w+x] = float64(v)
		}
	}
	brightness, grayVar := stat.PopMeanVariance(data, nil)

	laplacian(gray, data)
	_, sharpness := stat.PopMeanVariance(data, nil)

	return Metrics{
		Sharpness:  sharpness,
		Brightness: brightness,
		Contrast:   math.Sqrt(grayVar),
	}
}

// Grayscale converts an NRGBA image with the BT.601 weights, ignoring alpha
func Grayscale(img *image.NRGBA) *image.Gray {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			r, g, bl := uint32(src[x*4]), uint32(src[x*4+1]), uint32(src[x*4+2])
			dst[x] = uint8((r*lumaR + g*lumaG + bl*lumaB + lumaRound) >> lumaShift)
		}
	}
	return gray
}

// reflect101 mirrors an out-of-range index about the border pixel
// without repeating it: -1 maps to 1 and n maps to n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - i - 2
	}
	return i
}

// laplacian writes the 4-neighbour Laplacian of every pixel into out,
// processing horizontal strips in parallel for larger images.
func laplacian(gray *image.Gray, out []float64) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	at := func(x, y int) float64 {
		return float64(gray.Pix[reflect101(y, h)*gray.Stride+reflect101(x, w)])
	}
	strip := func(startY, endY int) {
		for y := startY; y < endY; y++ {
			for x := 0; x < w; x++ {
				out[y*w+x] = at(x, y-1) + at(x-1, y) - 4*at(x, y) + at(x+1, y) + at(x, y+1)
			}
		}
	}

	if w*h < minParallelPixels {
		strip(0, h)
		return
	}

	numWorkers := runtime.NumCPU()
	if h < numWorkers {
		numWorkers = h
	}
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for startY := 0; startY < h; startY += rowsPerWorker {
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			strip(startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}
