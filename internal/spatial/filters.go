package spatial

import (
	"image"
	"math"

	"imagelab/internal/raster"
)

// WindowSize is the fixed window used by the named filters.
const WindowSize = 3

// Kernels behind the named filters.
var (
	MeanKernel               = Kernel{Kind: KindMean, Size: WindowSize}
	MedianKernel             = Kernel{Kind: KindMedian, Size: WindowSize}
	SobelKernel              = Kernel{Kind: KindGradient, Size: WindowSize}
	Laplacian90Kernel        = Kernel{Kind: KindConvolve, Size: WindowSize, Weights: laplacian90}
	Laplacian45Kernel        = Kernel{Kind: KindConvolve, Size: WindowSize, Weights: laplacian45}
	LaplacianMagnitudeKernel = Kernel{Kind: KindDeviation, Size: WindowSize}
)

// Mean averages each channel over the 3×3 window.
func Mean(img *raster.Buffer) *raster.Buffer { return Apply(img, MeanKernel) }

// Median takes the per-channel median of the 3×3 window.
func Median(img *raster.Buffer) *raster.Buffer { return Apply(img, MedianKernel) }

// Sobel is the gradient magnitude of the summed channels, capped at 1.
func Sobel(img *raster.Buffer) *raster.Buffer { return Apply(img, SobelKernel) }

// Laplacian90 convolves with the 4-neighbour Laplacian.
func Laplacian90(img *raster.Buffer) *raster.Buffer { return Apply(img, Laplacian90Kernel) }

// Laplacian45 convolves with the 8-neighbour Laplacian.
func Laplacian45(img *raster.Buffer) *raster.Buffer { return Apply(img, Laplacian45Kernel) }

// LaplacianMagnitude is the legacy |center - local mean| edge response.
func LaplacianMagnitude(img *raster.Buffer) *raster.Buffer {
	return Apply(img, LaplacianMagnitudeKernel)
}

// RobertsFits reports whether img has at least one 2×2 forward window.
func RobertsFits(width, height int) bool {
	return width >= 2 && height >= 2
}

// Roberts computes the cross gradient over the forward 2×2 window anchored
// at each pixel. The last row and column are left unprocessed.
func Roberts(img *raster.Buffer) *raster.Buffer {
	w, h := img.Width(), img.Height()
	if !RobertsFits(w, h) {
		return raster.Blank(w, h)
	}
	region := image.Rect(0, 0, w-1, h-1)
	cross := func(a, b, c, d float64) float64 {
		return math.Min(math.Sqrt((a-d)*(a-d)+(b-c)*(b-c)), 1)
	}
	return raster.Build(w, h, region, func(x, y int) raster.Color {
		p1 := img.Get(x, y)
		p2 := img.Get(x+1, y)
		p3 := img.Get(x, y+1)
		p4 := img.Get(x+1, y+1)
		return raster.Color{
			R: cross(p1.R, p2.R, p3.R, p4.R),
			G: cross(p1.G, p2.G, p3.G, p4.G),
			B: cross(p1.B, p2.B, p3.B, p4.B),
			A: p1.A,
		}
	})
}
