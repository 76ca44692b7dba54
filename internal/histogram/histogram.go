// Package histogram derives 256-bin intensity histograms from raster buffers.
//
// Two derivations exist and are deliberately separate functions: AverageGray
// feeds display and equalization, Brightness feeds Otsu thresholding.
package histogram

import (
	"math"

	"github.com/samber/lo"

	"imagelab/internal/raster"
)

// Bins is the number of histogram buckets.
const Bins = 256

// Histogram counts pixels per derived 8-bit intensity.
type Histogram [Bins]int

// AverageGrayLevel is round((r+g+b)/3) on the 8-bit samples.
func AverageGrayLevel(img *raster.Buffer, x, y int) int {
	r, g, b, _ := img.RGBA8(x, y)
	return (int(r) + int(g) + int(b) + 1) / 3
}

// BrightnessLevel is the HSV value channel scaled to [0, 255].
func BrightnessLevel(img *raster.Buffer, x, y int) int {
	return int(math.Round(img.Get(x, y).Brightness() * 255))
}

// AverageGray builds the display histogram.
func AverageGray(img *raster.Buffer) Histogram {
	return build(img, AverageGrayLevel)
}

// Brightness builds the perceptual-brightness histogram.
func Brightness(img *raster.Buffer) Histogram {
	return build(img, BrightnessLevel)
}

func build(img *raster.Buffer, level func(*raster.Buffer, int, int) int) Histogram {
	var h Histogram
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			h[level(img, x, y)]++
		}
	}
	return h
}

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	return lo.Sum(h[:])
}

// Cumulative returns the running sum of the bins.
func (h Histogram) Cumulative() Histogram {
	var c Histogram
	c[0] = h[0]
	for i := 1; i < Bins; i++ {
		c[i] = c[i-1] + h[i]
	}
	return c
}
