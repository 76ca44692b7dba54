package point

import (
	"imagelab/internal/histogram"
	"imagelab/internal/raster"
)

// Threshold binarizes on perceptual brightness with cut value 255-t, so a
// larger t darkens less of the image. Output is opaque black and white.
func Threshold(img *raster.Buffer, t int) *raster.Buffer {
	return Binarize(img, 255-t)
}

// Binarize writes opaque white where brightness >= cut, else opaque black.
func Binarize(img *raster.Buffer, cut int) *raster.Buffer {
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		if histogram.BrightnessLevel(img, x, y) >= cut {
			return raster.White
		}
		return raster.Black
	})
}

// OtsuLevel scans t in 0..255 and returns the level maximizing
// wB·wF·mB². The foreground mean term of the textbook between-class
// variance is omitted; ties keep the lowest t, and the scan stops once the
// foreground is empty.
func OtsuLevel(h histogram.Histogram) int {
	total := float64(h.Total())
	var (
		sumB, wB float64
		best     float64
		level    int
	)
	for t := 0; t < histogram.Bins; t++ {
		wB += float64(h[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * h[t])
		mB := sumB / wB
		score := wB * wF * mB * mB
		if score > best {
			best = score
			level = t
		}
	}
	return level
}

// OtsuThreshold binarizes using the Otsu level of the brightness histogram
// as the raw cut value. Unlike Threshold no inversion is applied.
func OtsuThreshold(img *raster.Buffer) (*raster.Buffer, int) {
	level := OtsuLevel(histogram.Brightness(img))
	return Binarize(img, level), level
}
