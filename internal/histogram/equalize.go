package histogram

import (
	"imagelab/internal/raster"
)

// EqualizationTable maps each average-gray level to its equalized level in
// [0, 255] as cdf[i]*255/total.
func EqualizationTable(h Histogram) [Bins]float64 {
	var lut [Bins]float64
	total := h.Total()
	if total == 0 {
		return lut
	}
	cdf := h.Cumulative()
	for i := range lut {
		lut[i] = float64(cdf[i]) * 255 / float64(total)
	}
	return lut
}

// Equalize remaps every pixel's average-gray level through the cumulative
// histogram. The same value is written to all three channels, so the result
// is gray. Alpha is kept.
func Equalize(img *raster.Buffer) *raster.Buffer {
	lut := EqualizationTable(AverageGray(img))
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		c := raster.Gray(lut[AverageGrayLevel(img, x, y)] / 255)
		c.A = img.Get(x, y).A
		return c
	})
}
