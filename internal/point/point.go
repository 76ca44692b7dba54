// Package point implements per-pixel transforms whose output at (x, y)
// depends only on the input at (x, y).
package point

import (
	"math"

	"imagelab/internal/raster"
)

func mapPixels(img *raster.Buffer, fn func(c raster.Color, x, y int) raster.Color) *raster.Buffer {
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		return fn(img.Get(x, y), x, y)
	})
}

// Negative inverts each color channel. Alpha is kept.
func Negative(img *raster.Buffer) *raster.Buffer {
	return mapPixels(img, func(c raster.Color, _, _ int) raster.Color {
		return raster.Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B, A: c.A}
	})
}

// PowerLaw applies scale·channel^gamma, saturating the result to [0, 1].
func PowerLaw(img *raster.Buffer, gamma, scale float64) *raster.Buffer {
	f := func(v float64) float64 {
		return clamp01(scale * math.Pow(v, gamma))
	}
	return mapPixels(img, func(c raster.Color, _, _ int) raster.Color {
		return raster.Color{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
	})
}

// BrightnessRangeCutExclusive blacks out pixels with any channel outside
// [lo, hi] on the 8-bit scale and passes the rest through.
func BrightnessRangeCutExclusive(img *raster.Buffer, lo, hi int) *raster.Buffer {
	lo, hi = clampRange(lo, hi)
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		c := img.Get(x, y)
		r, g, b, _ := img.RGBA8(x, y)
		for _, v := range [3]int{int(r), int(g), int(b)} {
			if v < lo || v > hi {
				return raster.Color{A: c.A}
			}
		}
		return c
	})
}

// BrightnessRangeCutTernary blacks out pixels with any channel below lo,
// whitens pixels with any channel above hi, and passes the rest through.
// The full range [0, 255] is the identity.
func BrightnessRangeCutTernary(img *raster.Buffer, lo, hi int) *raster.Buffer {
	lo, hi = clampRange(lo, hi)
	if lo == 0 && hi == 255 {
		return mapPixels(img, func(c raster.Color, _, _ int) raster.Color { return c })
	}
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		c := img.Get(x, y)
		r, g, b, _ := img.RGBA8(x, y)
		ch := [3]int{int(r), int(g), int(b)}
		for _, v := range ch {
			if v < lo {
				return raster.Color{A: c.A}
			}
		}
		for _, v := range ch {
			if v > hi {
				return raster.Color{R: 1, G: 1, B: 1, A: c.A}
			}
		}
		return c
	})
}

func clampRange(lo, hi int) (int, int) {
	lo = min(max(lo, 0), 255)
	hi = min(max(hi, 0), 255)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
