package raster

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied RGBA value with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Transparent = Color{}
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
)

// Gray returns an opaque gray of level v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Unpack converts a 0xAARRGGBB value to a Color.
func Unpack(p uint32) Color {
	return Color{
		R: float64(p>>16&0xFF) / 255,
		G: float64(p>>8&0xFF) / 255,
		B: float64(p&0xFF) / 255,
		A: float64(p>>24&0xFF) / 255,
	}
}

// Packed quantizes the color to 0xAARRGGBB.
func (c Color) Packed() uint32 {
	return uint32(quantize(c.A))<<24 | uint32(quantize(c.R))<<16 |
		uint32(quantize(c.G))<<8 | uint32(quantize(c.B))
}

// Brightness is the HSV value channel in [0, 1].
func (c Color) Brightness() float64 {
	_, _, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	return v
}
