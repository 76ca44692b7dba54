package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// PackedBlack is opaque black in 0xAARRGGBB form.
	PackedBlack uint32 = 0xFF000000
	// PackedWhite is opaque white in 0xAARRGGBB form.
	PackedWhite uint32 = 0xFFFFFFFF
)

// Buffer is a read-only width×height grid of 8-bit RGBA samples.
// Channels are exposed as floats in [0, 1]; writes quantize to 8 bits, so
// 1-(1-x) round-trips exactly.
type Buffer struct {
	width  int
	height int
	pix    []uint8 // non-premultiplied RGBA, 4 bytes per pixel
}

// FromImage snapshots img into a new Buffer. Later changes to img are not
// visible through the returned buffer.
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Buffer{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    nrgba.Pix,
	}
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("raster: pixel (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}
	return (y*b.width + x) * 4
}

// Get returns the color at (x, y).
func (b *Buffer) Get(x, y int) Color {
	i := b.offset(x, y)
	p := b.pix[i : i+4 : i+4]
	return Color{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
		A: float64(p[3]) / 255,
	}
}

// RGBA8 returns the raw 8-bit samples at (x, y).
func (b *Buffer) RGBA8(x, y int) (r, g, bl, a uint8) {
	i := b.offset(x, y)
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// GetPacked returns the pixel at (x, y) as 0xAARRGGBB.
func (b *Buffer) GetPacked(x, y int) uint32 {
	r, g, bl, a := b.RGBA8(x, y)
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
}

// Image returns a copy of the buffer as an *image.NRGBA for encoding.
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(b.Bounds())
	copy(out.Pix, b.pix)
	return out
}

// Equal reports whether both buffers have the same size and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
