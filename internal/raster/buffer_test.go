package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageIsSnapshot(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	buf := FromImage(src)
	src.Set(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	r, g, b, a := buf.RGBA8(0, 0)
	assert.Equal(t, []uint8{10, 20, 30, 255}, []uint8{r, g, b, a})
	assert.Equal(t, 2, buf.Width())
	assert.Equal(t, 2, buf.Height())
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.NRGBA{R: 255, A: 255})

	buf := FromImage(src)
	require.Equal(t, 3, buf.Width())
	require.Equal(t, 2, buf.Height())
	assert.Equal(t, uint32(0xFFFF0000), buf.GetPacked(0, 0))
}

func TestGetPacked(t *testing.T) {
	buf := Filled(1, 1, Color{R: 1, G: 0, B: 1, A: 1})
	assert.Equal(t, uint32(0xFFFF00FF), buf.GetPacked(0, 0))
	assert.Equal(t, PackedWhite, White.Packed())
	assert.Equal(t, PackedBlack, Black.Packed())
	assert.Equal(t, White, Unpack(PackedWhite))
}

func TestGetOutOfRangePanics(t *testing.T) {
	buf := Blank(2, 2)
	assert.Panics(t, func() { buf.Get(2, 0) })
	assert.Panics(t, func() { buf.Get(0, -1) })
}

func TestQuantizeClamps(t *testing.T) {
	buf := FromFunc(3, 1, func(x, _ int) Color {
		return Color{R: []float64{-0.5, 0.5, 1.7}[x], A: 1}
	})
	r0, _, _, _ := buf.RGBA8(0, 0)
	r1, _, _, _ := buf.RGBA8(1, 0)
	r2, _, _, _ := buf.RGBA8(2, 0)
	assert.Equal(t, []uint8{0, 128, 255}, []uint8{r0, r1, r2})
}

func TestBuildLeavesOutsideRegionAtDefault(t *testing.T) {
	buf := Build(4, 4, Interior(4, 4, 1), func(int, int) Color { return White })
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && x <= 2 && y >= 1 && y <= 2
			if inside {
				assert.Equal(t, PackedWhite, buf.GetPacked(x, y))
			} else {
				assert.Equal(t, uint32(0), buf.GetPacked(x, y), "(%d,%d)", x, y)
			}
		}
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	fn := func(x, y int) Color {
		return Color{R: float64(x%256) / 255, G: float64(y%256) / 255, B: 0.25, A: 1}
	}
	wide := FromFunc(300, 257, fn)
	for _, pt := range []image.Point{{0, 0}, {299, 256}, {17, 130}, {128, 64}} {
		assert.Equal(t, fn(pt.X, pt.Y).Packed(), wide.GetPacked(pt.X, pt.Y))
	}
}

func TestInterior(t *testing.T) {
	assert.Equal(t, image.Rect(1, 1, 4, 2), Interior(5, 3, 1))
	assert.True(t, Interior(2, 5, 1).Empty())
	assert.True(t, Interior(1, 1, 1).Empty())
}

func TestBrightnessIsMaxChannel(t *testing.T) {
	assert.InDelta(t, 0.8, Color{R: 0.2, G: 0.8, B: 0.5, A: 1}.Brightness(), 1e-12)
	assert.InDelta(t, 0.0, Black.Brightness(), 1e-12)
}

func TestEqual(t *testing.T) {
	a := Filled(2, 2, White)
	assert.True(t, a.Equal(Filled(2, 2, White)))
	assert.False(t, a.Equal(Filled(2, 2, Black)))
	assert.False(t, a.Equal(Filled(2, 3, White)))
}

func TestImageCopies(t *testing.T) {
	buf := Filled(1, 1, White)
	img := buf.Image()
	img.Pix[0] = 0
	assert.Equal(t, PackedWhite, buf.GetPacked(0, 0))
}
