package raster

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerTask keeps small images on a single goroutine.
const minRowsPerTask = 32

// PixelFunc computes the output color for one coordinate.
type PixelFunc func(x, y int) Color

// Build allocates a width×height buffer and calls fn exactly once for every
// coordinate inside region. Pixels outside region keep the zero value
// (transparent black). Rows are filled in parallel; fn must only read frozen
// inputs.
func Build(width, height int, region image.Rectangle, fn PixelFunc) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	out := &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}

	region = region.Intersect(out.Bounds())
	if region.Empty() {
		return out
	}

	fillRows := func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := region.Min.X; x < region.Max.X; x++ {
				c := fn(x, y)
				i := (y*width + x) * 4
				out.pix[i] = quantize(c.R)
				out.pix[i+1] = quantize(c.G)
				out.pix[i+2] = quantize(c.B)
				out.pix[i+3] = quantize(c.A)
			}
		}
	}

	rows := region.Dy()
	workers := runtime.GOMAXPROCS(0)
	if rows < minRowsPerTask*2 || workers < 2 {
		fillRows(region.Min.Y, region.Max.Y)
		return out
	}

	chunk := (rows + workers - 1) / workers
	if chunk < minRowsPerTask {
		chunk = minRowsPerTask
	}

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for start := region.Min.Y; start < region.Max.Y; start += chunk {
		y0, y1 := start, min(start+chunk, region.Max.Y)
		g.Go(func() error {
			fillRows(y0, y1)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// FromFunc builds a buffer where every pixel is computed by fn.
func FromFunc(width, height int, fn PixelFunc) *Buffer {
	return Build(width, height, image.Rect(0, 0, width, height), fn)
}

// Filled returns a buffer with every pixel set to c.
func Filled(width, height int, c Color) *Buffer {
	return FromFunc(width, height, func(int, int) Color { return c })
}

// Blank returns a buffer left entirely at the default transparent black.
func Blank(width, height int) *Buffer {
	return Filled(width, height, Transparent)
}

// Interior is the region that excludes a border of the given thickness.
// It is empty when the image is too small to have one.
func Interior(width, height, border int) image.Rectangle {
	if width-2*border <= 0 || height-2*border <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(border, border, width-border, height-border)
}
