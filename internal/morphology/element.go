// Package morphology implements binary set operators and Zhang–Suen
// thinning on raster buffers.
//
// A pixel is foreground iff its packed value equals the mask color exactly:
// opaque black or opaque white depending on the polarity.
package morphology

import (
	"fmt"

	"imagelab/internal/raster"
)

// StructuringElement is a square binary kernel anchored at its centre.
type StructuringElement [][]int

// Square returns a size×size element of ones. Sizes below 1 give an empty
// element, which Validate rejects.
func Square(size int) StructuringElement {
	if size < 1 {
		return nil
	}
	se := make(StructuringElement, size)
	for i := range se {
		se[i] = make([]int, size)
		for j := range se[i] {
			se[i][j] = 1
		}
	}
	return se
}

// DefaultElement is the 3×3 all-ones element.
func DefaultElement() StructuringElement { return Square(3) }

// Validate requires a non-empty, square, odd-sized grid of 0/1 cells.
func (se StructuringElement) Validate() error {
	n := len(se)
	if n == 0 {
		return fmt.Errorf("structuring element is empty")
	}
	if n%2 == 0 {
		return fmt.Errorf("structuring element size must be odd, got %d", n)
	}
	for i, row := range se {
		if len(row) != n {
			return fmt.Errorf("structuring element is not square: row %d has %d cells, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return fmt.Errorf("structuring element cell (%d,%d) must be 0 or 1, got %d", i, j, v)
			}
		}
	}
	return nil
}

// Size returns the side length.
func (se StructuringElement) Size() int { return len(se) }

// offsets lists the (dx, dy) of every cell set to 1, relative to the anchor.
func (se StructuringElement) offsets() [][2]int {
	r := len(se) / 2
	var out [][2]int
	for i, row := range se {
		for j, v := range row {
			if v == 1 {
				out = append(out, [2]int{j - r, i - r})
			}
		}
	}
	return out
}

// Mask selects which of black and white is foreground.
type Mask struct {
	Black bool
}

// MaskFor returns the mask for the given polarity flag.
func MaskFor(maskIsBlack bool) Mask { return Mask{Black: maskIsBlack} }

// Foreground is the packed mask color.
func (m Mask) Foreground() uint32 {
	if m.Black {
		return raster.PackedBlack
	}
	return raster.PackedWhite
}

// Background is the packed color of the other polarity.
func (m Mask) Background() uint32 {
	if m.Black {
		return raster.PackedWhite
	}
	return raster.PackedBlack
}

func (m Mask) color(fg bool) raster.Color {
	if fg {
		return raster.Unpack(m.Foreground())
	}
	return raster.Unpack(m.Background())
}

// grid is a boolean foreground view of a buffer.
type grid struct {
	w, h int
	cell []bool
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cell: make([]bool, w*h)}
}

func gridOf(img *raster.Buffer, m Mask) *grid {
	g := newGrid(img.Width(), img.Height())
	fg := m.Foreground()
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.cell[y*g.w+x] = img.GetPacked(x, y) == fg
		}
	}
	return g
}

func (g *grid) at(x, y int) bool { return g.cell[y*g.w+x] }

func (g *grid) inside(x, y int) bool { return x >= 0 && x < g.w && y >= 0 && y < g.h }

func (g *grid) render(m Mask) *raster.Buffer {
	return raster.FromFunc(g.w, g.h, func(x, y int) raster.Color {
		return m.color(g.at(x, y))
	})
}
