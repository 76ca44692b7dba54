package morphology

import (
	"imagelab/internal/raster"
)

// Options tunes border handling.
type Options struct {
	// OutOfFrameBackground makes erosion treat structuring-element cells
	// that fall outside the image as background. When false such cells are
	// skipped, so they never prevent a pixel from surviving erosion.
	OutOfFrameBackground bool
}

// Dilate marks a pixel foreground iff any in-bounds 1-cell of se lands on
// a foreground input pixel. Out-of-bounds cells contribute nothing.
func Dilate(img *raster.Buffer, se StructuringElement, m Mask) *raster.Buffer {
	return dilate(gridOf(img, m), se).render(m)
}

// Erode marks a pixel foreground iff every in-bounds 1-cell of se lands on
// a foreground input pixel.
func Erode(img *raster.Buffer, se StructuringElement, m Mask, opts Options) *raster.Buffer {
	return erode(gridOf(img, m), se, opts).render(m)
}

// Close is Erode(Dilate(img)).
func Close(img *raster.Buffer, se StructuringElement, m Mask, opts Options) *raster.Buffer {
	return erode(dilate(gridOf(img, m), se), se, opts).render(m)
}

// Open is Dilate(Erode(img)).
func Open(img *raster.Buffer, se StructuringElement, m Mask, opts Options) *raster.Buffer {
	return dilate(erode(gridOf(img, m), se, opts), se).render(m)
}

// BoundaryExtraction marks foreground wherever the dilated pixel differs
// from the original packed value.
func BoundaryExtraction(img *raster.Buffer, se StructuringElement, m Mask) *raster.Buffer {
	d := dilate(gridOf(img, m), se)
	return raster.FromFunc(img.Width(), img.Height(), func(x, y int) raster.Color {
		dilated := m.Background()
		if d.at(x, y) {
			dilated = m.Foreground()
		}
		return m.color(dilated != img.GetPacked(x, y))
	})
}

func dilate(src *grid, se StructuringElement) *grid {
	offs := se.offsets()
	out := newGrid(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			for _, o := range offs {
				nx, ny := x+o[0], y+o[1]
				if src.inside(nx, ny) && src.at(nx, ny) {
					out.cell[y*src.w+x] = true
					break
				}
			}
		}
	}
	return out
}

func erode(src *grid, se StructuringElement, opts Options) *grid {
	offs := se.offsets()
	out := newGrid(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			keep := true
			for _, o := range offs {
				nx, ny := x+o[0], y+o[1]
				if !src.inside(nx, ny) {
					if opts.OutOfFrameBackground {
						keep = false
						break
					}
					continue
				}
				if !src.at(nx, ny) {
					keep = false
					break
				}
			}
			out.cell[y*src.w+x] = keep
		}
	}
	return out
}
