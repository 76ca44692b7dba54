package morphology

import (
	"imagelab/internal/raster"
)

// Skeletonize thins the foreground to a one pixel wide skeleton with the
// Zhang–Suen algorithm and reports how many full passes removed pixels
// before the grid became stable. The outermost ring is never evaluated.
func Skeletonize(img *raster.Buffer, m Mask) (*raster.Buffer, int) {
	g, passes := thin(gridOf(img, m))
	return g.render(m), passes
}

// thin runs full passes until one removes nothing and reports how many
// passes changed the grid.
func thin(g *grid) (*grid, int) {
	passes := 0
	for {
		removed := thinStep(g, true) + thinStep(g, false)
		if removed == 0 {
			return g, passes
		}
		passes++
	}
}

// thinStep marks every deletable interior pixel against the current grid,
// then clears them together.
func thinStep(g *grid, first bool) int {
	var marked []int
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			if !g.at(x, y) {
				continue
			}
			p := neighbours(g, x, y)
			b := 0
			for _, v := range p {
				b += v
			}
			if b < 2 || b > 6 || transitions(p) != 1 {
				continue
			}
			// p[0]..p[7] are p2..p9
			p2, p4, p6, p8 := p[0], p[2], p[4], p[6]
			if first {
				if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
					continue
				}
			} else {
				if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
					continue
				}
			}
			marked = append(marked, y*g.w+x)
		}
	}
	for _, i := range marked {
		g.cell[i] = false
	}
	return len(marked)
}

// neighbours returns p2..p9 clockwise from north as 0/1.
func neighbours(g *grid, x, y int) [8]int {
	pts := [8][2]int{
		{x, y - 1},     // p2 N
		{x + 1, y - 1}, // p3 NE
		{x + 1, y},     // p4 E
		{x + 1, y + 1}, // p5 SE
		{x, y + 1},     // p6 S
		{x - 1, y + 1}, // p7 SW
		{x - 1, y},     // p8 W
		{x - 1, y - 1}, // p9 NW
	}
	var p [8]int
	for i, pt := range pts {
		if g.at(pt[0], pt[1]) {
			p[i] = 1
		}
	}
	return p
}

// transitions counts 0->1 steps in the cyclic sequence p2..p9,p2.
func transitions(p [8]int) int {
	n := 0
	for i := range p {
		if p[i] == 0 && p[(i+1)%8] == 1 {
			n++
		}
	}
	return n
}
