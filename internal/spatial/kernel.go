// Package spatial implements square-window neighborhood filters.
//
// Every filter visits the window centred on each interior pixel, reduces it
// and writes one output pixel. The outer ring of radius pixels is not
// processed and stays at the output default (transparent black).
package spatial

import (
	"fmt"
	"math"
	"slices"

	"imagelab/internal/raster"
)

// Kind selects how a window is reduced.
type Kind int

const (
	// KindMean averages each channel.
	KindMean Kind = iota
	// KindMedian takes the per-channel median.
	KindMedian
	// KindConvolve applies Weights per channel and clamps to [0, 1].
	KindConvolve
	// KindGradient sums r+g+b weighted by the signed column and row offsets
	// and writes the clamped magnitude to all three channels.
	KindGradient
	// KindDeviation is |center - mean| per channel.
	KindDeviation
)

func (k Kind) String() string {
	switch k {
	case KindMean:
		return "mean"
	case KindMedian:
		return "median"
	case KindConvolve:
		return "convolve"
	case KindGradient:
		return "gradient"
	case KindDeviation:
		return "deviation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Kernel describes a square odd-sized window operator.
type Kernel struct {
	Kind Kind
	Size int
	// Weights is row-major Size×Size, used by KindConvolve only.
	Weights []float64
}

var (
	laplacian90 = []float64{
		0, -1, 0,
		-1, 4, -1,
		0, -1, 0,
	}
	laplacian45 = []float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
)

// Validate checks the kernel shape.
func (k Kernel) Validate() error {
	if k.Size < 1 || k.Size%2 == 0 {
		return fmt.Errorf("kernel size must be a positive odd number, got %d", k.Size)
	}
	if k.Kind == KindConvolve && len(k.Weights) != k.Size*k.Size {
		return fmt.Errorf("convolution kernel needs %d weights, got %d", k.Size*k.Size, len(k.Weights))
	}
	if k.Kind < KindMean || k.Kind > KindDeviation {
		return fmt.Errorf("unknown kernel kind %v", k.Kind)
	}
	return nil
}

// Radius is the border width left unprocessed.
func (k Kernel) Radius() int { return k.Size / 2 }

// Fits reports whether the image has at least one interior pixel for k.
func (k Kernel) Fits(width, height int) bool {
	return !raster.Interior(width, height, k.Radius()).Empty()
}

// Apply runs k over img. The caller validates k. Images with no interior
// pixel for k come back blank.
func Apply(img *raster.Buffer, k Kernel) *raster.Buffer {
	if !k.Fits(img.Width(), img.Height()) {
		return raster.Blank(img.Width(), img.Height())
	}
	r := k.Radius()
	region := raster.Interior(img.Width(), img.Height(), r)
	n := k.Size * k.Size

	return raster.Build(img.Width(), img.Height(), region, func(x, y int) raster.Color {
		center := img.Get(x, y)
		switch k.Kind {
		case KindMedian:
			rs, gs, bs := make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)
			visit(img, x, y, r, func(c raster.Color, _, _, _ int) {
				rs, gs, bs = append(rs, c.R), append(gs, c.G), append(bs, c.B)
			})
			slices.Sort(rs)
			slices.Sort(gs)
			slices.Sort(bs)
			return raster.Color{R: rs[n/2], G: gs[n/2], B: bs[n/2], A: center.A}

		case KindConvolve:
			var sr, sg, sb float64
			visit(img, x, y, r, func(c raster.Color, i, _, _ int) {
				w := k.Weights[i]
				sr += c.R * w
				sg += c.G * w
				sb += c.B * w
			})
			return raster.Color{R: clamp01(sr), G: clamp01(sg), B: clamp01(sb), A: center.A}

		case KindGradient:
			var gx, gy float64
			visit(img, x, y, r, func(c raster.Color, _, dx, dy int) {
				sum := c.R + c.G + c.B
				gx += float64(dx) * sum
				gy += float64(dy) * sum
			})
			g := math.Min(math.Sqrt(gx*gx+gy*gy), 1)
			return raster.Color{R: g, G: g, B: g, A: center.A}

		default:
			var sr, sg, sb float64
			visit(img, x, y, r, func(c raster.Color, _, _, _ int) {
				sr += c.R
				sg += c.G
				sb += c.B
			})
			mr, mg, mb := sr/float64(n), sg/float64(n), sb/float64(n)
			if k.Kind == KindDeviation {
				return raster.Color{
					R: math.Abs(center.R - mr),
					G: math.Abs(center.G - mg),
					B: math.Abs(center.B - mb),
					A: center.A,
				}
			}
			return raster.Color{R: mr, G: mg, B: mb, A: center.A}
		}
	})
}

// visit calls fn for each window cell in row-major order with the cell
// index and its offset from the centre.
func visit(img *raster.Buffer, x, y, r int, fn func(c raster.Color, i, dx, dy int)) {
	i := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			fn(img.Get(x+dx, y+dy), i, dx, dy)
			i++
		}
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
