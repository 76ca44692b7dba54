// Package quality compares a processed buffer against a reference.
package quality

import (
	"fmt"
	"math"

	"imagelab/internal/raster"
)

// SegmentationMetrics scores a binary image against a reference binary
// image. Foreground is the mask color in both.
type SegmentationMetrics struct {
	IoU                    float64 // intersection over union
	DiceCoefficient        float64
	MisclassificationError float64 // fraction of pixels that disagree
}

func sameSize(a, b *raster.Buffer) error {
	if a == nil || b == nil {
		return fmt.Errorf("both images are required")
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return fmt.Errorf("image dimensions must match: %dx%d vs %dx%d",
			a.Width(), a.Height(), b.Width(), b.Height())
	}
	return nil
}

// PSNR returns the peak signal-to-noise ratio in dB over the RGB channels.
// Identical images give +Inf.
func PSNR(reference, processed *raster.Buffer) (float64, error) {
	if err := sameSize(reference, processed); err != nil {
		return 0, err
	}
	if reference.Equal(processed) {
		return math.Inf(1), nil
	}

	var sum float64
	for y := 0; y < reference.Height(); y++ {
		for x := 0; x < reference.Width(); x++ {
			r1, g1, b1, _ := reference.RGBA8(x, y)
			r2, g2, b2, _ := processed.RGBA8(x, y)
			for _, d := range [3]float64{
				float64(r1) - float64(r2),
				float64(g1) - float64(g2),
				float64(b1) - float64(b2),
			} {
				sum += d * d
			}
		}
	}

	n := float64(reference.Width() * reference.Height() * 3)
	if n == 0 || sum == 0 {
		return math.Inf(1), nil
	}
	mse := sum / n
	return 10 * math.Log10(255*255/mse), nil
}

// Segmentation compares segmented against reference. A pixel is
// foreground when its packed value equals foreground.
func Segmentation(reference, segmented *raster.Buffer, foreground uint32) (*SegmentationMetrics, error) {
	if err := sameSize(reference, segmented); err != nil {
		return nil, err
	}

	var tp, fp, fn, tn int
	for y := 0; y < reference.Height(); y++ {
		for x := 0; x < reference.Width(); x++ {
			want := reference.GetPacked(x, y) == foreground
			got := segmented.GetPacked(x, y) == foreground
			switch {
			case want && got:
				tp++
			case !want && got:
				fp++
			case want && !got:
				fn++
			default:
				tn++
			}
		}
	}

	m := &SegmentationMetrics{IoU: 1, DiceCoefficient: 1}
	if union := tp + fp + fn; union > 0 {
		m.IoU = float64(tp) / float64(union)
		m.DiceCoefficient = 2 * float64(tp) / float64(2*tp+fp+fn)
	}
	if total := tp + fp + fn + tn; total > 0 {
		m.MisclassificationError = float64(fp+fn) / float64(total)
	}
	return m, nil
}
