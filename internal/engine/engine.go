// Package engine is the call contract in front of the pixel operators: it
// resolves an operator, validates its configuration before any pixel work
// and dispatches to the point, histogram, spatial and morphology packages.
package engine

import (
	"context"
	"fmt"

	"imagelab/internal/histogram"
	"imagelab/internal/logger"
	"imagelab/internal/morphology"
	"imagelab/internal/point"
	"imagelab/internal/raster"
	"imagelab/internal/spatial"
	"imagelab/internal/timing"
)

const component = "Engine"

// Result is the output of one operator call.
type Result struct {
	Buffer   *raster.Buffer
	Operator Operator
	// Degenerate is set when the image has no pixel a window operator could
	// process. Buffer is then left entirely at its default value and Warning
	// wraps ErrDimensionTooSmall.
	Degenerate bool
	Warning    error
	// Level is the Otsu cut value, set for Otsu only.
	Level int
	// Passes is the number of thinning passes that removed pixels, set for
	// Skeleton only.
	Passes int
}

// Engine applies catalogue operators, logging and timing each call.
type Engine struct {
	logger logger.Logger
	timing *timing.Tracker
}

// New returns an engine. A nil logger discards output and a nil tracker is
// replaced by a fresh one.
func New(log logger.Logger, tracker *timing.Tracker) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if tracker == nil {
		tracker = timing.NewTracker()
	}
	return &Engine{logger: log, timing: tracker}
}

// Timing exposes the per-operator durations recorded so far.
func (e *Engine) Timing() *timing.Tracker { return e.timing }

// Apply validates cfg for op and runs it on img. Validation failures are
// returned before any output is allocated.
func (e *Engine) Apply(img *raster.Buffer, op Operator, cfg Config) (*Result, error) {
	if img == nil {
		return nil, invalid("image", nil, "no image supplied")
	}
	if err := cfg.Validate(op); err != nil {
		e.logger.Error(component, err, map[string]interface{}{"operator": op.String()})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e.logger.Debug(component, "applying operator", map[string]interface{}{
		"operator": op.String(),
		"width":    img.Width(),
		"height":   img.Height(),
	})

	ctx := e.timing.StartTiming(context.Background(), op.String())
	res := run(img, op, cfg)
	elapsed := e.timing.EndTiming(ctx)

	if res.Degenerate {
		e.logger.Warning(component, "image smaller than operator window", map[string]interface{}{
			"operator": op.String(),
			"width":    img.Width(),
			"height":   img.Height(),
		})
	}

	e.logger.Info(component, "operator applied", map[string]interface{}{
		"operator":    op.String(),
		"duration_ms": elapsed.Milliseconds(),
	})

	return res, nil
}

func run(img *raster.Buffer, op Operator, cfg Config) *Result {
	res := &Result{Operator: op}
	w, h := img.Width(), img.Height()

	window := func(k spatial.Kernel, filter func(*raster.Buffer) *raster.Buffer) *raster.Buffer {
		if !k.Fits(w, h) {
			res.degenerate(op, w, h)
		}
		return filter(img)
	}

	switch op {
	case Negative:
		res.Buffer = point.Negative(img)
	case PowerLaw:
		res.Buffer = point.PowerLaw(img, cfg.Gamma, cfg.Scale)
	case BrightnessCut:
		res.Buffer = point.BrightnessRangeCutExclusive(img, cfg.MinBrightness, cfg.MaxBrightness)
	case BrightnessCutTernary:
		res.Buffer = point.BrightnessRangeCutTernary(img, cfg.MinBrightness, cfg.MaxBrightness)
	case Mean:
		res.Buffer = window(spatial.MeanKernel, spatial.Mean)
	case Median:
		res.Buffer = window(spatial.MedianKernel, spatial.Median)
	case Roberts:
		if !spatial.RobertsFits(w, h) {
			res.degenerate(op, w, h)
		}
		res.Buffer = spatial.Roberts(img)
	case Sobel:
		res.Buffer = window(spatial.SobelKernel, spatial.Sobel)
	case Laplacian90:
		res.Buffer = window(spatial.Laplacian90Kernel, spatial.Laplacian90)
	case Laplacian45:
		res.Buffer = window(spatial.Laplacian45Kernel, spatial.Laplacian45)
	case LaplacianMagnitude:
		res.Buffer = window(spatial.LaplacianMagnitudeKernel, spatial.LaplacianMagnitude)
	case Equalize:
		res.Buffer = histogram.Equalize(img)
	case Threshold:
		res.Buffer = point.Threshold(img, cfg.Threshold)
	case Otsu:
		res.Buffer, res.Level = point.OtsuThreshold(img)
	case Dilate:
		res.Buffer = morphology.Dilate(img, cfg.StructuringElement, cfg.mask())
	case Erode:
		res.Buffer = morphology.Erode(img, cfg.StructuringElement, cfg.mask(), cfg.morphologyOptions())
	case Close:
		res.Buffer = morphology.Close(img, cfg.StructuringElement, cfg.mask(), cfg.morphologyOptions())
	case Open:
		res.Buffer = morphology.Open(img, cfg.StructuringElement, cfg.mask(), cfg.morphologyOptions())
	case Boundary:
		res.Buffer = morphology.BoundaryExtraction(img, cfg.StructuringElement, cfg.mask())
	case Skeleton:
		res.Buffer, res.Passes = morphology.Skeletonize(img, cfg.mask())
	default:
		// Validate rejects anything outside the catalogue.
		panic(fmt.Sprintf("engine: unhandled operator %v", op))
	}
	return res
}

func (r *Result) degenerate(op Operator, w, h int) {
	r.Degenerate = true
	r.Warning = fmt.Errorf("%s on %dx%d: %w", op, w, h, ErrDimensionTooSmall)
}
