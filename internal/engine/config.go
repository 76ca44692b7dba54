package engine

import (
	"fmt"
	"math"

	"imagelab/internal/morphology"
)

// Config carries the options an operator may read. Options an operator does
// not use are ignored.
type Config struct {
	Gamma              float64
	Scale              float64
	MinBrightness      int
	MaxBrightness      int
	Threshold          int
	StructuringElement morphology.StructuringElement
	MaskIsBlack        bool
	// StrictErodeBorder treats out-of-frame neighbours as background
	// during erosion instead of skipping them.
	StrictErodeBorder bool
}

// DefaultConfig mirrors the initial slider and checkbox positions.
func DefaultConfig() Config {
	return Config{
		Gamma:              1,
		Scale:              1,
		MinBrightness:      0,
		MaxBrightness:      255,
		Threshold:          128,
		StructuringElement: morphology.DefaultElement(),
	}
}

// Validate checks the options op reads.
func (c Config) Validate(op Operator) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOperator, int(op))
	}
	switch op {
	case PowerLaw:
		if !(c.Gamma > 0) || math.IsInf(c.Gamma, 0) {
			return invalid("gamma", c.Gamma, "must be a finite value > 0")
		}
		if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
			return invalid("scale", c.Scale, "must be a finite value > 0")
		}
	case BrightnessCut, BrightnessCutTernary:
		if err := checkByte("min_brightness", c.MinBrightness); err != nil {
			return err
		}
		if err := checkByte("max_brightness", c.MaxBrightness); err != nil {
			return err
		}
		if c.MinBrightness > c.MaxBrightness {
			return invalid("min_brightness", c.MinBrightness, "must not exceed max_brightness %d", c.MaxBrightness)
		}
	case Threshold:
		if err := checkByte("threshold", c.Threshold); err != nil {
			return err
		}
	case Dilate, Erode, Close, Open, Boundary:
		if err := c.StructuringElement.Validate(); err != nil {
			return invalid("structuring_element", c.StructuringElement, "%v", err)
		}
	}
	return nil
}

func checkByte(name string, v int) error {
	if v < 0 || v > 255 {
		return invalid(name, v, "must be in [0, 255]")
	}
	return nil
}

func (c Config) mask() morphology.Mask {
	return morphology.MaskFor(c.MaskIsBlack)
}

func (c Config) morphologyOptions() morphology.Options {
	return morphology.Options{OutOfFrameBackground: c.StrictErodeBorder}
}
