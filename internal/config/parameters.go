package config

import (
	"imagelab/internal/engine"
)

// ParameterRange defines the valid range of a numeric parameter.
type ParameterRange struct {
	Min  float64
	Max  float64
	Step float64
}

// OperatorParameters lists the parameters an operator reads with their
// defaults and ranges.
type OperatorParameters struct {
	Operator engine.Operator
	Defaults map[string]interface{}
	Ranges   map[string]ParameterRange
}

// Parameters describes the tunable options of op.
func Parameters(op engine.Operator) OperatorParameters {
	defaults := engine.DefaultConfig()
	p := OperatorParameters{
		Operator: op,
		Defaults: map[string]interface{}{},
		Ranges:   map[string]ParameterRange{},
	}

	switch op {
	case engine.PowerLaw:
		p.Defaults["gamma"] = defaults.Gamma
		p.Defaults["scale"] = defaults.Scale
		p.Ranges["gamma"] = ParameterRange{Min: 0.01, Max: 10, Step: 0.01}
		p.Ranges["scale"] = ParameterRange{Min: 0.01, Max: 10, Step: 0.01}
	case engine.BrightnessCut, engine.BrightnessCutTernary:
		p.Defaults["min_brightness"] = defaults.MinBrightness
		p.Defaults["max_brightness"] = defaults.MaxBrightness
		p.Ranges["min_brightness"] = ParameterRange{Min: 0, Max: 255, Step: 1}
		p.Ranges["max_brightness"] = ParameterRange{Min: 0, Max: 255, Step: 1}
	case engine.Threshold:
		p.Defaults["threshold"] = defaults.Threshold
		p.Ranges["threshold"] = ParameterRange{Min: 0, Max: 255, Step: 1}
	case engine.Dilate, engine.Erode, engine.Close, engine.Open, engine.Boundary:
		p.Defaults["mask_is_black"] = defaults.MaskIsBlack
		p.Defaults["element_size"] = defaults.StructuringElement.Size()
		p.Ranges["element_size"] = ParameterRange{Min: 1, Max: 15, Step: 2}
		if op != engine.Dilate && op != engine.Boundary {
			p.Defaults["strict_erode_border"] = defaults.StrictErodeBorder
		}
	case engine.Skeleton:
		p.Defaults["mask_is_black"] = defaults.MaskIsBlack
	}
	return p
}
