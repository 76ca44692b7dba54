// Package config loads operator recipes and describes operator parameters.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"imagelab/internal/engine"
	"imagelab/internal/morphology"
)

// Recipe is a YAML-described sequence of operator calls. Top-level options
// apply to every step unless the step overrides them.
type Recipe struct {
	ReplaceOriginal   bool         `yaml:"replace_original"`
	MaskIsBlack       *bool        `yaml:"mask_is_black"`
	StrictErodeBorder *bool        `yaml:"strict_erode_border"`
	ElementSize       *int         `yaml:"element_size"`
	Steps             []RecipeStep `yaml:"steps"`
}

// RecipeStep names one operator and any overrides. Unset fields fall back
// to the recipe options and then to engine.DefaultConfig.
type RecipeStep struct {
	Operator          engine.Operator `yaml:"operator"`
	Gamma             *float64        `yaml:"gamma"`
	Scale             *float64        `yaml:"scale"`
	MinBrightness     *int            `yaml:"min_brightness"`
	MaxBrightness     *int            `yaml:"max_brightness"`
	Threshold         *int            `yaml:"threshold"`
	MaskIsBlack       *bool           `yaml:"mask_is_black"`
	StrictErodeBorder *bool           `yaml:"strict_erode_border"`
	ElementSize       *int            `yaml:"element_size"`
	Element           [][]int         `yaml:"structuring_element"`
}

// ParseRecipe decodes a recipe, rejecting unknown keys and operators.
func ParseRecipe(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var recipe Recipe
	if err := dec.Decode(&recipe); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("recipe is empty")
		}
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	if len(recipe.Steps) == 0 {
		return nil, fmt.Errorf("recipe has no steps")
	}
	return &recipe, nil
}

// LoadRecipe reads a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	recipe, err := ParseRecipe(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recipe, nil
}

// Config resolves the effective engine configuration of step i.
func (r *Recipe) Config(i int) engine.Config {
	s := r.Steps[i]
	cfg := engine.DefaultConfig()

	setBool(&cfg.MaskIsBlack, r.MaskIsBlack, s.MaskIsBlack)
	setBool(&cfg.StrictErodeBorder, r.StrictErodeBorder, s.StrictErodeBorder)

	if s.Gamma != nil {
		cfg.Gamma = *s.Gamma
	}
	if s.Scale != nil {
		cfg.Scale = *s.Scale
	}
	if s.MinBrightness != nil {
		cfg.MinBrightness = *s.MinBrightness
	}
	if s.MaxBrightness != nil {
		cfg.MaxBrightness = *s.MaxBrightness
	}
	if s.Threshold != nil {
		cfg.Threshold = *s.Threshold
	}

	switch {
	case s.Element != nil:
		cfg.StructuringElement = morphology.StructuringElement(s.Element)
	case s.ElementSize != nil:
		cfg.StructuringElement = morphology.Square(*s.ElementSize)
	case r.ElementSize != nil:
		cfg.StructuringElement = morphology.Square(*r.ElementSize)
	}
	return cfg
}

// Chain converts the recipe into an engine chain.
func (r *Recipe) Chain() *engine.Chain {
	chain := engine.NewChain()
	for i, s := range r.Steps {
		chain.AddStep(engine.Step{Operator: s.Operator, Config: r.Config(i)})
	}
	return chain
}

func setBool(dst *bool, values ...*bool) {
	for _, v := range values {
		if v != nil {
			*dst = *v
		}
	}
}
