package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagelab/internal/engine"
	"imagelab/internal/morphology"
)

const sampleRecipe = `
replace_original: true
mask_is_black: true
element_size: 5
steps:
  - operator: median
  - operator: power-law
    gamma: 0.5
    scale: 1.2
  - operator: threshold
    threshold: 120
  - operator: erode
    mask_is_black: false
    strict_erode_border: true
  - operator: dilate
    structuring_element:
      - [0, 1, 0]
      - [1, 1, 1]
      - [0, 1, 0]
`

func TestParseRecipe(t *testing.T) {
	recipe, err := ParseRecipe(strings.NewReader(sampleRecipe))
	require.NoError(t, err)

	assert.True(t, recipe.ReplaceOriginal)
	require.Len(t, recipe.Steps, 5)
	assert.Equal(t, engine.Median, recipe.Steps[0].Operator)

	pl := recipe.Config(1)
	assert.Equal(t, 0.5, pl.Gamma)
	assert.Equal(t, 1.2, pl.Scale)

	th := recipe.Config(2)
	assert.Equal(t, 120, th.Threshold)
	assert.True(t, th.MaskIsBlack)
	assert.Equal(t, 5, th.StructuringElement.Size())

	er := recipe.Config(3)
	assert.False(t, er.MaskIsBlack)
	assert.True(t, er.StrictErodeBorder)

	di := recipe.Config(4)
	assert.Equal(t, morphology.StructuringElement{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}, di.StructuringElement)

	chain := recipe.Chain()
	assert.Equal(t, []string{"median", "power-law", "threshold", "erode", "dilate"}, chain.GetStepNames())
	assert.NoError(t, chain.Validate())
}

func TestParseRecipeDefaults(t *testing.T) {
	recipe, err := ParseRecipe(strings.NewReader("steps:\n  - operator: negative\n"))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), recipe.Config(0))
}

func TestParseRecipeErrors(t *testing.T) {
	_, err := ParseRecipe(strings.NewReader("steps:\n  - operator: sharpen\n"))
	assert.ErrorIs(t, err, engine.ErrUnknownOperator)

	_, err = ParseRecipe(strings.NewReader("steps:\n  - operator: mean\n    radius: 2\n"))
	assert.Error(t, err)

	_, err = ParseRecipe(strings.NewReader("replace_original: true\n"))
	assert.EqualError(t, err, "recipe has no steps")

	_, err = ParseRecipe(strings.NewReader(""))
	assert.EqualError(t, err, "recipe is empty")
}

func TestInvalidRecipeValuesFailChainValidation(t *testing.T) {
	recipe, err := ParseRecipe(strings.NewReader("steps:\n  - operator: dilate\n    element_size: 4\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, recipe.Chain().Validate(), engine.ErrInvalidParameter)
}

func TestNegativeElementSizeIsInvalid(t *testing.T) {
	for _, doc := range []string{
		"steps:\n  - operator: dilate\n    element_size: -1\n",
		"element_size: -3\nsteps:\n  - operator: erode\n",
	} {
		recipe, err := ParseRecipe(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Empty(t, recipe.Config(0).StructuringElement)
		assert.ErrorIs(t, recipe.Chain().Validate(), engine.ErrInvalidParameter)
	}
}

func TestLoadRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRecipe), 0o644))

	recipe, err := LoadRecipe(path)
	require.NoError(t, err)
	assert.Len(t, recipe.Steps, 5)

	_, err = LoadRecipe(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParameters(t *testing.T) {
	p := Parameters(engine.PowerLaw)
	assert.Equal(t, 1.0, p.Defaults["gamma"])
	assert.Contains(t, p.Ranges, "scale")

	p = Parameters(engine.BrightnessCutTernary)
	assert.Equal(t, 255, p.Defaults["max_brightness"])
	assert.Equal(t, 255.0, p.Ranges["min_brightness"].Max)

	p = Parameters(engine.Erode)
	assert.Equal(t, 3, p.Defaults["element_size"])
	assert.Contains(t, p.Defaults, "strict_erode_border")
	assert.NotContains(t, Parameters(engine.Dilate).Defaults, "strict_erode_border")

	assert.Empty(t, Parameters(engine.Negative).Defaults)
}
