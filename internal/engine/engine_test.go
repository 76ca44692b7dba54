package engine

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagelab/internal/logger"
	"imagelab/internal/morphology"
	"imagelab/internal/raster"
)

func testImage() *raster.Buffer {
	return raster.FromFunc(6, 5, func(x, y int) raster.Color {
		return raster.Color{R: float64(x) / 5, G: float64(y) / 4, B: 0.5, A: 1}
	})
}

func TestEveryOperatorRoundTripsThroughItsName(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, 20)
	seen := map[string]bool{}
	for _, op := range ops {
		name := op.String()
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
		assert.NotEmpty(t, op.Description())

		parsed, err := ParseOperator(name)
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
}

func TestParseOperatorUnknown(t *testing.T) {
	_, err := ParseOperator("sharpen")
	assert.ErrorIs(t, err, ErrUnknownOperator)

	op, err := ParseOperator("  Laplacian-45 ")
	require.NoError(t, err)
	assert.Equal(t, Laplacian45, op)
}

func TestOperatorText(t *testing.T) {
	var op Operator
	require.NoError(t, op.UnmarshalText([]byte("skeleton")))
	assert.Equal(t, Skeleton, op)

	text, err := Otsu.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "otsu", string(text))

	_, err = Operator(99).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownOperator)
	assert.Equal(t, "Operator(99)", Operator(99).String())
}

func TestBinaryOperators(t *testing.T) {
	assert.True(t, Skeleton.Binary())
	assert.True(t, Boundary.Binary())
	assert.False(t, Otsu.Binary())
	assert.False(t, Mean.Binary())
}

func TestApplyAllOperatorsKeepsDimensions(t *testing.T) {
	e := New(nil, nil)
	img := testImage()
	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			res, err := e.Apply(img, op, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, img.Width(), res.Buffer.Width())
			assert.Equal(t, img.Height(), res.Buffer.Height())
			assert.False(t, res.Degenerate)
			assert.Equal(t, op, res.Operator)
		})
	}
	assert.NotEmpty(t, e.Timing().Operations())
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		op     Operator
		mutate func(*Config)
		param  string
	}{
		{"zero gamma", PowerLaw, func(c *Config) { c.Gamma = 0 }, "gamma"},
		{"negative gamma", PowerLaw, func(c *Config) { c.Gamma = -1 }, "gamma"},
		{"nan gamma", PowerLaw, func(c *Config) { c.Gamma = math.NaN() }, "gamma"},
		{"zero scale", PowerLaw, func(c *Config) { c.Scale = 0 }, "scale"},
		{"min above max", BrightnessCut, func(c *Config) { c.MinBrightness, c.MaxBrightness = 200, 100 }, "min_brightness"},
		{"max out of range", BrightnessCutTernary, func(c *Config) { c.MaxBrightness = 256 }, "max_brightness"},
		{"threshold out of range", Threshold, func(c *Config) { c.Threshold = -1 }, "threshold"},
		{"even element", Dilate, func(c *Config) { c.StructuringElement = morphology.Square(2) }, "structuring_element"},
		{"ragged element", Erode, func(c *Config) {
			c.StructuringElement = morphology.StructuringElement{{1, 1, 1}, {1}, {1, 1, 1}}
		}, "structuring_element"},
		{"empty element", Close, func(c *Config) { c.StructuringElement = nil }, "structuring_element"},
	}
	e := New(nil, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			res, err := e.Apply(testImage(), tc.op, cfg)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidParameter)

			var perr *ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.param, perr.Parameter)
		})
	}
}

func TestUnusedOptionsAreIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gamma = -3
	cfg.StructuringElement = nil
	res, err := New(nil, nil).Apply(testImage(), Negative, cfg)
	require.NoError(t, err)
	assert.NotNil(t, res.Buffer)

	// skeleton has no structuring element
	_, err = New(nil, nil).Apply(testImage(), Skeleton, cfg)
	assert.NoError(t, err)
}

func TestApplyRejectsUnknownOperatorAndNilImage(t *testing.T) {
	e := New(nil, nil)
	_, err := e.Apply(testImage(), Operator(42), DefaultConfig())
	assert.ErrorIs(t, err, ErrUnknownOperator)

	_, err = e.Apply(nil, Negative, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDegenerateWindowOperators(t *testing.T) {
	var buf bytes.Buffer
	e := New(logger.NewZerolog(&buf, zerolog.WarnLevel), nil)
	img := raster.Filled(2, 2, raster.White)

	for _, op := range []Operator{Mean, Median, Sobel, Laplacian90, Laplacian45, LaplacianMagnitude} {
		res, err := e.Apply(img, op, DefaultConfig())
		require.NoError(t, err, op.String())
		assert.True(t, res.Degenerate, op.String())
		assert.ErrorIs(t, res.Warning, ErrDimensionTooSmall)
		assert.True(t, res.Buffer.Equal(raster.Blank(2, 2)))
	}
	assert.Contains(t, buf.String(), "image smaller than operator window")

	res, err := e.Apply(raster.Filled(1, 3, raster.White), Roberts, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.Degenerate)

	res, err = e.Apply(img, Roberts, DefaultConfig())
	require.NoError(t, err)
	assert.False(t, res.Degenerate)
}

func TestStrictErodeBorder(t *testing.T) {
	img := raster.Filled(4, 4, raster.White)
	e := New(nil, nil)

	cfg := DefaultConfig()
	res, err := e.Apply(img, Erode, cfg)
	require.NoError(t, err)
	assert.True(t, res.Buffer.Equal(img))

	cfg.StrictErodeBorder = true
	res, err = e.Apply(img, Erode, cfg)
	require.NoError(t, err)
	assert.Equal(t, raster.PackedBlack, res.Buffer.GetPacked(0, 0))
	assert.Equal(t, raster.PackedWhite, res.Buffer.GetPacked(1, 1))
}

func TestMaskPolarity(t *testing.T) {
	img := raster.FromFunc(5, 5, func(x, y int) raster.Color {
		if x == 2 && y == 2 {
			return raster.Black
		}
		return raster.White
	})
	cfg := DefaultConfig()
	cfg.MaskIsBlack = true
	res, err := New(nil, nil).Apply(img, Dilate, cfg)
	require.NoError(t, err)
	assert.Equal(t, raster.PackedBlack, res.Buffer.GetPacked(1, 1))
	assert.Equal(t, raster.PackedWhite, res.Buffer.GetPacked(0, 0))
}

func TestChainFeedsOutputsForward(t *testing.T) {
	e := New(nil, nil)
	chain := NewChain(
		Step{Operator: Negative, Config: DefaultConfig()},
		Step{Operator: Negative, Config: DefaultConfig()},
	)
	chain.AddStep(Step{Operator: Otsu, Config: DefaultConfig()})
	assert.Equal(t, []string{"negative", "negative", "otsu"}, chain.GetStepNames())

	img := testImage()
	results, err := chain.Execute(context.Background(), e, img)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[1].Buffer.Equal(img))
}

func TestChainHooksSeeEveryStep(t *testing.T) {
	chain := NewChain(
		Step{Operator: Negative, Config: DefaultConfig()},
		Step{Operator: Mean, Config: DefaultConfig()},
	)
	var seen []string
	var last *Result
	results, err := chain.Execute(context.Background(), New(nil, nil), testImage(),
		func(i int, step Step, res *Result, elapsed time.Duration) {
			assert.Equal(t, len(seen), i)
			assert.Equal(t, step.Operator, res.Operator)
			assert.GreaterOrEqual(t, elapsed, time.Duration(0))
			seen = append(seen, step.Operator.String())
			last = res
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"negative", "mean"}, seen)
	assert.Same(t, results[1], last)
}

func TestChainValidatesBeforeRunning(t *testing.T) {
	bad := DefaultConfig()
	bad.Threshold = 300
	chain := NewChain(
		Step{Operator: Negative, Config: DefaultConfig()},
		Step{Operator: Threshold, Config: bad},
	)
	results, err := chain.Execute(context.Background(), New(nil, nil), testImage())
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Empty(t, results)
}

func TestChainStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chain := NewChain(Step{Operator: Negative, Config: DefaultConfig()})
	results, err := chain.Execute(ctx, New(nil, nil), testImage())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
