package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagelab/internal/raster"
)

func sample() *raster.Buffer {
	return raster.FromFunc(4, 3, func(x, y int) raster.Color {
		return raster.Color{R: float64(x) / 3, G: float64(y) / 2, B: 0.2, A: 1}
	})
}

func TestEncodeDecodeLossless(t *testing.T) {
	c := New(nil, nil)
	for _, format := range []imaging.Format{imaging.PNG, imaging.BMP, imaging.TIFF} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, sample(), format))

			img, err := c.Decode(&buf)
			require.NoError(t, err)
			assert.True(t, img.Buffer.Equal(sample()))
		})
	}
}

func TestDecodeReportsFormat(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := New(nil, nil).Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, raster.Color{R: 1, A: 1}, img.Buffer.Get(1, 1))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := New(nil, nil).Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestSaveAndOpen(t *testing.T) {
	c := New(nil, nil)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.bmp", "out.tif", "out"} {
		path := filepath.Join(dir, name)
		require.NoError(t, c.Save(path, sample()))

		img, err := c.Open(path)
		require.NoError(t, err, name)
		assert.Equal(t, path, img.Path)
		assert.True(t, img.Buffer.Equal(sample()), name)
	}

	jpg := filepath.Join(dir, "out.jpg")
	require.NoError(t, c.Save(jpg, sample()))
	img, err := c.Open(jpg)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)
	assert.Equal(t, 4, img.Buffer.Width())
}

func TestSaveUnknownExtensionWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xyz")
	require.NoError(t, New(nil, nil).Save(path, sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, imaging.JPEG, FormatFromPath("a/b.JPEG"))
	assert.Equal(t, imaging.GIF, FormatFromPath("x.gif"))
	assert.Equal(t, imaging.PNG, FormatFromPath("noext"))
	assert.Equal(t, imaging.PNG, FormatFromPath("x.webp"))
}

func TestEncodeNil(t *testing.T) {
	assert.Error(t, New(nil, nil).Encode(&bytes.Buffer{}, nil, imaging.PNG))
}
