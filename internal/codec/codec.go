// Package codec moves raster buffers in and out of encoded image files.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"imagelab/internal/logger"
	"imagelab/internal/raster"
	"imagelab/internal/timing"
)

const component = "Codec"

// JPEGQuality is used for every JPEG written.
const JPEGQuality = 95

// decoder turns encoded bytes into an image and its format name.
type decoder func(data []byte) (image.Image, string, error)

var decode decoder = decodeImaging

func decodeImaging(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Image is a decoded buffer plus the format it came from.
type Image struct {
	Buffer *raster.Buffer
	Format string
	Path   string
}

// Codec decodes and encodes buffers, logging and timing each call.
type Codec struct {
	logger logger.Logger
	timing *timing.Tracker
}

// New returns a codec. Nil arguments get a discarding logger and a fresh
// tracker.
func New(log logger.Logger, tracker *timing.Tracker) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	if tracker == nil {
		tracker = timing.NewTracker()
	}
	return &Codec{logger: log, timing: tracker}
}

// Decode reads an encoded image from r. EXIF orientation is applied to JPEG
// and TIFF input.
func (c *Codec) Decode(r io.Reader) (*Image, error) {
	ctx := c.timing.StartTiming(context.Background(), "decode")
	defer c.timing.EndTiming(ctx)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	c.logger.Debug(component, "image data read", map[string]interface{}{
		"size_bytes": len(data),
	})

	img, format, err := decode(data)
	if err != nil {
		c.logger.Error(component, err, map[string]interface{}{"size_bytes": len(data)})
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf := raster.FromImage(img)
	c.logger.Info(component, "image decoded", map[string]interface{}{
		"width":  buf.Width(),
		"height": buf.Height(),
		"format": format,
	})
	return &Image{Buffer: buf, Format: format}, nil
}

// Open decodes the file at path.
func (c *Codec) Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img.Path = path
	return img, nil
}

// Encode writes buf to w in format.
func (c *Codec) Encode(w io.Writer, buf *raster.Buffer, format imaging.Format) error {
	if buf == nil {
		return fmt.Errorf("no image data to save")
	}

	ctx := c.timing.StartTiming(context.Background(), "encode")
	defer c.timing.EndTiming(ctx)

	c.logger.Debug(component, "encoding image", map[string]interface{}{
		"format": format.String(),
		"width":  buf.Width(),
		"height": buf.Height(),
	})

	if err := imaging.Encode(w, buf.Image(), format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		c.logger.Error(component, err, map[string]interface{}{"format": format.String()})
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save writes buf to path, picking the format from its extension.
func (c *Codec) Save(path string, buf *raster.Buffer) error {
	format := FormatFromPath(path)
	if ext := filepath.Ext(path); ext != "" && !knownExtension(ext) {
		c.logger.Warning(component, "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(strings.TrimPrefix(ext, ".")),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := c.Encode(f, buf, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	c.logger.Info(component, "image saved", map[string]interface{}{
		"path":   path,
		"format": format.String(),
	})
	return nil
}

// FormatFromPath maps a file extension to an output format. Paths without
// a recognised extension are written as PNG.
func FormatFromPath(path string) imaging.Format {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return imaging.PNG
	}
	return format
}

func knownExtension(ext string) bool {
	_, err := imaging.FormatFromExtension(ext)
	return err == nil
}
