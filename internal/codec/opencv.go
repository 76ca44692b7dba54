//go:build opencv

package codec

import (
	"bytes"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	decode = decodeOpenCV
}

// decodeOpenCV reads through OpenCV, which accepts formats the Go decoders
// do not. Alpha is dropped.
func decodeOpenCV(data []byte) (image.Image, string, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, "", fmt.Errorf("opencv decode: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, "", fmt.Errorf("opencv decode: unsupported image data")
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, "", fmt.Errorf("opencv conversion: %w", err)
	}

	format := "opencv"
	if _, name, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		format = name
	}
	return img, format, nil
}
