package engine

import (
	"fmt"
	"strings"
)

// Operator identifies one entry of the catalogue.
type Operator int

const (
	Negative Operator = iota
	PowerLaw
	BrightnessCut
	BrightnessCutTernary
	Mean
	Median
	Roberts
	Sobel
	Laplacian90
	Laplacian45
	LaplacianMagnitude
	Equalize
	Threshold
	Otsu
	Dilate
	Erode
	Close
	Open
	Boundary
	Skeleton

	operatorCount
)

var operatorNames = [operatorCount]string{
	Negative:             "negative",
	PowerLaw:             "power-law",
	BrightnessCut:        "brightness-cut",
	BrightnessCutTernary: "brightness-cut-ternary",
	Mean:                 "mean",
	Median:               "median",
	Roberts:              "roberts",
	Sobel:                "sobel",
	Laplacian90:          "laplacian-90",
	Laplacian45:          "laplacian-45",
	LaplacianMagnitude:   "laplacian-magnitude",
	Equalize:             "equalize",
	Threshold:            "threshold",
	Otsu:                 "otsu",
	Dilate:               "dilate",
	Erode:                "erode",
	Close:                "close",
	Open:                 "open",
	Boundary:             "boundary",
	Skeleton:             "skeleton",
}

var operatorDescriptions = [operatorCount]string{
	Negative:             "invert every color channel",
	PowerLaw:             "scale * channel^gamma, saturated",
	BrightnessCut:        "black out pixels with any channel outside [min, max]",
	BrightnessCutTernary: "black below min, white above max, else unchanged",
	Mean:                 "3x3 arithmetic mean",
	Median:               "3x3 median",
	Roberts:              "Roberts cross gradient",
	Sobel:                "summed-channel gradient magnitude",
	Laplacian90:          "4-neighbour Laplacian",
	Laplacian45:          "8-neighbour Laplacian",
	LaplacianMagnitude:   "|center - local mean| (legacy)",
	Equalize:             "average-gray histogram equalization",
	Threshold:            "binarize on brightness at 255 - threshold",
	Otsu:                 "binarize on brightness at the Otsu level",
	Dilate:               "binary dilation",
	Erode:                "binary erosion",
	Close:                "binary closing",
	Open:                 "binary opening",
	Boundary:             "dilation XOR original",
	Skeleton:             "Zhang-Suen thinning",
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Description is a one-line summary for catalogue listings.
func (o Operator) Description() string {
	if !o.Valid() {
		return ""
	}
	return operatorDescriptions[o]
}

// Valid reports whether o is in the catalogue.
func (o Operator) Valid() bool {
	return o >= 0 && o < operatorCount
}

// Binary reports whether o treats its input as a black/white mask.
func (o Operator) Binary() bool {
	switch o {
	case Dilate, Erode, Close, Open, Boundary, Skeleton:
		return true
	}
	return false
}

// Operators returns the catalogue in display order.
func Operators() []Operator {
	ops := make([]Operator, operatorCount)
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// ParseOperator resolves a catalogue name, case-insensitively.
func ParseOperator(name string) (Operator, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range operatorNames {
		if candidate == n {
			return Operator(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
}

func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperator, int(o))
	}
	return []byte(o.String()), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
