package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrBadHexColor = errors.New("bad hex color")
)

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	shift := math.Pow(10, float64(digits))
	return math.Round(v*shift) / shift
}

// FormatFloat renders a float in the shortest exact form, as GDAL command
// switches expect.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HexColorToRGB parses a "#RRGGBB" color into its channel values.
func HexColorToRGB(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		err = ErrBadHexColor
		return
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		err = ErrBadHexColor
		return
	}
	r = uint8(v >> 16)
	g = uint8(v >> 8)
	b = uint8(v)
	return
}
