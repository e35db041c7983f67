package app

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	ClassicTheme   ColorTheme = "classic"
	ThermalTheme   ColorTheme = "thermal"
	MarineTheme    ColorTheme = "marine"
	GrayscaleTheme ColorTheme = "grayscale"
)

type ColorTheme string

// HSV represents a color in HSV color space
type HSV struct {
	H float64 // Hue [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value [0-1]
}

// RGB converts HSV color space to an opaque RGBA color
func (hsv HSV) RGB() color.Color {
	r, g, b := colorful.Hsv(hsv.H, hsv.S, hsv.V).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Axis palettes, X, Y and Z in order
var colorThemes = map[ColorTheme][3]HSV{
	ClassicTheme: { // Red, Green, Blue
		{H: 0, S: 0.85, V: 0.85},
		{H: 120, S: 0.85, V: 0.65},
		{H: 230, S: 0.85, V: 0.85},
	},
	ThermalTheme: { // Red -> Orange -> Yellow
		{H: 0, S: 1.0, V: 0.8},
		{H: 28, S: 1.0, V: 0.95},
		{H: 50, S: 1.0, V: 0.85},
	},
	MarineTheme: { // Cyan -> Deep Blue
		{H: 180, S: 1.0, V: 0.7},
		{H: 205, S: 0.9, V: 0.85},
		{H: 240, S: 0.9, V: 0.6},
	},
	GrayscaleTheme: {
		{H: 0, S: 0, V: 0.1},
		{H: 0, S: 0, V: 0.4},
		{H: 0, S: 0, V: 0.65},
	},
}

// GetColorTheme returns the axis palette of a theme, classic if unknown
func GetColorTheme(theme ColorTheme) [3]color.Color {
	hsv, ok := colorThemes[theme]
	if !ok {
		hsv = colorThemes[ClassicTheme]
	}

	var palette [3]color.Color
	for i, c := range hsv {
		palette[i] = c.RGB()
	}
	return palette
}
