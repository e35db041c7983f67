package app

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSV_RGB(t *testing.T) {
	testData := map[string]struct {
		hsv      HSV
		expected color.Color
	}{
		"red":   {hsv: HSV{H: 0, S: 1, V: 1}, expected: color.RGBA{R: 0xff, A: 0xff}},
		"green": {hsv: HSV{H: 120, S: 1, V: 1}, expected: color.RGBA{G: 0xff, A: 0xff}},
		"blue":  {hsv: HSV{H: 240, S: 1, V: 1}, expected: color.RGBA{B: 0xff, A: 0xff}},
		"black": {hsv: HSV{H: 0, S: 0, V: 0}, expected: color.RGBA{A: 0xff}},
		"white": {hsv: HSV{H: 0, S: 0, V: 1}, expected: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.hsv.RGB())
		})
	}
}

func TestGetColorTheme(t *testing.T) {
	for theme := range colorThemes {
		t.Run(string(theme), func(t *testing.T) {
			palette := GetColorTheme(theme)
			assert.NotEqual(t, palette[0], palette[1])
			assert.NotEqual(t, palette[1], palette[2])
			assert.NotEqual(t, palette[0], palette[2])
		})
	}

	assert.Equal(t, GetColorTheme(ClassicTheme), GetColorTheme("unknown"))
}
