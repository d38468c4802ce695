package item

import "strings"

// Deterministic text metrics. The engine never talks to a font renderer;
// bounds derived here must be identical for identical input so the scene
// can query them before committing a resize.
const (
	glyphWidthRatio = 0.6  // average advance per rune, relative to font size
	boldWidthRatio  = 0.66 // bold runs slightly wider
	lineHeightRatio = 1.4
)

// MeasureText returns the width and height of a text block at the given
// font size. Empty text measures as a single empty line so placeholder
// layout stays stable.
func MeasureText(text string, size int, bold bool) (w, h float64) {
	if size <= 0 {
		size = DefaultFontSize
	}
	ratio := glyphWidthRatio
	if bold {
		ratio = boldWidthRatio
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}
	w = float64(longest) * float64(size) * ratio
	h = float64(len(lines)) * float64(size) * lineHeightRatio
	return w, h
}

// DefaultFontSize is the point size a text node starts with.
const DefaultFontSize = 14
