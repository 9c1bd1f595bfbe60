package docx

import "strconv"

// OOXML length units:
//   - twips (twentieths of a point) for page dimensions, margins, spacing
//   - half-points for font sizes
//   - EMUs (914400 per inch) for drawing extents

const (
	twipsPerPoint = 20.0
	emusPerInch   = 914400.0
)

// parseTwips converts a twips attribute value to points.
func parseTwips(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / twipsPerPoint
}

// parseHalfPoints converts a half-point attribute value to points.
func parseHalfPoints(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 2
}

// parseEMUInches converts an EMU attribute value to inches.
func parseEMUInches(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / emusPerInch
}

// formatTwips renders a length in points as a twips attribute value.
func formatTwips(points float64) string {
	return strconv.Itoa(int(points*twipsPerPoint + 0.5))
}

// formatHalfPoints renders a font size in points as a half-point value.
func formatHalfPoints(points float64) string {
	return strconv.Itoa(int(points*2 + 0.5))
}

// formatLineSpacing renders a line-spacing multiplier as the 240ths value
// used with w:lineRule="auto".
func formatLineSpacing(multiplier float64) string {
	return strconv.Itoa(int(multiplier*240 + 0.5))
}
