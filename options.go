package bindery

import (
	"fmt"

	"github.com/tsawler/bindery/model"
)

// TrimSize selects the finished page dimensions.
type TrimSize string

// Supported trim sizes.
const (
	Trim6x9   TrimSize = "6x9"
	Trim5x8   TrimSize = "5x8"
	Trim85x11 TrimSize = "8.5x11"
)

// trimDimensions maps a trim size to width and height in inches.
var trimDimensions = map[TrimSize][2]float64{
	Trim6x9:   {6, 9},
	Trim5x8:   {5, 8},
	Trim85x11: {8.5, 11},
}

// FormatOptions holds the full formatting configuration for one pipeline
// run. It is immutable once a terminal operation starts; fluent methods
// on Formatter clone it.
type FormatOptions struct {
	trimSize  TrimSize
	printMode bool

	// Margins in inches.
	marginTop     float64
	marginBottom  float64
	marginInside  float64
	marginOutside float64

	bodyFont        string
	bodySize        float64 // points
	lineSpacing     float64 // multiplier
	spaceAfter      float64 // points
	firstLineIndent float64 // inches

	headingSize        float64 // points
	headingSpaceBefore float64 // points
	headingSpaceAfter  float64 // points

	dpiThreshold float64

	frontMatter bool
	title       string
	author      string
	dedication  string
}

// defaultOptions returns the house defaults: 6x9 trim, one-inch top and
// bottom margins, 0.85/0.6 inch binding margins, Georgia 11pt body text.
func defaultOptions() FormatOptions {
	return FormatOptions{
		trimSize:      Trim6x9,
		marginTop:     1.0,
		marginBottom:  1.0,
		marginInside:  0.85,
		marginOutside: 0.6,

		bodyFont:        "Georgia",
		bodySize:        11,
		lineSpacing:     1.15,
		spaceAfter:      6,
		firstLineIndent: 0.25,

		headingSize:        18,
		headingSpaceBefore: 24,
		headingSpaceAfter:  12,

		dpiThreshold: 300,

		frontMatter: true,
		title:       "Untitled",
		author:      "Author Name",
	}
}

// clone creates a copy of FormatOptions.
func (o FormatOptions) clone() FormatOptions {
	return o
}

// validate checks the configuration before the pipeline touches the
// document. Returns a *ConfigError describing the first offending field.
func (o FormatOptions) validate() error {
	if _, ok := trimDimensions[o.trimSize]; !ok {
		return &ConfigError{Field: "trim size", Reason: fmt.Sprintf("unsupported value %q", o.trimSize)}
	}
	if o.lineSpacing < 1.0 || o.lineSpacing > 2.0 {
		return &ConfigError{Field: "line spacing", Reason: fmt.Sprintf("%.2f outside supported range 1.0-2.0", o.lineSpacing)}
	}
	if o.bodyFont == "" {
		return &ConfigError{Field: "body font", Reason: "must not be empty"}
	}
	if o.bodySize <= 0 {
		return &ConfigError{Field: "body size", Reason: "must be positive"}
	}
	if o.dpiThreshold <= 0 {
		return &ConfigError{Field: "dpi threshold", Reason: "must be positive"}
	}
	if o.firstLineIndent < 0 {
		return &ConfigError{Field: "first line indent", Reason: "must be non-negative"}
	}
	if o.spaceAfter < 0 {
		return &ConfigError{Field: "space after", Reason: "must be non-negative"}
	}
	if err := o.geometry().Validate(); err != nil {
		return &ConfigError{Field: "page geometry", Reason: err.Error()}
	}
	return nil
}

// geometry builds the page geometry from the selected trim size and
// margin values.
func (o FormatOptions) geometry() model.PageGeometry {
	dims := trimDimensions[o.trimSize]
	return model.PageGeometry{
		TrimWidth:  model.Inches(dims[0]),
		TrimHeight: model.Inches(dims[1]),
		Top:        model.Inches(o.marginTop),
		Bottom:     model.Inches(o.marginBottom),
		Inside:     model.Inches(o.marginInside),
		Outside:    model.Inches(o.marginOutside),
		Mirrored:   o.printMode,
	}
}

// baseline builds the global style baseline the normalizer applies.
func (o FormatOptions) baseline() model.StyleBaseline {
	return model.StyleBaseline{
		BodyFont:        o.bodyFont,
		BodySize:        o.bodySize,
		LineSpacing:     o.lineSpacing,
		SpaceAfter:      o.spaceAfter,
		FirstLineIndent: model.Inches(o.firstLineIndent),

		HeadingFont:        o.bodyFont,
		HeadingSize:        o.headingSize,
		HeadingSpaceBefore: o.headingSpaceBefore,
		HeadingSpaceAfter:  o.headingSpaceAfter,
	}
}
