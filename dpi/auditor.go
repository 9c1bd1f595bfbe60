// Package dpi audits embedded raster images against a print-quality
// resolution threshold. The audit is purely observational: it never
// mutates the document, and its warnings are returned as a side channel
// alongside the formatted output.
package dpi

import (
	"fmt"

	"github.com/tsawler/bindery/model"
)

// DefaultThreshold is the minimum effective DPI for print-quality images.
const DefaultThreshold = 300

// Warning describes one image that failed the audit.
type Warning struct {
	// Image is the media part name identifying the image.
	Image string
	// DPI is the computed effective DPI. Zero when Undetermined or
	// Unreadable is set; DPI is never reported as zero or infinity for a
	// measurable image.
	DPI float64
	// Undetermined is set when the image declares no display size, so
	// effective DPI cannot be computed.
	Undetermined bool
	// Unreadable is set when the media part could not be decoded.
	Unreadable bool
	// Threshold is the configured minimum DPI.
	Threshold float64
	// Message is a human-readable summary.
	Message string
}

// Audit traverses every embedded image reachable from the document and
// returns a warning for each image below the threshold, plus distinct
// warnings for images whose effective DPI cannot be determined. Images at
// or above the threshold are not reported.
func Audit(doc *model.Document, threshold float64) []Warning {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var warnings []Warning
	for _, img := range doc.Images() {
		if w, ok := auditImage(img, threshold); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// auditImage computes the effective DPI of one image. Width and height
// DPI are computed independently and the minimum of the two is used, the
// more conservative choice for print safety.
func auditImage(img *model.EmbeddedImage, threshold float64) (Warning, bool) {
	name := img.Name
	if name == "" {
		name = img.RelID
	}

	if !img.HasPixelSize() {
		return Warning{
			Image:      name,
			Unreadable: true,
			Threshold:  threshold,
			Message:    fmt.Sprintf("could not analyze image %q: media part not decodable", name),
		}, true
	}

	if !img.HasDisplaySize() {
		return Warning{
			Image:        name,
			Undetermined: true,
			Threshold:    threshold,
			Message:      fmt.Sprintf("image %q: size undetermined, no display dimensions declared", name),
		}, true
	}

	dpiW := float64(img.PixelWidth) / img.DisplayWidth
	dpiH := float64(img.PixelHeight) / img.DisplayHeight
	dpi := dpiW
	if dpiH < dpi {
		dpi = dpiH
	}

	if dpi >= threshold {
		return Warning{}, false
	}
	return Warning{
		Image:     name,
		DPI:       dpi,
		Threshold: threshold,
		Message: fmt.Sprintf("image %q has %.0f DPI (minimum %.0f DPI required for print)",
			name, dpi, threshold),
	}, true
}
