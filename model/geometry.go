package model

import "fmt"

// PointsPerInch is the conversion factor between inches and points.
const PointsPerInch = 72.0

// PageGeometry holds trim dimensions and margins for the output document.
// All values are in points. When Mirrored is set, Inside/Outside map to
// the binding-side and outer-edge margins of each page; otherwise they map
// to fixed left/right margins.
type PageGeometry struct {
	TrimWidth  float64
	TrimHeight float64
	Top        float64
	Bottom     float64
	Inside     float64
	Outside    float64
	Mirrored   bool
}

// Validate checks the geometry invariants: all margins non-negative and
// strictly less than half the corresponding trim dimension, positive trim
// dimensions, and inside strictly greater than outside when mirrored
// margins are active.
func (g PageGeometry) Validate() error {
	if g.TrimWidth <= 0 || g.TrimHeight <= 0 {
		return fmt.Errorf("trim size must be positive, got %.2fx%.2fpt", g.TrimWidth, g.TrimHeight)
	}
	margins := []struct {
		name  string
		value float64
		limit float64
	}{
		{"top", g.Top, g.TrimHeight / 2},
		{"bottom", g.Bottom, g.TrimHeight / 2},
		{"inside", g.Inside, g.TrimWidth / 2},
		{"outside", g.Outside, g.TrimWidth / 2},
	}
	for _, m := range margins {
		if m.value < 0 {
			return fmt.Errorf("%s margin must be non-negative, got %.2fpt", m.name, m.value)
		}
		if m.value >= m.limit {
			return fmt.Errorf("%s margin %.2fpt exceeds half the trim dimension", m.name, m.value)
		}
	}
	if g.Mirrored && g.Inside <= g.Outside {
		return fmt.Errorf("inside margin %.2fpt must exceed outside margin %.2fpt under mirrored margins", g.Inside, g.Outside)
	}
	return nil
}

// Inches converts a length in inches to points.
func Inches(in float64) float64 {
	return in * PointsPerInch
}
