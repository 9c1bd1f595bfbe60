package layout

import "github.com/tsawler/bindery/model"

// Normalize applies page geometry and the global style baseline to the
// document. Every block not yet classified receives the body defaults;
// later stages override per role. The geometry must already be validated:
// configuration validation happens before any document mutation so a
// partially formatted document is impossible.
func Normalize(doc *model.Document, geometry model.PageGeometry, baseline model.StyleBaseline) {
	doc.Geometry = geometry
	doc.Baseline = baseline

	for _, b := range doc.Blocks {
		if b.IsRaw() || b.Role != model.RoleUnclassified {
			continue
		}
		applyBodyDefaults(b, baseline)
	}
}

// applyBodyDefaults sets the baseline paragraph properties on a block,
// preserving its original alignment and any explicit page break.
func applyBodyDefaults(b *model.Block, baseline model.StyleBaseline) {
	b.Props.LineSpacing = baseline.LineSpacing
	b.Props.SpaceAfter = baseline.SpaceAfter
	b.Props.SpaceBefore = 0
	b.Props.FirstLineIndent = baseline.FirstLineIndent
	b.Props.StyleID = ""

	for _, r := range b.Runs {
		r.Font = baseline.BodyFont
		r.Size = baseline.BodySize
	}
}
