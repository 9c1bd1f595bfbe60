package layout

import (
	"fmt"
	"strings"

	"github.com/tsawler/bindery/model"
)

// ClassifyAndReflow walks the block sequence exactly once, in document
// order, assigning a semantic role to each block and applying
// role-specific styling. It returns one ChapterEntry per recognized
// chapter heading, in document order, for the TOC synthesizer.
//
// Classification trusts the source document's structural markup: a block
// is a chapter heading only when its resolved style marks a top-level
// heading. Deeper heading levels pass through as body, as do blocks whose
// style metadata could not be resolved; degraded metadata is reported at
// parse time, never fatal here.
func ClassifyAndReflow(doc *model.Document) []model.ChapterEntry {
	var entries []model.ChapterEntry
	out := doc.Blocks[:0]
	prevBlank := false
	firstChapter := true

	for _, b := range doc.Blocks {
		if b.IsRaw() {
			out = append(out, b)
			prevBlank = false
			continue
		}

		// Whitespace-only blocks become a single blank separator and are
		// never chapter headings, whatever their structural style says.
		if b.IsBlank() {
			if prevBlank {
				continue
			}
			b.Role = model.RoleBlankSeparator
			b.Runs = nil
			b.Props.SpaceAfter = 0
			b.Props.SpaceBefore = 0
			b.Props.FirstLineIndent = 0
			out = append(out, b)
			prevBlank = true
			continue
		}
		prevBlank = false

		if b.HeadingLevel == 1 {
			classifyChapterHeading(b, doc.Baseline, firstChapter)
			b.Anchor = fmt.Sprintf("_Chapter%d", len(entries)+1)
			entries = append(entries, model.ChapterEntry{
				Title: strings.TrimSpace(b.Text()),
				Block: b,
			})
			firstChapter = false
		} else {
			classifyBody(b, doc.Baseline)
		}
		out = append(out, b)
	}

	doc.Blocks = out
	return entries
}

// classifyChapterHeading applies the heading style: centered, indent
// cleared, heading typeface, and a forced page break for every chapter
// except the first, which starts on the first body page.
func classifyChapterHeading(b *model.Block, baseline model.StyleBaseline, first bool) {
	b.Role = model.RoleChapterHeading
	b.Props.StyleID = "Heading1"
	b.Props.Alignment = model.AlignCenter
	b.Props.PageBreakBefore = !first
	b.Props.FirstLineIndent = 0
	b.Props.LineSpacing = 0
	b.Props.SpaceBefore = baseline.HeadingSpaceBefore
	b.Props.SpaceAfter = baseline.HeadingSpaceAfter

	for _, r := range b.Runs {
		r.Font = baseline.HeadingFont
		r.Size = baseline.HeadingSize
		r.Bold = true
	}
}

// classifyBody applies the body baseline and whitespace cleanup. Emphasis
// flags on runs are preserved verbatim.
func classifyBody(b *model.Block, baseline model.StyleBaseline) {
	b.Role = model.RoleBody
	b.Props.LineSpacing = baseline.LineSpacing
	b.Props.SpaceAfter = baseline.SpaceAfter
	b.Props.FirstLineIndent = baseline.FirstLineIndent

	for _, r := range b.Runs {
		r.Font = baseline.BodyFont
		r.Size = baseline.BodySize
	}

	cleanupWhitespace(b)
}

// cleanupWhitespace collapses runs of spaces and tabs to a single space
// and strips trailing whitespace from the block. The collapse tracks
// state across run boundaries so "a " + "  b" becomes "a " + "b" without
// touching either run's emphasis.
func cleanupWhitespace(b *model.Block) {
	lastWasSpace := false
	for _, r := range b.Runs {
		if r.Break != model.BreakNone {
			lastWasSpace = true
			continue
		}
		var sb strings.Builder
		sb.Grow(len(r.Text))
		for _, c := range r.Text {
			if c == ' ' || c == '\t' {
				if !lastWasSpace {
					sb.WriteByte(' ')
					lastWasSpace = true
				}
				continue
			}
			sb.WriteRune(c)
			lastWasSpace = false
		}
		r.Text = sb.String()
	}

	// Strip trailing whitespace.
	for i := len(b.Runs) - 1; i >= 0; i-- {
		r := b.Runs[i]
		if r.Break != model.BreakNone {
			break
		}
		r.Text = strings.TrimRight(r.Text, " \t")
		if r.Text != "" {
			break
		}
	}

	// Drop text runs emptied by cleanup.
	kept := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Break == model.BreakNone && r.Text == "" {
			continue
		}
		kept = append(kept, r)
	}
	b.Runs = kept
}
