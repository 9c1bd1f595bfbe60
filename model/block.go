package model

import "strings"

// Role is the semantic classification assigned to a block.
type Role int

const (
	// RoleUnclassified indicates a block that no pipeline stage has
	// classified yet. Parsing produces blocks in this state.
	RoleUnclassified Role = iota
	// RoleBody is ordinary manuscript text.
	RoleBody
	// RoleChapterHeading is a top-level chapter boundary.
	RoleChapterHeading
	// RoleBlankSeparator is a whitespace-only block kept as a single
	// vertical separator after reflow.
	RoleBlankSeparator
	// RoleFrontMatterTitle marks blocks belonging to the synthesized title page.
	RoleFrontMatterTitle
	// RoleFrontMatterCopyright marks blocks belonging to the copyright page.
	RoleFrontMatterCopyright
	// RoleFrontMatterDedication marks blocks belonging to the dedication page.
	RoleFrontMatterDedication
	// RoleTOCPlaceholder marks blocks belonging to the table-of-contents
	// page, including dynamic field entries resolved by the renderer.
	RoleTOCPlaceholder
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleChapterHeading:
		return "chapter-heading"
	case RoleBlankSeparator:
		return "blank-separator"
	case RoleFrontMatterTitle:
		return "front-matter-title"
	case RoleFrontMatterCopyright:
		return "front-matter-copyright"
	case RoleFrontMatterDedication:
		return "front-matter-dedication"
	case RoleTOCPlaceholder:
		return "toc-placeholder"
	default:
		return "unclassified"
	}
}

// Alignment values follow the OOXML justification vocabulary.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "both"
)

// BreakType identifies an explicit break carried by a run.
type BreakType string

const (
	BreakNone BreakType = ""
	BreakLine BreakType = "line"
	BreakPage BreakType = "page"
)

// Run is an inline text span with local formatting. Emphasis flags are
// preserved verbatim through the pipeline; font family and size are
// rewritten uniformly within a block once the block is classified.
type Run struct {
	Text      string
	Font      string
	Size      float64 // points; 0 means inherit
	Bold      bool
	Italic    bool
	Underline bool

	// Break, when set, means this run is an explicit break rather than
	// a text span.
	Break BreakType

	// HyperlinkID is the relationship ID of the hyperlink this run came
	// from. Consecutive runs sharing an ID are re-wrapped on output so the
	// link survives formatting. Empty for plain runs.
	HyperlinkID string
}

// ParagraphProps holds paragraph-level layout properties.
type ParagraphProps struct {
	StyleID         string // pStyle reference written on output
	Alignment       string
	SpaceBefore     float64 // points
	SpaceAfter      float64 // points
	LineSpacing     float64 // multiplier; 0 means single
	FirstLineIndent float64 // points
	PageBreakBefore bool
}

// FieldSpec is a dynamic field placeholder resolved by the renderer at
// final pagination, never by this engine. Instruction is the OOXML field
// instruction text; Placeholder is the static text shown until the field
// is updated.
type FieldSpec struct {
	Instruction string
	Placeholder string
}

// Block is a paragraph-level unit of the document.
type Block struct {
	Runs  []*Run
	Role  Role
	Props ParagraphProps

	// Source structural metadata resolved from the input document's own
	// style vocabulary. HeadingLevel is 1-9, or 0 for non-headings.
	SourceStyleID   string
	SourceStyleName string
	HeadingLevel    int

	// Anchor is the bookmark name written around this block so dynamic
	// TOC entries can target it. Empty for non-chapter blocks.
	Anchor string

	// Field, when non-nil, appends a dynamic field after the block's runs.
	Field *FieldSpec

	// Images embedded in this block, in run order.
	Images []*EmbeddedImage

	// Raw holds the block's original serialized form for content outside
	// the recognized style vocabulary. Raw blocks pass through unmodified.
	Raw []byte
}

// Text returns the concatenated text of all runs.
func (b *Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		if r.Break != BreakNone {
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsRaw reports whether the block is an opaque passthrough element.
func (b *Block) IsRaw() bool {
	return len(b.Raw) > 0
}

// IsBlank reports whether the block carries no visible content: no
// images, no raw payload, no explicit breaks, and only whitespace text.
// A block holding an explicit page or line break is deliberate layout,
// not blank filler.
func (b *Block) IsBlank() bool {
	if b.IsRaw() || len(b.Images) > 0 || b.Field != nil {
		return false
	}
	for _, r := range b.Runs {
		if r.Break != BreakNone {
			return false
		}
	}
	return strings.TrimSpace(b.Text()) == ""
}
