package model

// StyleBaseline is the global default styling established by the layout
// normalizer and overridden per-role by the classifier. Sizes and
// distances are in points; LineSpacing is a multiplier.
type StyleBaseline struct {
	BodyFont        string
	BodySize        float64
	LineSpacing     float64
	SpaceAfter      float64
	FirstLineIndent float64

	HeadingFont        string
	HeadingSize        float64
	HeadingSpaceBefore float64
	HeadingSpaceAfter  float64
}

// Document is the root handle the pipeline mutates in place. It owns an
// ordered block sequence, the resolved page geometry, and the style
// baseline for the run. One Document belongs to exactly one pipeline run;
// there is no sharing between jobs.
type Document struct {
	Blocks   []*Block
	Geometry PageGeometry
	Baseline StyleBaseline
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Prepend inserts blocks ahead of all existing content, preserving their
// order. Used by front-matter synthesis.
func (d *Document) Prepend(blocks ...*Block) {
	if len(blocks) == 0 {
		return
	}
	d.Blocks = append(blocks, d.Blocks...)
}

// Images returns every embedded image reachable from the document, in
// document order.
func (d *Document) Images() []*EmbeddedImage {
	var images []*EmbeddedImage
	for _, b := range d.Blocks {
		images = append(images, b.Images...)
	}
	return images
}

// ChapterEntry pairs a chapter heading's title text with its block, for
// consumption by the TOC synthesizer. Entries are transient: they are
// produced by one classification pass and never outlive the document.
type ChapterEntry struct {
	Title string
	Block *Block
}
