// Package docx provides DOCX (Office Open XML) parsing and serialization
// for the formatting pipeline.
//
// Reading produces a model.Document of paragraph-level blocks plus a
// Package retaining every original archive part. Body elements outside
// the recognized vocabulary (tables, anchored drawings, embedded objects)
// are captured as raw byte ranges of the original word/document.xml and
// written back verbatim, so they pass through unmodified but unexamined.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"os"
	"path"

	// Raster decoders for media part pixel dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/bindery/model"
)

// Package holds a parsed manuscript together with the original archive
// parts it came from. The formatting pipeline mutates Document; Write
// regenerates word/document.xml and word/styles.xml and copies every
// other part through untouched.
type Package struct {
	Document *model.Document

	parts     map[string][]byte
	partOrder []string
	rels      relationshipsXML
	resolver  *StyleResolver
	styleErr  error

	// Original root and body start tags, kept verbatim so every namespace
	// prefix declared by the source document remains valid in raw
	// passthrough content.
	rootTag []byte
	bodyTag []byte
}

// Open reads and parses a DOCX file.
func Open(filename string) (*Package, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return Read(data)
}

// Read parses DOCX bytes.
func Read(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	p := &Package{
		Document: model.NewDocument(),
		parts:    make(map[string][]byte),
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		p.parts[f.Name] = content
		p.partOrder = append(p.partOrder, f.Name)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	// Relationships first: drawings resolve media parts through them.
	p.parseRelationships()
	p.parseStyles()

	if err := p.parseBody(p.parts["word/document.xml"]); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return p, nil
}

// validate checks that required DOCX parts exist.
func (p *Package) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}
	for _, name := range required {
		if _, ok := p.parts[name]; !ok {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// parseRelationships parses the document relationships file. The file is
// optional; documents without media or hyperlinks may omit it.
func (p *Package) parseRelationships() {
	data, ok := p.parts["word/_rels/document.xml.rels"]
	if !ok {
		return
	}
	xml.Unmarshal(data, &p.rels)
}

// parseStyles parses word/styles.xml. Styles are optional: without them
// only built-in heading style IDs are recognized. A malformed styles part
// degrades the same way and is recorded for the caller to report; it is
// never fatal.
func (p *Package) parseStyles() {
	data, ok := p.parts["word/styles.xml"]
	if !ok {
		p.resolver = NewStyleResolver(nil)
		return
	}
	parsed := &stylesXML{}
	if err := xml.Unmarshal(data, parsed); err != nil {
		p.styleErr = fmt.Errorf("unmarshaling styles.xml: %w", err)
		p.resolver = NewStyleResolver(nil)
		return
	}
	p.resolver = NewStyleResolver(parsed)
}

// StyleDegradation reports why style metadata could not be read, or nil.
// Paragraphs still format with built-in style IDs only; custom heading
// styles may be missed.
func (p *Package) StyleDegradation() error {
	return p.styleErr
}

// relTarget returns the target of a relationship ID, or "".
func (p *Package) relTarget(id string) string {
	for _, rel := range p.rels.Relationships {
		if rel.ID == id {
			return rel.Target
		}
	}
	return ""
}

// parseBody walks word/document.xml token by token, decoding paragraphs
// into typed structs and capturing everything else as raw byte ranges.
// Offsets from the decoder slice the original bytes, so passthrough
// content keeps its exact serialized form.
func (p *Package) parseBody(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	inBody := false

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("unmarshaling document.xml: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			if ee, ok := tok.(xml.EndElement); ok && ee.Name.Local == "body" {
				inBody = false
			}
			continue
		}

		if !inBody {
			switch se.Name.Local {
			case "document":
				p.rootTag = append([]byte(nil), data[off:dec.InputOffset()]...)
			case "body":
				p.bodyTag = append([]byte(nil), data[off:dec.InputOffset()]...)
				inBody = true
			default:
				// Anything outside the body (e.g. background) is skipped;
				// the writer emits only the body.
				if err := dec.Skip(); err != nil {
					return fmt.Errorf("unmarshaling document.xml: %w", err)
				}
			}
			continue
		}

		switch se.Name.Local {
		case "p":
			var para paragraphXML
			if err := dec.DecodeElement(&para, &se); err != nil {
				return fmt.Errorf("unmarshaling paragraph: %w", err)
			}
			raw := data[off:dec.InputOffset()]
			p.Document.Blocks = append(p.Document.Blocks, p.buildBlock(&para, raw))

		case "sectPr":
			// Section properties are regenerated from PageGeometry.
			if err := dec.Skip(); err != nil {
				return fmt.Errorf("unmarshaling document.xml: %w", err)
			}

		default:
			// Tables and other constructs pass through verbatim.
			if err := dec.Skip(); err != nil {
				return fmt.Errorf("unmarshaling document.xml: %w", err)
			}
			raw := append([]byte(nil), data[off:dec.InputOffset()]...)
			block := &model.Block{Raw: raw}
			block.Images = p.imagesFromRaw(raw)
			p.Document.Blocks = append(p.Document.Blocks, block)
		}
	}

	if p.rootTag == nil || p.bodyTag == nil {
		return fmt.Errorf("unmarshaling document.xml: no document body found")
	}
	return nil
}

// buildBlock converts a parsed paragraph into a model block. Paragraph
// children are consumed in document order, so text inside hyperlinks
// keeps its position relative to plain text. Paragraphs containing
// drawings keep their raw form so image markup survives serialization
// byte for byte; their images are still parsed for the DPI audit.
func (p *Package) buildBlock(para *paragraphXML, raw []byte) *model.Block {
	b := &model.Block{
		SourceStyleID: para.Properties.Style.Val,
	}
	b.SourceStyleName = p.resolver.StyleName(b.SourceStyleID)
	b.HeadingLevel = p.resolver.HeadingLevel(b.SourceStyleID)

	// A paragraph-level outline level marks a heading even without a style.
	if b.HeadingLevel == 0 && para.Properties.OutlineLvl.Val != "" {
		if lvl := parseOutlineLevel(para.Properties.OutlineLvl.Val); lvl >= 0 {
			b.HeadingLevel = lvl + 1
		}
	}

	b.Props.Alignment = para.Properties.Justification.Val
	b.Props.PageBreakBefore = para.Properties.PageBreak != nil

	hasDrawing := false
	addRun := func(run *runXML, linkID string) {
		for _, mr := range convertRun(run) {
			mr.HyperlinkID = linkID
			b.Runs = append(b.Runs, mr)
		}
		for _, c := range run.Children {
			if c.Drawing == nil {
				continue
			}
			hasDrawing = true
			if img := p.imageFromDrawing(c.Drawing); img != nil {
				b.Images = append(b.Images, img)
			}
		}
	}

	for _, child := range para.Content {
		switch {
		case child.Run != nil:
			addRun(child.Run, "")
		case child.Hyperlink != nil:
			for i := range child.Hyperlink.Runs {
				addRun(&child.Hyperlink.Runs[i], child.Hyperlink.ID)
			}
		}
	}

	if hasDrawing {
		b.Raw = append([]byte(nil), raw...)
	}
	return b
}

// convertRun translates a run element into model runs, preserving the
// document-order position of tabs and breaks: text fragments and tabs
// accumulate into text runs, and each explicit break becomes its own run
// between them.
func convertRun(run *runXML) []*model.Run {
	rp := run.Properties
	base := model.Run{
		Font:      rp.Font.ASCII,
		Size:      parseHalfPoints(rp.FontSize.Val),
		Bold:      rp.Bold.set(),
		Italic:    rp.Italic.set(),
		Underline: rp.Underline.Val != "" && rp.Underline.Val != "none",
	}

	var out []*model.Run
	var text bytes.Buffer
	flush := func() {
		if text.Len() == 0 {
			return
		}
		r := base
		r.Text = text.String()
		out = append(out, &r)
		text.Reset()
	}

	for _, c := range run.Children {
		switch {
		case c.Text != nil:
			text.WriteString(c.Text.Value)
		case c.Tab:
			text.WriteString("\t")
		case c.Break != nil:
			flush()
			r := base
			if c.Break.Type == "page" {
				r.Break = model.BreakPage
			} else {
				r.Break = model.BreakLine
			}
			out = append(out, &r)
		}
	}
	flush()
	return out
}

// imageFromDrawing resolves a drawing to its media part and decodes the
// part's pixel dimensions. Returns nil when the drawing carries no image
// reference.
func (p *Package) imageFromDrawing(d *drawingXML) *model.EmbeddedImage {
	var extent extentXML
	var blip *blipXML
	switch {
	case d.Inline != nil:
		extent, blip = d.Inline.Extent, d.Inline.Blip
	case d.Anchor != nil:
		extent, blip = d.Anchor.Extent, d.Anchor.Blip
	}
	if blip == nil || blip.Embed == "" {
		return nil
	}

	img := &model.EmbeddedImage{
		RelID:         blip.Embed,
		DisplayWidth:  parseEMUInches(extent.CX),
		DisplayHeight: parseEMUInches(extent.CY),
	}

	target := p.relTarget(blip.Embed)
	if target == "" {
		return img
	}
	img.Name = path.Base(target)

	partName := path.Clean(path.Join("word", target))
	if data, ok := p.parts[partName]; ok {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			img.PixelWidth = cfg.Width
			img.PixelHeight = cfg.Height
		}
	}
	return img
}

// imagesFromRaw extracts drawing references from a raw passthrough block
// (for example images inside table cells) so the DPI audit still sees them.
func (p *Package) imagesFromRaw(raw []byte) []*model.EmbeddedImage {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var images []*model.EmbeddedImage
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "drawing" {
			continue
		}
		var d drawingXML
		if err := dec.DecodeElement(&d, &se); err != nil {
			break
		}
		if img := p.imageFromDrawing(&d); img != nil {
			images = append(images, img)
		}
	}
	return images
}
