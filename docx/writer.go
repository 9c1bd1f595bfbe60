package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/bindery/model"
)

// Bytes serializes the package back into a DOCX archive. The body and
// styles are regenerated from the document model; every other archive
// part is copied through verbatim. Zip entry metadata is fixed so the
// same input and configuration always produce identical output bytes.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the package to a file.
func (p *Package) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write serializes the package to w.
func (p *Package) Write(w io.Writer) error {
	docXML, err := p.marshalDocument()
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	overrides := map[string][]byte{
		"word/document.xml": docXML,
	}

	styles, hadStyles := p.parts["word/styles.xml"]
	patched, err := patchStyles(styles, p.Document.Baseline)
	if err != nil {
		return fmt.Errorf("serializing styles: %w", err)
	}
	overrides["word/styles.xml"] = patched
	if !hadStyles {
		overrides["[Content_Types].xml"] = ensureStylesContentType(p.parts["[Content_Types].xml"])
	}

	zw := zip.NewWriter(w)
	written := make(map[string]bool)

	writePart := func(name string, content []byte) error {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		pw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("writing part %s: %w", name, err)
		}
		if _, err := pw.Write(content); err != nil {
			return fmt.Errorf("writing part %s: %w", name, err)
		}
		written[name] = true
		return nil
	}

	for _, name := range p.partOrder {
		content := p.parts[name]
		if o, ok := overrides[name]; ok {
			content = o
		}
		if err := writePart(name, content); err != nil {
			return err
		}
	}
	if !written["word/styles.xml"] {
		if err := writePart("word/styles.xml", overrides["word/styles.xml"]); err != nil {
			return err
		}
	}

	return zw.Close()
}

// ============================================================================
// Body serialization
// ============================================================================

// Output structs mirror the reader's typed XML but carry explicit w:
// prefixes so the marshaled markup matches what Word emits.

type paraOut struct {
	XMLName       xml.Name `xml:"w:p"`
	Props         *pPrOut
	BookmarkStart *bookmarkStartOut
	Content       []any // *runOut and *hyperlinkOut in document order
	BookmarkEnd   *bookmarkEndOut
}

type hyperlinkOut struct {
	XMLName xml.Name `xml:"w:hyperlink"`
	ID      string   `xml:"r:id,attr"`
	Runs    []runOut
}

type pPrOut struct {
	XMLName         xml.Name    `xml:"w:pPr"`
	Style           *valAttrOut `xml:"w:pStyle"`
	PageBreakBefore *emptyOut   `xml:"w:pageBreakBefore"`
	Spacing         *spacingOut `xml:"w:spacing"`
	Indent          *indOut     `xml:"w:ind"`
	Justify         *valAttrOut `xml:"w:jc"`
}

type valAttrOut struct {
	Val string `xml:"w:val,attr"`
}

type emptyOut struct{}

type spacingOut struct {
	Before   string `xml:"w:before,attr,omitempty"`
	After    string `xml:"w:after,attr"`
	Line     string `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

type indOut struct {
	FirstLine string `xml:"w:firstLine,attr"`
}

type bookmarkStartOut struct {
	XMLName xml.Name `xml:"w:bookmarkStart"`
	ID      int      `xml:"w:id,attr"`
	Name    string   `xml:"w:name,attr"`
}

type bookmarkEndOut struct {
	XMLName xml.Name `xml:"w:bookmarkEnd"`
	ID      int      `xml:"w:id,attr"`
}

type runOut struct {
	XMLName   xml.Name `xml:"w:r"`
	Props     *rPrOut
	FldChar   *fldCharOut
	InstrText *instrTextOut
	Break     *brOut
	Text      *textOut
}

type rPrOut struct {
	XMLName   xml.Name    `xml:"w:rPr"`
	Fonts     *fontsOut   `xml:"w:rFonts"`
	Bold      *emptyOut   `xml:"w:b"`
	Italic    *emptyOut   `xml:"w:i"`
	Underline *valAttrOut `xml:"w:u"`
	Size      *valAttrOut `xml:"w:sz"`
	SizeCS    *valAttrOut `xml:"w:szCs"`
}

type fontsOut struct {
	XMLName xml.Name `xml:"w:rFonts"`
	ASCII   string   `xml:"w:ascii,attr"`
	HAnsi   string   `xml:"w:hAnsi,attr"`
}

type fldCharOut struct {
	XMLName xml.Name `xml:"w:fldChar"`
	Type    string   `xml:"w:fldCharType,attr"`
}

type instrTextOut struct {
	XMLName xml.Name `xml:"w:instrText"`
	Space   string   `xml:"xml:space,attr"`
	Value   string   `xml:",chardata"`
}

type brOut struct {
	XMLName xml.Name `xml:"w:br"`
	Type    string   `xml:"w:type,attr,omitempty"`
}

type textOut struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type sectPrOut struct {
	XMLName xml.Name  `xml:"w:sectPr"`
	PgSz    pgSzOut   `xml:"w:pgSz"`
	PgMar   pgMarOut  `xml:"w:pgMar"`
	Mirror  *emptyOut `xml:"w:mirrorMargins"`
}

type pgSzOut struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type pgMarOut struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
	Header string `xml:"w:header,attr"`
	Footer string `xml:"w:footer,attr"`
	Gutter string `xml:"w:gutter,attr"`
}

// defaultRootTag declares the namespaces the writer emits itself. It is
// only used when the source document did not provide a root tag (never
// the case for archives that passed parsing).
const defaultRootTag = `<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWP + `" xmlns:a="` + nsA + `" xmlns:pic="` + nsPic + `">`

// marshalDocument regenerates word/document.xml. The original root tag is
// reused verbatim so namespace prefixes referenced by raw passthrough
// blocks stay declared.
func (p *Package) marshalDocument() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if len(p.rootTag) > 0 {
		buf.Write(p.rootTag)
	} else {
		buf.WriteString(defaultRootTag)
	}
	if len(p.bodyTag) > 0 {
		buf.Write(p.bodyTag)
	} else {
		buf.WriteString("<w:body>")
	}

	bookmarkID := 0
	for _, b := range p.Document.Blocks {
		if b.IsRaw() {
			buf.Write(b.Raw)
			continue
		}
		para := buildParaOut(b, &bookmarkID)
		chunk, err := xml.Marshal(para)
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}

	sect, err := xml.Marshal(buildSectPrOut(p.Document.Geometry))
	if err != nil {
		return nil, err
	}
	buf.Write(sect)

	buf.WriteString("</w:body></w:document>")
	return buf.Bytes(), nil
}

func buildParaOut(b *model.Block, bookmarkID *int) *paraOut {
	para := &paraOut{
		Props: buildPPrOut(b),
	}

	if b.Anchor != "" {
		id := *bookmarkID
		*bookmarkID++
		para.BookmarkStart = &bookmarkStartOut{ID: id, Name: b.Anchor}
		para.BookmarkEnd = &bookmarkEndOut{ID: id}
	}

	// Consecutive runs from the same hyperlink are re-wrapped so the link
	// relationship survives; the rels part passes through untouched.
	var link *hyperlinkOut
	for _, r := range b.Runs {
		out := buildRunOut(r)
		if r.HyperlinkID == "" {
			link = nil
			ro := out
			para.Content = append(para.Content, &ro)
			continue
		}
		if link == nil || link.ID != r.HyperlinkID {
			link = &hyperlinkOut{ID: r.HyperlinkID}
			para.Content = append(para.Content, link)
		}
		link.Runs = append(link.Runs, out)
	}
	if b.Field != nil {
		for _, fr := range buildFieldRuns(b.Field) {
			ro := fr
			para.Content = append(para.Content, &ro)
		}
	}
	return para
}

func buildPPrOut(b *model.Block) *pPrOut {
	props := b.Props
	ppr := &pPrOut{
		Spacing: &spacingOut{
			After: formatTwips(props.SpaceAfter),
		},
		Indent: &indOut{FirstLine: formatTwips(props.FirstLineIndent)},
	}
	if props.StyleID != "" {
		ppr.Style = &valAttrOut{Val: props.StyleID}
	}
	if props.PageBreakBefore {
		ppr.PageBreakBefore = &emptyOut{}
	}
	if props.SpaceBefore > 0 {
		ppr.Spacing.Before = formatTwips(props.SpaceBefore)
	}
	if props.LineSpacing > 0 {
		ppr.Spacing.Line = formatLineSpacing(props.LineSpacing)
		ppr.Spacing.LineRule = "auto"
	}
	if props.Alignment != "" {
		ppr.Justify = &valAttrOut{Val: props.Alignment}
	}
	return ppr
}

func buildRunOut(r *model.Run) runOut {
	out := runOut{Props: buildRPrOut(r)}
	switch r.Break {
	case model.BreakPage:
		out.Break = &brOut{Type: "page"}
	case model.BreakLine:
		out.Break = &brOut{}
	default:
		t := &textOut{Value: r.Text}
		if needsSpacePreserve(r.Text) {
			t.Space = "preserve"
		}
		out.Text = t
	}
	return out
}

func buildRPrOut(r *model.Run) *rPrOut {
	rpr := &rPrOut{}
	empty := true
	if r.Font != "" {
		rpr.Fonts = &fontsOut{ASCII: r.Font, HAnsi: r.Font}
		empty = false
	}
	if r.Bold {
		rpr.Bold = &emptyOut{}
		empty = false
	}
	if r.Italic {
		rpr.Italic = &emptyOut{}
		empty = false
	}
	if r.Underline {
		rpr.Underline = &valAttrOut{Val: "single"}
		empty = false
	}
	if r.Size > 0 {
		sz := formatHalfPoints(r.Size)
		rpr.Size = &valAttrOut{Val: sz}
		rpr.SizeCS = &valAttrOut{Val: sz}
		empty = false
	}
	if empty {
		return nil
	}
	return rpr
}

// buildFieldRuns emits the dynamic-field run sequence: begin, instruction,
// separate, static placeholder, end. The field resolves at render time;
// no page number is ever computed here.
func buildFieldRuns(f *model.FieldSpec) []runOut {
	runs := []runOut{
		{FldChar: &fldCharOut{Type: "begin"}},
		{InstrText: &instrTextOut{Space: "preserve", Value: f.Instruction}},
		{FldChar: &fldCharOut{Type: "separate"}},
	}
	if f.Placeholder != "" {
		runs = append(runs, buildRunOut(&model.Run{
			Text:   f.Placeholder,
			Italic: true,
			Size:   10,
		}))
	}
	runs = append(runs, runOut{FldChar: &fldCharOut{Type: "end"}})
	return runs
}

func buildSectPrOut(g model.PageGeometry) *sectPrOut {
	sect := &sectPrOut{
		PgSz: pgSzOut{
			W: formatTwips(g.TrimWidth),
			H: formatTwips(g.TrimHeight),
		},
		PgMar: pgMarOut{
			Top:    formatTwips(g.Top),
			Right:  formatTwips(g.Outside),
			Bottom: formatTwips(g.Bottom),
			Left:   formatTwips(g.Inside),
			Header: formatTwips(model.Inches(0.5)),
			Footer: formatTwips(model.Inches(0.5)),
			Gutter: "0",
		},
	}
	if g.Mirrored {
		sect.Mirror = &emptyOut{}
	}
	return sect
}

// needsSpacePreserve reports whether text has leading or trailing
// whitespace that xml:space="preserve" must protect.
func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == ' ' || first == '\t' || last == ' ' || last == '\t'
}
