package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/tsawler/bindery/model"
)

// patchStyles rewrites word/styles.xml so the Normal and Heading1
// definitions match the style baseline, leaving every other style
// definition byte for byte intact. Paragraphs referencing other named
// styles keep working because the classifier writes explicit direct
// formatting; the two patched styles only anchor the document defaults
// and the TOC field's outline-level lookup.
//
// When the source document has no styles part at all, a complete minimal
// styles.xml is generated instead.
func patchStyles(data []byte, baseline model.StyleBaseline) ([]byte, error) {
	if len(data) == 0 {
		return generateStyles(baseline), nil
	}

	type span struct {
		start, end int64
		replace    string
	}
	var spans []span
	var rootEnd int64 = -1

	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unmarshaling styles.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Local == "style" {
				var styleID string
				for _, attr := range t.Attr {
					if attr.Name.Local == "styleId" {
						styleID = attr.Value
					}
				}
				var replace string
				switch styleID {
				case "Normal":
					replace = normalStyleXML(baseline)
				case "Heading1":
					replace = heading1StyleXML(baseline)
				}
				if replace != "" {
					if err := dec.Skip(); err != nil {
						return nil, fmt.Errorf("unmarshaling styles.xml: %w", err)
					}
					depth--
					spans = append(spans, span{start: off, end: dec.InputOffset(), replace: replace})
				}
			}
		case xml.EndElement:
			depth--
			if depth == 0 && t.Name.Local == "styles" {
				rootEnd = off
			}
		}
	}
	if rootEnd < 0 {
		return nil, fmt.Errorf("unmarshaling styles.xml: no styles root found")
	}

	patchedNormal, patchedHeading := false, false
	var out bytes.Buffer
	var pos int64
	for _, s := range spans {
		out.Write(data[pos:s.start])
		out.WriteString(s.replace)
		pos = s.end
		if s.replace == normalStyleXML(baseline) {
			patchedNormal = true
		} else {
			patchedHeading = true
		}
	}
	out.Write(data[pos:rootEnd])
	if !patchedNormal {
		out.WriteString(normalStyleXML(baseline))
	}
	if !patchedHeading {
		out.WriteString(heading1StyleXML(baseline))
	}
	out.Write(data[rootEnd:])
	return out.Bytes(), nil
}

func normalStyleXML(b model.StyleBaseline) string {
	return fmt.Sprintf(
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal">`+
			`<w:name w:val="Normal"/><w:qFormat/>`+
			`<w:pPr><w:spacing w:after="%s" w:line="%s" w:lineRule="auto"/><w:ind w:firstLine="%s"/></w:pPr>`+
			`<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%s"/><w:szCs w:val="%s"/></w:rPr>`+
			`</w:style>`,
		formatTwips(b.SpaceAfter), formatLineSpacing(b.LineSpacing), formatTwips(b.FirstLineIndent),
		xmlEscape(b.BodyFont), xmlEscape(b.BodyFont),
		formatHalfPoints(b.BodySize), formatHalfPoints(b.BodySize),
	)
}

func heading1StyleXML(b model.StyleBaseline) string {
	return fmt.Sprintf(
		`<w:style w:type="paragraph" w:styleId="Heading1">`+
			`<w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:spacing w:before="%s" w:after="%s"/><w:ind w:firstLine="0"/><w:jc w:val="center"/><w:outlineLvl w:val="0"/></w:pPr>`+
			`<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:b/><w:sz w:val="%s"/><w:szCs w:val="%s"/></w:rPr>`+
			`</w:style>`,
		formatTwips(b.HeadingSpaceBefore), formatTwips(b.HeadingSpaceAfter),
		xmlEscape(b.HeadingFont), xmlEscape(b.HeadingFont),
		formatHalfPoints(b.HeadingSize), formatHalfPoints(b.HeadingSize),
	)
}

func generateStyles(b model.StyleBaseline) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	fmt.Fprintf(&buf,
		`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%s"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		xmlEscape(b.BodyFont), xmlEscape(b.BodyFont), formatHalfPoints(b.BodySize))
	buf.WriteString(normalStyleXML(b))
	buf.WriteString(heading1StyleXML(b))
	buf.WriteString(`</w:styles>`)
	return buf.Bytes()
}

// ensureStylesContentType adds the styles.xml override to
// [Content_Types].xml when the source archive lacked a styles part.
func ensureStylesContentType(data []byte) []byte {
	const override = `<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`
	if bytes.Contains(data, []byte(`PartName="/word/styles.xml"`)) {
		return data
	}
	idx := bytes.LastIndex(data, []byte("</Types>"))
	if idx < 0 {
		return data
	}
	var out bytes.Buffer
	out.Write(data[:idx])
	out.WriteString(override)
	out.Write(data[idx:])
	return out.Bytes()
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
