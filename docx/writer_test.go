package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/tsawler/bindery/model"
)

// testGeometry is a 6x9 trim with the house margins, mirrored.
func testGeometry() model.PageGeometry {
	return model.PageGeometry{
		TrimWidth:  model.Inches(6),
		TrimHeight: model.Inches(9),
		Top:        model.Inches(1),
		Bottom:     model.Inches(1),
		Inside:     model.Inches(0.85),
		Outside:    model.Inches(0.6),
		Mirrored:   true,
	}
}

func testBaseline() model.StyleBaseline {
	return model.StyleBaseline{
		BodyFont:        "Georgia",
		BodySize:        11,
		LineSpacing:     1.15,
		SpaceAfter:      6,
		FirstLineIndent: model.Inches(0.25),

		HeadingFont:        "Georgia",
		HeadingSize:        18,
		HeadingSpaceBefore: 24,
		HeadingSpaceAfter:  12,
	}
}

// readPart extracts one named part from a DOCX archive.
func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening part %s: %v", name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading part %s: %v", name, err)
		}
		return string(content)
	}
	t.Fatalf("part %s not found in output archive", name)
	return ""
}

func TestWriteSectionProperties(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	for _, want := range []string{
		`<w:pgSz w:w="8640" w:h="12960">`, // 6x9 inches in twips
		`w:top="1440"`,
		`w:bottom="1440"`,
		`w:left="1224"`,  // inside 0.85"
		`w:right="864"`,  // outside 0.6"
		`w:header="720"`, // 0.5"
		`w:gutter="0"`,
		`<w:mirrorMargins`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestWriteNoMirrorWhenNotMirrored(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	g := testGeometry()
	g.Mirrored = false
	pkg.Document.Geometry = g
	pkg.Document.Baseline = testBaseline()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if strings.Contains(readPart(t, out, "word/document.xml"), "mirrorMargins") {
		t.Error("mirrorMargins must not be emitted for single-sided layout")
	}
}

func TestWriteParagraphProperties(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()

	b := pkg.Document.Blocks[0]
	b.Props = model.ParagraphProps{
		StyleID:         "Heading1",
		Alignment:       model.AlignCenter,
		SpaceBefore:     24,
		SpaceAfter:      12,
		FirstLineIndent: 0,
		PageBreakBefore: true,
	}
	b.Runs[0].Font = "Georgia"
	b.Runs[0].Size = 18
	b.Runs[0].Bold = true

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	for _, want := range []string{
		`<w:pStyle w:val="Heading1">`,
		`<w:pageBreakBefore>`,
		`w:before="480"`, // 24pt
		`w:after="240"`,  // 12pt
		`<w:jc w:val="center">`,
		`w:ascii="Georgia"`,
		`<w:sz w:val="36">`,
		`<w:b>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestWriteLineSpacing(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()
	pkg.Document.Blocks[0].Props.LineSpacing = 1.15

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	if !strings.Contains(doc, `w:line="276"`) || !strings.Contains(doc, `w:lineRule="auto"`) {
		t.Error("1.15 line spacing should serialize as line=276 lineRule=auto")
	}
}

func TestWriteRawPassthroughVerbatim(t *testing.T) {
	table := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	pkg, err := Read(buildTestDOCX(t, table, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !strings.Contains(readPart(t, out, "word/document.xml"), table) {
		t.Error("raw table markup should pass through byte-for-byte")
	}
}

func TestWriteBookmarkAndField(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>Chapter One</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Blocks[0].Anchor = "_Chapter1"
	pkg.Document.Prepend(&model.Block{
		Field: &model.FieldSpec{
			Instruction: ` PAGEREF _Chapter1 \h `,
			Placeholder: "1",
		},
	})

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	begin := strings.Index(doc, `<w:fldChar w:fldCharType="begin">`)
	instr := strings.Index(doc, `PAGEREF _Chapter1`)
	sep := strings.Index(doc, `<w:fldChar w:fldCharType="separate">`)
	end := strings.Index(doc, `<w:fldChar w:fldCharType="end">`)
	if begin < 0 || instr < 0 || sep < 0 || end < 0 {
		t.Fatalf("field run sequence incomplete: begin=%d instr=%d sep=%d end=%d", begin, instr, sep, end)
	}
	if !(begin < instr && instr < sep && sep < end) {
		t.Error("field runs out of order")
	}
	if !strings.Contains(doc, `<w:bookmarkStart w:id="0" w:name="_Chapter1">`) {
		t.Error("bookmark start missing for anchored block")
	}
	if !strings.Contains(doc, `<w:bookmarkEnd w:id="0">`) {
		t.Error("bookmark end missing for anchored block")
	}
}

func TestWriteHyperlinkRewrapped(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">see </w:t></w:r>` +
		`<w:hyperlink r:id="rId9"><w:r><w:t>here</w:t></w:r></w:hyperlink>` +
		`<w:r><w:t xml:space="preserve"> now</w:t></w:r></w:p>`
	pkg, err := Read(buildTestDOCX(t, body, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	doc := readPart(t, out, "word/document.xml")
	open := strings.Index(doc, `<w:hyperlink r:id="rId9">`)
	if open < 0 {
		t.Fatal("hyperlink wrapper missing from output")
	}
	closing := strings.Index(doc, `</w:hyperlink>`)
	see := strings.Index(doc, `see `)
	here := strings.Index(doc, `>here<`)
	now := strings.Index(doc, ` now`)
	if see < 0 || here < 0 || now < 0 {
		t.Fatalf("text fragments missing: see=%d here=%d now=%d", see, here, now)
	}
	if !(see < open && open < here && here < closing && closing < now) {
		t.Errorf("hyperlink content out of order: see=%d open=%d here=%d close=%d now=%d",
			see, open, here, closing, now)
	}
}

func TestWriteSpacePreserve(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t xml:space="preserve">ends with space </w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if !strings.Contains(readPart(t, out, "word/document.xml"), `xml:space="preserve"`) {
		t.Error("trailing space requires xml:space=preserve")
	}
}

func TestWriteDeterministic(t *testing.T) {
	data := buildTestDOCX(t, `<w:p><w:r><w:t>same in, same out</w:t></w:r></w:p>`, nil)
	pkg, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()

	first, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("first Bytes() error: %v", err)
	}
	second, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("second Bytes() error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("serializing the same package twice must produce identical bytes")
	}
}

func TestWritePatchesExistingStyles(t *testing.T) {
	styles := stylesPart(
		`<w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:rFonts w:ascii="Comic Sans MS"/></w:rPr></w:style>` +
			`<w:style w:type="table" w:styleId="FancyTable"><w:name w:val="Fancy Table"/></w:style>`)
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`,
		map[string][]byte{"word/styles.xml": styles}))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	got := readPart(t, out, "word/styles.xml")
	if strings.Contains(got, "Comic Sans MS") {
		t.Error("Normal style should be replaced, original font survived")
	}
	if !strings.Contains(got, `w:ascii="Georgia"`) {
		t.Error("patched Normal style should use the baseline font")
	}
	if n := strings.Count(got, `w:styleId="Normal"`); n != 1 {
		t.Errorf("Normal style defined %d times, want 1", n)
	}
	if n := strings.Count(got, `w:styleId="Heading1"`); n != 1 {
		t.Errorf("Heading1 style defined %d times, want 1", n)
	}
	if !strings.Contains(got, `w:styleId="FancyTable"`) {
		t.Error("unrelated styles must survive patching")
	}
}

func TestWriteGeneratesStylesWhenAbsent(t *testing.T) {
	pkg, err := Read(buildTestDOCX(t, `<w:p><w:r><w:t>text</w:t></w:r></w:p>`, nil))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	pkg.Document.Geometry = testGeometry()
	pkg.Document.Baseline = testBaseline()

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}

	got := readPart(t, out, "word/styles.xml")
	if !strings.Contains(got, `w:styleId="Normal"`) || !strings.Contains(got, `w:styleId="Heading1"`) {
		t.Error("generated styles part must define Normal and Heading1")
	}
	ct := readPart(t, out, "[Content_Types].xml")
	if !strings.Contains(ct, "/word/styles.xml") {
		t.Error("content types must declare the generated styles part")
	}
}

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{formatTwips(72), "1440"},
		{formatTwips(0), "0"},
		{formatHalfPoints(11), "22"},
		{formatHalfPoints(18), "36"},
		{formatLineSpacing(1.15), "276"},
		{formatLineSpacing(2.0), "480"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if v := parseTwips("1440"); v != 72 {
		t.Errorf("parseTwips(1440) = %v, want 72", v)
	}
	if v := parseHalfPoints("28"); v != 14 {
		t.Errorf("parseHalfPoints(28) = %v, want 14", v)
	}
	if v := parseEMUInches("914400"); v != 1 {
		t.Errorf("parseEMUInches(914400) = %v, want 1", v)
	}
	if v := parseTwips("bogus"); v != 0 {
		t.Errorf("parseTwips on junk = %v, want 0", v)
	}
}
