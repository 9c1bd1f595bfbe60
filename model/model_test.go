package model

import (
	"strings"
	"testing"
)

func TestPageGeometryValidate(t *testing.T) {
	valid := PageGeometry{
		TrimWidth:  Inches(6),
		TrimHeight: Inches(9),
		Top:        Inches(1),
		Bottom:     Inches(1),
		Inside:     Inches(0.85),
		Outside:    Inches(0.6),
		Mirrored:   true,
	}

	tests := []struct {
		name    string
		mutate  func(*PageGeometry)
		wantErr string
	}{
		{"valid", func(g *PageGeometry) {}, ""},
		{"zero trim", func(g *PageGeometry) { g.TrimWidth = 0 }, "trim size"},
		{"negative margin", func(g *PageGeometry) { g.Top = -1 }, "non-negative"},
		{"margin exceeds half trim", func(g *PageGeometry) { g.Inside = Inches(3) }, "half the trim"},
		{"mirrored inside not larger", func(g *PageGeometry) { g.Inside = Inches(0.5) }, "must exceed outside"},
		{"unmirrored inside may be smaller", func(g *PageGeometry) {
			g.Inside = Inches(0.5)
			g.Mirrored = false
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestInches(t *testing.T) {
	if got := Inches(1); got != 72 {
		t.Errorf("Inches(1) = %v, want 72", got)
	}
	if got := Inches(0.25); got != 18 {
		t.Errorf("Inches(0.25) = %v, want 18", got)
	}
}

func TestBlockText(t *testing.T) {
	b := &Block{Runs: []*Run{
		{Text: "Hello, "},
		{Break: BreakPage},
		{Text: "World"},
	}}
	if got := b.Text(); got != "Hello, World" {
		t.Errorf("Text() = %q, want %q", got, "Hello, World")
	}
}

func TestBlockIsBlank(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  bool
	}{
		{"empty", Block{}, true},
		{"whitespace only", Block{Runs: []*Run{{Text: "  \t "}}}, true},
		{"has text", Block{Runs: []*Run{{Text: "x"}}}, false},
		{"has image", Block{Images: []*EmbeddedImage{{Name: "a.png"}}}, false},
		{"has field", Block{Field: &FieldSpec{Instruction: "TOC"}}, false},
		{"raw", Block{Raw: []byte("<w:tbl/>")}, false},
		{"page break only", Block{Runs: []*Run{{Break: BreakPage}}}, false},
		{"line break only", Block{Runs: []*Run{{Break: BreakLine}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.IsBlank(); got != tt.want {
				t.Errorf("IsBlank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentPrepend(t *testing.T) {
	body := &Block{Runs: []*Run{{Text: "body"}}}
	doc := &Document{Blocks: []*Block{body}}

	a := &Block{Runs: []*Run{{Text: "a"}}}
	b := &Block{Runs: []*Run{{Text: "b"}}}
	doc.Prepend(a, b)

	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0] != a || doc.Blocks[1] != b || doc.Blocks[2] != body {
		t.Error("Prepend must keep argument order ahead of existing blocks")
	}
}

func TestDocumentImages(t *testing.T) {
	img1 := &EmbeddedImage{Name: "one.png"}
	img2 := &EmbeddedImage{Name: "two.png"}
	doc := &Document{Blocks: []*Block{
		{Images: []*EmbeddedImage{img1}},
		{Runs: []*Run{{Text: "no images"}}},
		{Images: []*EmbeddedImage{img2}},
	}}

	images := doc.Images()
	if len(images) != 2 || images[0] != img1 || images[1] != img2 {
		t.Errorf("Images() = %v, want document order [one.png two.png]", images)
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUnclassified, "unclassified"},
		{RoleBody, "body"},
		{RoleChapterHeading, "chapter-heading"},
		{RoleBlankSeparator, "blank-separator"},
		{RoleTOCPlaceholder, "toc-placeholder"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}
