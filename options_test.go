package bindery

import (
	"strings"
	"testing"

	"github.com/tsawler/bindery/model"
)

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*FormatOptions)
		wantField string
	}{
		{"defaults are valid", func(o *FormatOptions) {}, ""},
		{"unsupported trim size", func(o *FormatOptions) { o.trimSize = "7x10" }, "trim size"},
		{"line spacing too small", func(o *FormatOptions) { o.lineSpacing = 0.9 }, "line spacing"},
		{"line spacing too large", func(o *FormatOptions) { o.lineSpacing = 2.5 }, "line spacing"},
		{"empty body font", func(o *FormatOptions) { o.bodyFont = "" }, "body font"},
		{"zero body size", func(o *FormatOptions) { o.bodySize = 0 }, "body size"},
		{"zero dpi threshold", func(o *FormatOptions) { o.dpiThreshold = 0 }, "dpi threshold"},
		{"negative indent", func(o *FormatOptions) { o.firstLineIndent = -0.1 }, "first line indent"},
		{"margin too large", func(o *FormatOptions) { o.marginTop = 5 }, "page geometry"},
		{"mirrored inside below outside", func(o *FormatOptions) {
			o.printMode = true
			o.marginInside = 0.5
			o.marginOutside = 0.6
		}, "page geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.mutate(&o)
			err := o.validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("validate() = %v, want nil", err)
				}
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("validate() = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
			if !strings.Contains(cfgErr.Error(), "invalid configuration") {
				t.Errorf("Error() = %q, want invalid configuration prefix", cfgErr.Error())
			}
		})
	}
}

func TestGeometryFromOptions(t *testing.T) {
	o := defaultOptions()
	o.trimSize = Trim5x8
	o.printMode = true

	g := o.geometry()
	if g.TrimWidth != model.Inches(5) || g.TrimHeight != model.Inches(8) {
		t.Errorf("trim = %vx%v, want 5x8 inches in points", g.TrimWidth, g.TrimHeight)
	}
	if !g.Mirrored {
		t.Error("print mode must produce mirrored margins")
	}
	if g.Inside != model.Inches(0.85) || g.Outside != model.Inches(0.6) {
		t.Errorf("binding margins = %v/%v, want 0.85/0.6 inches", g.Inside, g.Outside)
	}
}

func TestBaselineFromOptions(t *testing.T) {
	o := defaultOptions()
	b := o.baseline()

	if b.BodyFont != "Georgia" || b.BodySize != 11 {
		t.Errorf("body = %s %vpt, want Georgia 11pt", b.BodyFont, b.BodySize)
	}
	if b.HeadingFont != b.BodyFont {
		t.Error("headings use the body typeface")
	}
	if b.FirstLineIndent != model.Inches(0.25) {
		t.Errorf("first-line indent = %v, want 18pt", b.FirstLineIndent)
	}
	if b.HeadingSpaceBefore != 24 || b.HeadingSpaceAfter != 12 {
		t.Errorf("heading spacing = %v/%v, want 24/12", b.HeadingSpaceBefore, b.HeadingSpaceAfter)
	}
}
