package bindery

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/bindery/docx"
	"github.com/tsawler/bindery/dpi"
	"github.com/tsawler/bindery/format"
	"github.com/tsawler/bindery/frontmatter"
	"github.com/tsawler/bindery/layout"
)

// Warning reports an image that failed the print-quality audit. Warnings
// are advisory: they are always returned alongside the formatted
// document and never block completion.
type Warning = dpi.Warning

// Formatter provides a fluent interface for formatting a manuscript.
// Each configuration method returns a new Formatter instance, making it
// safe for concurrent use and allowing method chaining. Each terminal
// operation runs one complete pipeline over its own document; nothing is
// shared between runs.
type Formatter struct {
	// Source (exactly one is set)
	filename string
	source   []byte

	options FormatOptions
	logger  *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

// log returns the configured logger, defaulting to slog.Default().
func (f *Formatter) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.Default()
}

// clone creates a copy of the Formatter with copied options.
func (f *Formatter) clone() *Formatter {
	return &Formatter{
		filename: f.filename,
		source:   f.source,
		options:  f.options.clone(),
		logger:   f.logger,
		err:      f.err,
	}
}

// TrimSize selects the finished page size.
func (f *Formatter) TrimSize(size TrimSize) *Formatter {
	n := f.clone()
	n.options.trimSize = size
	return n
}

// PrintMode enables mirrored margins for bound, double-sided output. The
// binding-side margin always receives the larger allowance.
func (f *Formatter) PrintMode(on bool) *Formatter {
	n := f.clone()
	n.options.printMode = on
	return n
}

// LineSpacing sets the body line-spacing multiplier.
func (f *Formatter) LineSpacing(multiplier float64) *Formatter {
	n := f.clone()
	n.options.lineSpacing = multiplier
	return n
}

// Margins overrides the default margins, in inches, in the order top,
// bottom, inside, outside.
func (f *Formatter) Margins(top, bottom, inside, outside float64) *Formatter {
	n := f.clone()
	n.options.marginTop = top
	n.options.marginBottom = bottom
	n.options.marginInside = inside
	n.options.marginOutside = outside
	return n
}

// BodyFont sets the typeface applied to body text and headings.
func (f *Formatter) BodyFont(name string) *Formatter {
	n := f.clone()
	n.options.bodyFont = name
	return n
}

// DPIThreshold sets the minimum effective DPI for the image audit.
func (f *Formatter) DPIThreshold(threshold float64) *Formatter {
	n := f.clone()
	n.options.dpiThreshold = threshold
	return n
}

// FrontMatter controls whether title, copyright, dedication, and TOC
// pages are synthesized. Enabled by default.
func (f *Formatter) FrontMatter(on bool) *Formatter {
	n := f.clone()
	n.options.frontMatter = on
	return n
}

// Title sets the book title used on the title and copyright pages.
func (f *Formatter) Title(title string) *Formatter {
	n := f.clone()
	n.options.title = title
	return n
}

// Author sets the author name used on the title and copyright pages.
func (f *Formatter) Author(author string) *Formatter {
	n := f.clone()
	n.options.author = author
	return n
}

// Dedication sets the dedication text. When empty, no dedication page is
// synthesized.
func (f *Formatter) Dedication(text string) *Formatter {
	n := f.clone()
	n.options.dedication = text
	return n
}

// Logger sets the logger used for recoverable conditions such as style
// degradation. Defaults to slog.Default().
func (f *Formatter) Logger(logger *slog.Logger) *Formatter {
	n := f.clone()
	n.logger = logger
	return n
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Format runs the formatting pipeline and returns the formatted DOCX
// bytes plus the image audit warnings.
//
// The pipeline validates configuration before touching the document, then
// runs normalization, classification and reflow, front-matter and TOC
// synthesis, and finally the DPI audit over the assembled document.
// Warnings are advisory; a nil error means the document was formatted.
func (f *Formatter) Format() ([]byte, []Warning, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	if err := f.options.validate(); err != nil {
		return nil, nil, err
	}

	data, err := f.sourceBytes()
	if err != nil {
		return nil, nil, err
	}
	if format.DetectBytes(data) != format.DOCX {
		return nil, nil, &DocumentParseError{Err: fmt.Errorf("input is not a DOCX document")}
	}

	pkg, err := docx.Read(data)
	if err != nil {
		return nil, nil, &DocumentParseError{Err: err}
	}
	if degraded := pkg.StyleDegradation(); degraded != nil {
		f.log().Warn("style metadata unreadable, custom heading styles may be missed",
			"error", degraded)
	}
	doc := pkg.Document

	layout.Normalize(doc, f.options.geometry(), f.options.baseline())
	entries := layout.ClassifyAndReflow(doc)

	if f.options.frontMatter {
		frontmatter.Synthesize(doc, frontmatter.Config{
			Title:      f.options.title,
			Author:     f.options.author,
			Dedication: f.options.dedication,
			Entries:    entries,
		})
	}

	warnings := dpi.Audit(doc, f.options.dpiThreshold)

	out, err := pkg.Bytes()
	if err != nil {
		return nil, warnings, fmt.Errorf("serializing document: %w", err)
	}
	return out, warnings, nil
}

// WriteFile runs the pipeline and writes the formatted document to path.
func (f *Formatter) WriteFile(path string) ([]Warning, error) {
	out, warnings, err := f.Format()
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return warnings, fmt.Errorf("writing %s: %w", path, err)
	}
	return warnings, nil
}

// sourceBytes loads the input document.
func (f *Formatter) sourceBytes() ([]byte, error) {
	if f.source != nil {
		return f.source, nil
	}
	if f.filename == "" {
		return nil, fmt.Errorf("no input specified")
	}
	data, err := os.ReadFile(f.filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.filename, err)
	}
	return data, nil
}
