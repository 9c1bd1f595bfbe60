// Package bindery provides a fluent API for formatting DOCX manuscripts
// into print-ready layouts: page geometry and typographic defaults,
// chapter detection and reflow, synthesized front matter with a dynamic
// table of contents, and a print-quality audit of embedded images.
//
// Basic usage:
//
//	out, warnings, err := bindery.Open("manuscript.docx").
//	    Title("The Long Field").
//	    Author("R. Calloway").
//	    Format()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", bindery.FormatWarnings(warnings))
//	}
//
// With options:
//
//	out, warnings, err := bindery.Open("manuscript.docx").
//	    TrimSize(bindery.Trim5x8).
//	    PrintMode(true).
//	    LineSpacing(1.5).
//	    Dedication("For my mother").
//	    Format()
//
// Warnings report images below the print-quality DPI threshold; they are
// advisory and never block formatting.
package bindery

import "fmt"

// Open prepares a Formatter for the given DOCX file. Configuration
// methods return new Formatter instances, so a partially configured
// Formatter can be reused safely.
//
// Example:
//
//	out, warnings, err := bindery.Open("manuscript.docx").Format()
func Open(filename string) *Formatter {
	return &Formatter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares a Formatter for in-memory DOCX bytes. This is the
// entry point used by request-handling layers that receive uploads.
func FromBytes(data []byte) *Formatter {
	return &Formatter{
		source:  data,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings renders a warning list as a multi-line string.
func FormatWarnings(warnings []Warning) string {
	var out string
	for i, w := range warnings {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("- %s", w.Message)
	}
	return out
}
