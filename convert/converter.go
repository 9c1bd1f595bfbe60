// Package convert invokes the external PDF conversion collaborator. The
// formatting engine never renders PDF itself: a finished DOCX is handed
// to LibreOffice in headless mode, and the produced file is validated
// with pdfcpu before being accepted.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Named conversion failures. Conversion is a bounded, recoverable
// operation: any of these leaves the formatted document intact and is
// surfaced to the caller as a partial success.
var (
	// ErrToolUnavailable indicates the conversion tool is not installed.
	ErrToolUnavailable = errors.New("conversion tool unavailable")
	// ErrTimeout indicates the conversion exceeded its deadline.
	ErrTimeout = errors.New("conversion timed out")
	// ErrInvalidOutput indicates the tool produced no PDF or an
	// unreadable one.
	ErrInvalidOutput = errors.New("conversion produced invalid output")
)

// DefaultTimeout bounds a single conversion run.
const DefaultTimeout = 120 * time.Second

// Converter converts DOCX files to PDF via LibreOffice.
type Converter struct {
	// SofficePath is the LibreOffice binary. Default "soffice".
	SofficePath string
	// Timeout bounds each conversion. Default DefaultTimeout.
	Timeout time.Duration
	// Logger for conversion diagnostics. Default slog.Default().
	Logger *slog.Logger
}

func (c *Converter) soffice() string {
	if c.SofficePath != "" {
		return c.SofficePath
	}
	return "soffice"
}

func (c *Converter) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Available reports whether the conversion tool can be found.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.soffice())
	return err == nil
}

// ToPDF converts docxPath to a PDF in outDir and returns the PDF path.
// The conversion is bounded by the converter's timeout on top of any
// deadline already on ctx; expiry returns ErrTimeout.
func (c *Converter) ToPDF(ctx context.Context, docxPath, outDir string) (string, error) {
	if _, err := exec.LookPath(c.soffice()); err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrToolUnavailable, c.soffice())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	absDocx, err := filepath.Abs(docxPath)
	if err != nil {
		return "", err
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, c.soffice(),
		"--headless",
		"--convert-to", "pdf",
		"--outdir", absOut,
		absDocx,
	)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout())
	}
	if err != nil {
		c.logger().Error("pdf conversion failed",
			"error", err,
			"output", strings.TrimSpace(string(output)))
		return "", fmt.Errorf("running %s: %w", c.soffice(), err)
	}

	base := strings.TrimSuffix(filepath.Base(absDocx), filepath.Ext(absDocx))
	pdfPath := filepath.Join(absOut, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: no PDF written to %s", ErrInvalidOutput, absOut)
	}

	if err := api.ValidateFile(pdfPath, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	return pdfPath, nil
}
