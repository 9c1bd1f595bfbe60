package convert

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestToPDFToolUnavailable(t *testing.T) {
	c := &Converter{SofficePath: "definitely-not-a-real-binary-9b1c"}

	_, err := c.ToPDF(context.Background(), "in.docx", t.TempDir())
	if !errors.Is(err, ErrToolUnavailable) {
		t.Fatalf("err = %v, want ErrToolUnavailable", err)
	}
}

func TestAvailable(t *testing.T) {
	c := &Converter{SofficePath: "definitely-not-a-real-binary-9b1c"}
	if c.Available() {
		t.Error("Available() = true for a nonexistent binary")
	}
}

func TestConverterDefaults(t *testing.T) {
	c := &Converter{}
	if c.soffice() != "soffice" {
		t.Errorf("soffice() = %q, want soffice", c.soffice())
	}
	if c.timeout() != DefaultTimeout {
		t.Errorf("timeout() = %v, want %v", c.timeout(), DefaultTimeout)
	}

	c.SofficePath = "/opt/libreoffice/soffice"
	c.Timeout = 30 * time.Second
	if c.soffice() != "/opt/libreoffice/soffice" {
		t.Errorf("soffice() = %q, want override", c.soffice())
	}
	if c.timeout() != 30*time.Second {
		t.Errorf("timeout() = %v, want 30s", c.timeout())
	}
}
