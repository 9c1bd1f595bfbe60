package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func testServer() (*Server, chi.Router) {
	cfg := defaultConfig()
	cfg.SofficePath = "definitely-not-a-real-binary-9b1c"
	cfg.ResultTTL = time.Minute

	srv := newServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Post("/jobs", srv.handleProcess)
	r.Get("/jobs/{id}", srv.handleResult)
	r.Get("/jobs/{id}/{kind}", srv.handleDownload)
	r.Get("/healthz", srv.handleHealth)
	return srv, r
}

func manuscriptUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`))
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Chapter One</w:t></w:r></w:p>
<w:p><w:r><w:t>Some prose.</w:t></w:r></w:p>
</w:body></w:document>`))
	zw.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	fw.Write(zbuf.Bytes())
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestHandleProcess(t *testing.T) {
	_, r := testServer()

	body, contentType := manuscriptUpload(t, "book.docx", map[string]string{
		"title":  "The Long Field",
		"author": "R. Calloway",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result jobResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.ID == "" {
		t.Error("response missing job ID")
	}
	if result.DocxFilename == "" {
		t.Error("response missing formatted filename")
	}
	if result.PDFFilename != "" {
		t.Error("PDF filename set without generate_pdf")
	}

	// The formatted document is downloadable.
	dl := httptest.NewRequest(http.MethodGet, "/jobs/"+result.ID+"/docx", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, dl)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Errorf("download content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty download body")
	}
}

func TestHandleProcessPDFUnavailableIsPartialSuccess(t *testing.T) {
	_, r := testServer()

	body, contentType := manuscriptUpload(t, "book.docx", map[string]string{
		"generate_pdf": "on",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want partial success, body = %s", rec.Code, rec.Body.String())
	}
	var result jobResult
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.PDFError == "" {
		t.Error("expected a PDF error with the conversion tool missing")
	}
	if result.DocxFilename == "" {
		t.Error("formatted document must survive a failed conversion")
	}
}

func TestHandleProcessRejectsWrongExtension(t *testing.T) {
	_, r := testServer()

	body, contentType := manuscriptUpload(t, "book.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProcessRejectsBadConfig(t *testing.T) {
	_, r := testServer()

	body, contentType := manuscriptUpload(t, "book.docx", map[string]string{
		"line_spacing": "3.5",
	})
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleResultUnknownJob(t *testing.T) {
	_, r := testServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs/no-such-job", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	_, r := testServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding health payload: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %v", payload["status"])
	}
	if avail, ok := payload["pdf_available"].(bool); !ok || avail {
		t.Errorf("pdf_available = %v, want false with the tool missing", payload["pdf_available"])
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DPIThreshold != 300 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if _, err := loadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config path")
	}
}
