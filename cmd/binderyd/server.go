package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/tsawler/bindery"
	"github.com/tsawler/bindery/convert"
	"github.com/tsawler/bindery/format"
)

// Server wires the formatting engine to the upload/download cycle. All
// formatting logic lives in the bindery packages; handlers only move
// bytes and job state.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	results   *cache.Cache
	converter *convert.Converter
}

// jobResult is one finished formatting job, held until its TTL expires.
type jobResult struct {
	ID           string            `json:"id"`
	DocxFilename string            `json:"docx_filename"`
	PDFFilename  string            `json:"pdf_filename,omitempty"`
	PDFError     string            `json:"pdf_error,omitempty"`
	Warnings     []bindery.Warning `json:"dpi_warnings"`

	docx []byte
	pdf  []byte
}

func newServer(cfg Config, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		results: cache.New(cfg.ResultTTL, cfg.ResultTTL),
		converter: &convert.Converter{
			SofficePath: cfg.SofficePath,
			Timeout:     cfg.ConvertTimeout,
			Logger:      logger,
		},
	}
}

// handleProcess accepts a multipart upload, formats it, optionally
// converts to PDF, and returns the job summary. Conversion failure is a
// partial success: the formatted document is still available.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if format.Detect(header.Filename) != format.DOCX {
		s.writeError(w, http.StatusBadRequest, "invalid file type, please upload a .docx file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}

	f := bindery.FromBytes(data).
		Title(formValue(r, "title", "Untitled")).
		Author(formValue(r, "author", "Author Name")).
		Dedication(r.FormValue("dedication")).
		PrintMode(r.FormValue("print_mode") == "on").
		DPIThreshold(s.cfg.DPIThreshold).
		Logger(s.logger)

	if v := r.FormValue("trim_size"); v != "" {
		f = f.TrimSize(bindery.TrimSize(v))
	}
	if v := r.FormValue("line_spacing"); v != "" {
		spacing, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid line_spacing")
			return
		}
		f = f.LineSpacing(spacing)
	}
	if v := r.FormValue("front_matter"); v != "" {
		f = f.FrontMatter(v == "on")
	}

	out, warnings, err := f.Format()
	if err != nil {
		var cfgErr *bindery.ConfigError
		var parseErr *bindery.DocumentParseError
		switch {
		case errors.As(err, &cfgErr):
			s.writeError(w, http.StatusBadRequest, cfgErr.Error())
		case errors.As(err, &parseErr):
			s.writeError(w, http.StatusUnprocessableEntity, parseErr.Error())
		default:
			s.logger.Error("formatting failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "formatting failed")
		}
		return
	}

	id := uuid.NewString()
	base := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	result := &jobResult{
		ID:           id,
		DocxFilename: fmt.Sprintf("FORMATTED_%s_%s.docx", base, id[:8]),
		Warnings:     warnings,
		docx:         out,
	}

	if r.FormValue("generate_pdf") == "on" {
		pdf, err := s.convertToPDF(r.Context(), id, out)
		if err != nil {
			s.logger.Warn("pdf conversion failed", "job", id, "error", err)
			result.PDFError = err.Error()
		} else {
			result.pdf = pdf
			result.PDFFilename = fmt.Sprintf("PRINT_%s_%s.pdf", base, id[:8])
		}
	}

	s.results.Set(id, result, cache.DefaultExpiration)
	s.logger.Info("manuscript formatted",
		"job", id,
		"bytes", len(out),
		"dpi_warnings", len(warnings),
		"pdf", result.PDFFilename != "")

	s.writeJSON(w, http.StatusOK, result)
}

// convertToPDF stages the formatted document on disk and invokes the
// external conversion collaborator.
func (s *Server) convertToPDF(ctx context.Context, id string, docx []byte) ([]byte, error) {
	dir := filepath.Join(s.cfg.WorkDir, "bindery-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("staging conversion: %w", err)
	}
	defer os.RemoveAll(dir)

	docxPath := filepath.Join(dir, "formatted.docx")
	if err := os.WriteFile(docxPath, docx, 0o644); err != nil {
		return nil, fmt.Errorf("staging conversion: %w", err)
	}

	pdfPath, err := s.converter.ToPDF(ctx, docxPath, dir)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(pdfPath)
}

// handleResult returns the job summary as JSON.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no such job")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleDownload streams the formatted DOCX or converted PDF.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(r)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no such job")
		return
	}

	var content []byte
	var filename, contentType string
	switch chi.URLParam(r, "kind") {
	case "docx":
		content = result.docx
		filename = result.DocxFilename
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		content = result.pdf
		filename = result.PDFFilename
		contentType = "application/pdf"
	default:
		s.writeError(w, http.StatusBadRequest, "invalid file type")
		return
	}
	if len(content) == 0 {
		s.writeError(w, http.StatusNotFound, "file not available")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(content)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"pdf_available": s.converter.Available(),
	})
}

func (s *Server) lookup(r *http.Request) (*jobResult, bool) {
	v, ok := s.results.Get(chi.URLParam(r, "id"))
	if !ok {
		return nil, false
	}
	result, ok := v.(*jobResult)
	return result, ok
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}
