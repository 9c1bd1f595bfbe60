// Command binderyd serves the manuscript formatting pipeline over HTTP:
// upload a DOCX with formatting options, download the print-ready DOCX
// and, when requested, the converted PDF.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	srv := newServer(cfg, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.UploadsPerMinute, time.Minute))
		r.Post("/jobs", srv.handleProcess)
	})
	r.Get("/jobs/{id}", srv.handleResult)
	r.Get("/jobs/{id}/{kind}", srv.handleDownload)

	logger.Info("binderyd listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
