package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// WorkDir is where uploads are staged for PDF conversion.
	WorkDir string `yaml:"work_dir"`

	// MaxUploadBytes caps manuscript upload size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ResultTTL is how long finished jobs stay downloadable.
	ResultTTL time.Duration `yaml:"result_ttl"`

	// UploadsPerMinute limits format requests per client IP.
	UploadsPerMinute int `yaml:"uploads_per_minute"`

	// DPIThreshold is the minimum effective DPI for the image audit.
	DPIThreshold float64 `yaml:"dpi_threshold"`

	// SofficePath is the LibreOffice binary used for PDF conversion.
	SofficePath string `yaml:"soffice_path"`

	// ConvertTimeout bounds a single PDF conversion.
	ConvertTimeout time.Duration `yaml:"convert_timeout"`
}

func defaultConfig() Config {
	return Config{
		Addr:             ":8080",
		WorkDir:          os.TempDir(),
		MaxUploadBytes:   50 * 1024 * 1024,
		ResultTTL:        time.Hour,
		UploadsPerMinute: 10,
		DPIThreshold:     300,
		SofficePath:      "soffice",
		ConvertTimeout:   120 * time.Second,
	}
}

// loadConfig reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
