package common

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
)

var configEnv = []string{
	"INFOFINDER_TERMS_FILE",
	"INFOFINDER_SIMILARITY_THRESHOLD",
	"INFOFINDER_PDF_ITERATIONS",
	"INFOFINDER_STAGE_ITERATIONS",
	"INFOFINDER_TEXT_LAYER",
	"INFOFINDER_OCR_ENGINE",
	"INFOFINDER_OCR_DPI",
	"INFOFINDER_WORKERS",
	"INFOFINDER_TASK_TIMEOUT",
	"TESSERACT_LANG",
	"TESSDATA_PREFIX",
	"TESSERACT_PSM",
	"TESSERACT_OEM",
	"PDFTOTEXT_BIN",
	"PDFINFO_BIN",
	"PDFTOPPM_BIN",
	"TESSERACT_BIN",
	"LOG_LEVEL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg := LoadConfig()

	if cfg.PDF.SimilarityThreshold != constants.DefaultSimilarityThreshold {
		t.Errorf("threshold = %v", cfg.PDF.SimilarityThreshold)
	}
	if cfg.PDF.Iterations != 2 || !cfg.PDF.StageIterations || cfg.PDF.TextLayer != TextLayerGo {
		t.Errorf("pdf = %+v", cfg.PDF)
	}
	if cfg.OCR.Engine != EngineTesseract || cfg.OCR.DPI != 300 || cfg.OCR.Lang != "eng" || cfg.OCR.Tesseract != "tesseract" {
		t.Errorf("ocr = %+v", cfg.OCR)
	}
	if cfg.OCR.PSM != 0 || cfg.OCR.OEM != 0 || cfg.OCR.Pdfinfo != "pdfinfo" {
		t.Errorf("ocr = %+v", cfg.OCR)
	}
	if cfg.Pool.Workers != DefaultWorkers() || cfg.Pool.TaskTimeout != 0 {
		t.Errorf("pool = %+v", cfg.Pool)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("INFOFINDER_SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("INFOFINDER_PDF_ITERATIONS", "3")
	t.Setenv("INFOFINDER_STAGE_ITERATIONS", "false")
	t.Setenv("INFOFINDER_TEXT_LAYER", "pdftotext")
	t.Setenv("INFOFINDER_WORKERS", "5")
	t.Setenv("INFOFINDER_TASK_TIMEOUT", "90s")
	t.Setenv("TESSERACT_LANG", "eng+fra")
	t.Setenv("TESSERACT_PSM", "6")
	t.Setenv("TESSERACT_OEM", "1")
	t.Setenv("PDFINFO_BIN", "/usr/local/bin/pdfinfo")
	t.Setenv("INFOFINDER_OCR_DPI", "not-a-number") // ignored

	cfg := LoadConfig()
	if cfg.PDF.SimilarityThreshold != 0.75 || cfg.PDF.Iterations != 3 || cfg.PDF.StageIterations {
		t.Errorf("pdf = %+v", cfg.PDF)
	}
	if cfg.PDF.TextLayer != TextLayerPdftotext {
		t.Errorf("text layer = %q", cfg.PDF.TextLayer)
	}
	if cfg.Pool.Workers != 5 || cfg.Pool.TaskTimeout != 90*time.Second {
		t.Errorf("pool = %+v", cfg.Pool)
	}
	if cfg.OCR.Lang != "eng+fra" || cfg.OCR.DPI != constants.DefaultOCRDPI {
		t.Errorf("ocr = %+v", cfg.OCR)
	}
	if cfg.OCR.PSM != 6 || cfg.OCR.OEM != 1 || cfg.OCR.Pdfinfo != "/usr/local/bin/pdfinfo" {
		t.Errorf("ocr = %+v", cfg.OCR)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("env config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	clearConfigEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero iterations", func(c *Config) { c.PDF.Iterations = 0 }, "pdf_iterations"},
		{"threshold above one", func(c *Config) { c.PDF.SimilarityThreshold = 1.5 }, "similarity_threshold"},
		{"negative threshold", func(c *Config) { c.PDF.SimilarityThreshold = -0.1 }, "similarity_threshold"},
		{"unknown engine", func(c *Config) { c.OCR.Engine = "easyocr" }, "ocr_engine"},
		{"unknown text layer", func(c *Config) { c.PDF.TextLayer = "mupdf" }, "text_layer"},
		{"no workers", func(c *Config) { c.Pool.Workers = 0 }, "workers"},
		{"blank lang", func(c *Config) { c.OCR.Lang = " " }, "tesseract_lang"},
		{"psm out of range", func(c *Config) { c.OCR.PSM = 14 }, "tesseract_psm"},
		{"negative oem", func(c *Config) { c.OCR.OEM = -1 }, "tesseract_oem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if CodeOf(err) != CodeConfig {
				t.Fatalf("code = %q", CodeOf(err))
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("error %q does not name %s", err, tt.field)
			}
		})
	}

	cfg := LoadConfig()
	cfg.PDF.SimilarityThreshold = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("threshold 1 is valid: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("INFOFINDER_PDF_ITERATIONS=4\nLOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INFOFINDER_PDF_ITERATIONS", "")
	os.Unsetenv("INFOFINDER_PDF_ITERATIONS")
	t.Setenv("LOG_LEVEL", "warn") // already set: not overridden

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("INFOFINDER_PDF_ITERATIONS"); got != "4" {
		t.Errorf("INFOFINDER_PDF_ITERATIONS = %q", got)
	}
	if got := os.Getenv("LOG_LEVEL"); got != "warn" {
		t.Errorf("LOG_LEVEL = %q, existing value must win", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
