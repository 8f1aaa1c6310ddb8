package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/infofinder/constants"
)

// Config holds all application configuration
type Config struct {
	Search SearchConfig
	PDF    PDFConfig
	OCR    OCRConfig
	Pool   PoolConfig
	Log    LogConfig
}

// SearchConfig holds the term list configuration
type SearchConfig struct {
	TermsFile string
	Terms     []string
}

// PDFConfig holds PDF reconcile configuration
type PDFConfig struct {
	SimilarityThreshold float64
	Iterations          int
	StageIterations     bool   // keep per-iteration artifacts on disk until the call ends
	TextLayer           string // "go" | "pdftotext"
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine      string // "tesseract" | "gosseract"
	DPI         int
	Lang        string
	TessdataDir string
	PSM         int // tesseract --psm; 0 keeps tesseract's default
	OEM         int // tesseract --oem; 0 keeps tesseract's default
	Pdftotext   string
	Pdfinfo     string
	Pdftoppm    string
	Tesseract   string
}

// PoolConfig holds worker pool configuration
type PoolConfig struct {
	Workers     int
	TaskTimeout time.Duration // 0 = no timeout
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Accepted backend names.
const (
	TextLayerGo        = "go"
	TextLayerPdftotext = "pdftotext"
	EngineTesseract    = "tesseract"
	EngineGosseract    = "gosseract"
)

// DefaultWorkers mirrors the usual sizing for I/O-bound pools: min(32, NumCPU+4).
func DefaultWorkers() int {
	return min(32, runtime.NumCPU()+4)
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return WrapError(err, "load "+path)
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Search: SearchConfig{
			TermsFile: getEnv("INFOFINDER_TERMS_FILE", ""),
		},
		PDF: PDFConfig{
			SimilarityThreshold: getEnvAsFloat64("INFOFINDER_SIMILARITY_THRESHOLD", constants.DefaultSimilarityThreshold),
			Iterations:          getEnvAsInt("INFOFINDER_PDF_ITERATIONS", constants.DefaultPDFIterations),
			StageIterations:     getEnvAsBool("INFOFINDER_STAGE_ITERATIONS", true),
			TextLayer:           getEnv("INFOFINDER_TEXT_LAYER", TextLayerGo),
		},
		OCR: OCRConfig{
			Engine:      getEnv("INFOFINDER_OCR_ENGINE", EngineTesseract),
			DPI:         getEnvAsInt("INFOFINDER_OCR_DPI", constants.DefaultOCRDPI),
			Lang:        getEnv("TESSERACT_LANG", constants.DefaultTesseractLang),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			PSM:         getEnvAsInt("TESSERACT_PSM", 0),
			OEM:         getEnvAsInt("TESSERACT_OEM", 0),
			Pdftotext:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdfinfo:     getEnv("PDFINFO_BIN", "pdfinfo"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
		},
		Pool: PoolConfig{
			Workers:     getEnvAsInt("INFOFINDER_WORKERS", DefaultWorkers()),
			TaskTimeout: getEnvAsDuration("INFOFINDER_TASK_TIMEOUT", 0),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ParseLogLevel maps a level name to a slog.Level; unknown names map to info.
func ParseLogLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("similarity_threshold", c.PDF.SimilarityThreshold, FloatBetween(0, 1)).
		Field("pdf_iterations", c.PDF.Iterations, IntAtLeast(1)).
		Field("text_layer", c.PDF.TextLayer, OneOf(TextLayerGo, TextLayerPdftotext)).
		Field("ocr_engine", c.OCR.Engine, OneOf(EngineTesseract, EngineGosseract)).
		Field("ocr_dpi", c.OCR.DPI, IntAtLeast(1)).
		Field("tesseract_lang", c.OCR.Lang, Required).
		Field("tesseract_psm", c.OCR.PSM, IntBetween(0, 13)).
		Field("tesseract_oem", c.OCR.OEM, IntBetween(0, 3)).
		Field("workers", c.Pool.Workers, IntAtLeast(1))
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidConfig)
	}
	return nil
}
