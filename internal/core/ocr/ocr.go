package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdfinfo   string // binary name or absolute path; if empty -> "pdfinfo"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI, default 300
	TessdataDir   string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	TextLayer  string // "go" (default) | "pdftotext"
	Engine     string // "tesseract" (default) | "gosseract"
	ScratchDir string // parent for page rasters; "" -> os.TempDir()
}

// Extractor produces the two candidate texts of a PDF: its embedded text layer
// and the OCR of its rendered pages.
type Extractor struct {
	cfg        Config
	runner     Runner
	textLayer  TextLayer
	rasterizer Rasterizer
	engine     Engine
	logger     *slog.Logger
}

type Option func(*Extractor)

func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func WithTextLayer(t TextLayer) Option {
	return func(e *Extractor) { e.textLayer = t }
}

func WithRasterizer(r Rasterizer) Option {
	return func(e *Extractor) { e.rasterizer = r }
}

func WithEngine(en Engine) Option {
	return func(e *Extractor) { e.engine = en }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = constants.DefaultTesseractLang
	}
	if cfg.DPI <= 0 {
		cfg.DPI = constants.DefaultOCRDPI
	}
	if cfg.TextLayer == "" {
		cfg.TextLayer = common.TextLayerGo
	}
	if cfg.Engine == "" {
		cfg.Engine = common.EngineTesseract
	}

	e := &Extractor{cfg: cfg, runner: NewExecRunner(logger), logger: logger}
	for _, o := range opts {
		o(e)
	}

	if e.textLayer == nil {
		switch cfg.TextLayer {
		case common.TextLayerGo:
			e.textLayer = GoTextLayer{}
		case common.TextLayerPdftotext:
			e.textLayer = PopplerTextLayer{Bin: cfg.Pdftotext, InfoBin: cfg.Pdfinfo, Runner: e.runner}
		default:
			return nil, common.ConfigError("unknown text layer %q", cfg.TextLayer)
		}
	}
	if e.rasterizer == nil {
		e.rasterizer = PopplerRasterizer{Bin: cfg.Pdftoppm, DPI: cfg.DPI, Runner: e.runner}
	}
	if e.engine == nil {
		en, err := NewEngine(cfg.Engine, cfg, e.runner)
		if err != nil {
			return nil, err
		}
		e.engine = en
	}
	return e, nil
}

// PageCount opens path with the configured text layer and returns its page
// count. Failures wrap common.ErrOpenPDF.
func (e *Extractor) PageCount(ctx context.Context, path string) (int, error) {
	if pc, ok := e.textLayer.(PageCounter); ok {
		return pc.PageCount(ctx, path)
	}
	return CountPages(path)
}

// NativeText returns the embedded text of every page, concatenated in page
// order with no separator.
func (e *Extractor) NativeText(ctx context.Context, path string) (string, error) {
	start := time.Now()
	pages, err := e.textLayer.PageTexts(ctx, path)
	if err != nil {
		return "", err
	}
	text := strings.Join(pages, "")
	e.logger.Debug("native text extracted",
		"path", path,
		"pages", len(pages),
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// OCRText renders every page and runs OCR on each, concatenating the page
// texts in page order with no separator. A failure on any page aborts the call.
func (e *Extractor) OCRText(ctx context.Context, path string) (string, error) {
	start := time.Now()
	tmpDir, err := os.MkdirTemp(e.cfg.ScratchDir, "infofinder-pp-*")
	if err != nil {
		return "", common.CodedError(common.CodeRasterize, fmt.Errorf("%w: scratch dir: %w", common.ErrRasterize, err))
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove scratch dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	images, err := e.rasterizer.Render(ctx, path, tmpDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, img := range images {
		txt, err := e.engine.Recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		b.WriteString(txt)
	}
	e.logger.Debug("ocr text extracted",
		"path", path,
		"engine", e.engine.Name(),
		"pages", len(images),
		"chars", b.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b.String(), nil
}
