package ocr

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

// Engine recognizes the text of a single page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// EngineFactory builds an Engine from the OCR configuration.
type EngineFactory func(cfg Config, runner Runner) (Engine, error)

var (
	enginesMu sync.RWMutex
	engines   = map[string]EngineFactory{
		common.EngineTesseract: func(cfg Config, runner Runner) (Engine, error) {
			return NewTesseractEngine(cfg, runner), nil
		},
	}
)

// RegisterEngine makes an engine available by name. Optional engines register
// themselves from init when their build tag is set.
func RegisterEngine(name string, f EngineFactory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[name] = f
}

// NewEngine builds the engine registered under name.
func NewEngine(name string, cfg Config, runner Runner) (Engine, error) {
	enginesMu.RLock()
	f, ok := engines[name]
	enginesMu.RUnlock()
	if !ok {
		return nil, common.ConfigError("ocr engine %q is not available in this build", name)
	}
	return f(cfg, runner)
}

// TesseractEngine runs the tesseract CLI.
type TesseractEngine struct {
	cfg    Config
	runner Runner
}

func NewTesseractEngine(cfg Config, runner Runner) *TesseractEngine {
	return &TesseractEngine{cfg: cfg, runner: runner}
}

func (e *TesseractEngine) Name() string { return common.EngineTesseract }

func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	// tesseract <file> stdout -l <lang>
	args := []string{imagePath, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: tesseract %s: %w: %s", common.ErrOCR, imagePath, err, truncate(string(errb), 512)))
	}
	return string(out), nil
}
