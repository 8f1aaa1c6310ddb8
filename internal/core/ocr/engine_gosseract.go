//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

func init() {
	RegisterEngine(common.EngineGosseract, func(cfg Config, _ Runner) (Engine, error) {
		return NewGosseractEngine(cfg), nil
	})
}

// GosseractEngine runs Tesseract in-process through libtesseract.
type GosseractEngine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

func NewGosseractEngine(cfg Config) *GosseractEngine {
	return &GosseractEngine{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (e *GosseractEngine) Name() string { return common.EngineGosseract }

// Recognize uses a fresh client per page; clients are not safe for concurrent use.
func (e *GosseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := e.clientFactory()
	defer c.Close()

	if e.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: set tessdata prefix: %w", common.ErrOCR, err))
		}
	}
	if err := c.SetLanguage(e.cfg.TesseractLang); err != nil {
		return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: set language: %w", common.ErrOCR, err))
	}
	if e.cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.cfg.PSM)); err != nil {
			return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: set psm: %w", common.ErrOCR, err))
		}
	}
	if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.cfg.DPI)); err != nil {
		return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: set dpi: %w", common.ErrOCR, err))
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: set image %s: %w", common.ErrOCR, imagePath, err))
	}
	text, err := c.Text()
	if err != nil {
		return "", common.CodedError(common.CodeOCR, fmt.Errorf("%w: recognize %s: %w", common.ErrOCR, imagePath, err))
	}
	return text, nil
}
