package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/common"
	"github.com/joseph-ayodele/infofinder/internal/core/ocr"
)

// Candidates yields the two competing texts of a PDF.
type Candidates interface {
	NativeText(ctx context.Context, path string) (string, error)
	OCRText(ctx context.Context, path string) (string, error)
}

type ReconcilerConfig struct {
	Iterations          int     // full extract-and-score passes per file; must be >= 1
	SimilarityThreshold float64 // native text wins when similarity >= threshold
	StageIterations     bool    // write <name>_iteration<i>.txt while reconciling
}

// PDFExtractor reconciles a PDF's native text layer with the OCR of its pages.
type PDFExtractor struct {
	cfg        ReconcilerConfig
	candidates Candidates
	open       func(ctx context.Context, path string) (int, error)
	logger     *slog.Logger
}

// iteration is the outcome of one extract-and-score pass.
type iteration struct {
	index      int
	similarity float64
	method     constants.Method
	text       string
}

func NewPDFExtractor(cfg ReconcilerConfig, candidates Candidates, logger *slog.Logger) (*PDFExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Iterations < 1 {
		return nil, common.ConfigError("pdf iterations must be at least 1, got %d", cfg.Iterations)
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, common.ConfigError("similarity threshold must be in [0,1], got %g", cfg.SimilarityThreshold)
	}
	if candidates == nil {
		return nil, common.ConfigError("pdf candidates extractor is required")
	}
	// Open with the backend that reads the text layer when it can count pages.
	open := func(_ context.Context, path string) (int, error) { return ocr.CountPages(path) }
	if pc, ok := candidates.(ocr.PageCounter); ok {
		open = pc.PageCount
	}
	return &PDFExtractor{
		cfg:        cfg,
		candidates: candidates,
		open:       open,
		logger:     logger,
	}, nil
}

func (p *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	return p.Reconcile(ctx, path)
}

// Reconcile runs the configured number of iterations over path, keeps the
// best-scoring one as <name>.txt and returns that path. Per-iteration
// artifacts are removed before returning, whether or not the call succeeded.
func (p *PDFExtractor) Reconcile(ctx context.Context, path string) (string, error) {
	if p.cfg.Iterations < 1 {
		return "", common.ConfigError("pdf iterations must be at least 1, got %d", p.cfg.Iterations)
	}
	start := time.Now()
	logger := common.LoggerFromContext(ctx, p.logger).With("path", path)

	pages, err := p.open(ctx, path)
	if err != nil {
		return "", err
	}
	defer p.cleanup(path, logger)

	var best *iteration
	for i := 0; i < p.cfg.Iterations; i++ {
		it, err := p.runIteration(ctx, path, i)
		if err != nil {
			return "", fmt.Errorf("iteration %d: %w", i, err)
		}
		logger.Debug("pdf iteration scored",
			"iteration", i,
			"similarity", it.similarity,
			"selected", it.method,
		)

		if p.cfg.StageIterations {
			if err := writeArtifact(constants.IterationPathFor(path, i), it.text); err != nil {
				return "", err
			}
		}
		// ties keep the earlier iteration
		if best == nil || it.similarity > best.similarity {
			best = &it
		}
	}
	if best == nil {
		return "", common.CodedError(common.CodeExtract, fmt.Errorf("%w: %s", common.ErrNoTextSelected, path))
	}

	out := constants.TextPathFor(path)
	if err := writeArtifact(out, best.text); err != nil {
		return "", err
	}
	logger.Info("pdf reconciled",
		"pages", pages,
		"best_iteration", best.index,
		"similarity", best.similarity,
		"selected", best.method,
		"chars", len(best.text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *PDFExtractor) runIteration(ctx context.Context, path string, i int) (iteration, error) {
	native, err := p.candidates.NativeText(ctx, path)
	if err != nil {
		return iteration{}, fmt.Errorf("native text: %w", err)
	}
	ocrText, err := p.candidates.OCRText(ctx, path)
	if err != nil {
		return iteration{}, fmt.Errorf("ocr text: %w", err)
	}

	score := ocr.Similarity(native, ocrText)
	it := iteration{index: i, similarity: score, method: constants.MethodOCR, text: ocrText}
	if score >= p.cfg.SimilarityThreshold {
		it.method, it.text = constants.MethodNative, native
	}
	return it, nil
}

// cleanup removes every per-iteration artifact for the configured count.
func (p *PDFExtractor) cleanup(path string, logger *slog.Logger) {
	for i := 0; i < p.cfg.Iterations; i++ {
		name := constants.IterationPathFor(path, i)
		if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove iteration artifact", "artifact", name, "error", err)
		}
	}
}
