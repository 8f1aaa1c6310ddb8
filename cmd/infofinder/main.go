package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/async"
	"github.com/joseph-ayodele/infofinder/internal/common"
	"github.com/joseph-ayodele/infofinder/internal/core"
	"github.com/joseph-ayodele/infofinder/internal/core/ocr"
	"github.com/joseph-ayodele/infofinder/internal/extract"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir        = flag.String("dir", "", "directory to process (defaults to the working directory)")
		termsFile  = flag.String("terms", "", "YAML or JSON file with a 'terms' list")
		threshold  = flag.Float64("threshold", constants.DefaultSimilarityThreshold, "similarity at or above which native PDF text is kept")
		iterations = flag.Int("iterations", constants.DefaultPDFIterations, "extract-and-score passes per PDF")
		workers    = flag.Int("workers", 0, "concurrent documents (0 = from env or default)")
		noStage    = flag.Bool("no-stage", false, "do not write per-iteration PDF text files")
		skipHidden = flag.Bool("skip-hidden", false, "ignore dot-files")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		envFile    = flag.String("env", ".env", "dotenv file loaded before reading the environment")
	)
	flag.Parse()

	if err := common.LoadDotEnv(*envFile); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	cfg := common.LoadConfig()

	// Flags override the environment only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "terms":
			cfg.Search.TermsFile = *termsFile
		case "threshold":
			cfg.PDF.SimilarityThreshold = *threshold
		case "iterations":
			cfg.PDF.Iterations = *iterations
		case "workers":
			cfg.Pool.Workers = *workers
		case "no-stage":
			cfg.PDF.StageIterations = !*noStage
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: common.ParseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := cfg.ResolveTerms(); err != nil {
		logger.Error("load search terms", "terms_file", cfg.Search.TermsFile, "error", err)
		os.Exit(2)
	}

	if *dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.Error("resolve working directory", "error", err)
			os.Exit(1)
		}
		*dir = wd
	}

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Error("build extractors", "error", err)
		os.Exit(2)
	}
	pool := async.NewPool(logger,
		async.WithWorkers(cfg.Pool.Workers),
		async.WithTaskTimeout(cfg.Pool.TaskTimeout),
	)
	proc := core.NewProcessor(logger, registry, pool, cfg.Search.Terms, core.WithSkipHidden(*skipHidden))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := proc.Run(ctx, *dir)
	if err != nil {
		logger.Error("run failed", "dir", *dir, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}
	for _, f := range sum.Failures {
		logger.Warn("not searched", "path", f.Path, "error", f.Err)
	}
	if ctx.Err() != nil {
		logger.Warn("run interrupted", "succeeded", sum.Succeeded, "failed", sum.Failed)
		os.Exit(130)
	}
}

// buildRegistry wires one extractor per supported format.
func buildRegistry(cfg *common.Config, logger *slog.Logger) (*extract.Registry, error) {
	ocrx, err := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdfinfo:       cfg.OCR.Pdfinfo,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.Lang,
		DPI:           cfg.OCR.DPI,
		TessdataDir:   cfg.OCR.TessdataDir,
		PSM:           cfg.OCR.PSM,
		OEM:           cfg.OCR.OEM,
		TextLayer:     cfg.PDF.TextLayer,
		Engine:        cfg.OCR.Engine,
	}, logger)
	if err != nil {
		return nil, err
	}
	pdfx, err := extract.NewPDFExtractor(extract.ReconcilerConfig{
		Iterations:          cfg.PDF.Iterations,
		SimilarityThreshold: cfg.PDF.SimilarityThreshold,
		StageIterations:     cfg.PDF.StageIterations,
	}, ocrx, logger)
	if err != nil {
		return nil, err
	}
	return extract.NewRegistry().
		Register(constants.PDF, pdfx).
		Register(constants.DOCX, extract.NewDOCXExtractor(logger)).
		Register(constants.PPTX, extract.NewPPTXExtractor(logger)), nil
}
