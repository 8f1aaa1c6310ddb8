package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/infofinder/constants"
	"github.com/joseph-ayodele/infofinder/internal/async"
	"github.com/joseph-ayodele/infofinder/internal/common"
	"github.com/joseph-ayodele/infofinder/internal/corpus"
	"github.com/joseph-ayodele/infofinder/internal/extract"
	"github.com/joseph-ayodele/infofinder/internal/ingest"
	"github.com/joseph-ayodele/infofinder/internal/report"
	"github.com/joseph-ayodele/infofinder/internal/search"
)

// FileFailure records a document that produced no search results.
type FileFailure struct {
	Path string
	Err  error
}

// Summary describes one run over a directory.
type Summary struct {
	RunID      string
	Scanned    int
	Matched    int
	Succeeded  int
	Failed     int
	Skipped    int
	Combined   int
	Results    []search.Result
	Failures   []FileFailure
	ReportPath string
	CorpusPath string
}

// Processor extracts every document of a directory, searches the extracted
// text, then writes the report and the combined corpus.
type Processor struct {
	logger     *slog.Logger
	extractor  extract.TextExtractor
	pool       *async.Pool
	terms      []string
	skipHidden bool
}

type ProcessorOption func(*Processor)

// WithSkipHidden leaves dot-files out of the run.
func WithSkipHidden(skip bool) ProcessorOption {
	return func(p *Processor) { p.skipHidden = skip }
}

func NewProcessor(
	logger *slog.Logger,
	extractor extract.TextExtractor,
	pool *async.Pool,
	terms []string,
	opts ...ProcessorOption,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if pool == nil {
		pool = async.NewPool(logger)
	}
	p := &Processor{
		logger:    logger,
		extractor: extractor,
		pool:      pool,
		terms:     append([]string(nil), terms...),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run processes dir. Per-file failures are logged and counted in the summary;
// only listing the directory and writing the report or corpus fail the run.
func (p *Processor) Run(ctx context.Context, dir string) (Summary, error) {
	start := time.Now()
	runID := common.NewRunID()
	logger := p.logger.With("run_id", runID)
	ctx = common.WithLogger(ctx, logger)

	sum := Summary{RunID: runID}

	docs, stats, err := ingest.ListDocuments(dir, ingest.ListOptions{SkipHidden: p.skipHidden})
	if err != nil {
		return sum, common.NewAppError(common.CodeIO, "list "+dir, err)
	}
	sum.Scanned = int(stats.Scanned)
	sum.Matched = int(stats.Matched)
	sum.Skipped = int(stats.Skipped + stats.Hidden)
	logger.Info("run started",
		"dir", dir,
		"documents", len(docs),
		"skipped", sum.Skipped,
		"workers", p.pool.Workers(),
		"terms", len(p.terms),
	)

	jobs := make([]async.Job, len(docs))
	for i, d := range docs {
		jobs[i] = async.Job{Path: d.Path}
	}
	p.pool.Run(ctx, jobs, p.extractJob, func(o async.Outcome) {
		p.collect(logger, &sum, o)
	})

	reportPath, err := report.Write(dir, sum.Results)
	if err != nil {
		return sum, err
	}
	sum.ReportPath = reportPath

	combined, err := corpus.Combine(dir, constants.CorpusFileName, constants.ReportFileName)
	if err != nil {
		return sum, err
	}
	sum.Combined = combined
	sum.CorpusPath = filepath.Join(dir, constants.CorpusFileName)

	logger.Info("run finished",
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"results", len(sum.Results),
		"combined", sum.Combined,
		"report", sum.ReportPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}

func (p *Processor) extractJob(ctx context.Context, job async.Job) (string, error) {
	if p.extractor == nil {
		return "", common.CodedError(common.CodeExtract, fmt.Errorf("%w: no extractor configured", common.ErrUnsupportedFormat))
	}
	return p.extractor.Extract(ctx, job.Path)
}

// collect runs on the single aggregating goroutine; it owns sum.
func (p *Processor) collect(logger *slog.Logger, sum *Summary, o async.Outcome) {
	if o.Err != nil {
		p.fail(logger, sum, o.Job.Path, o.Err)
		return
	}
	results, err := search.Search(o.Result, p.terms)
	if err != nil {
		p.fail(logger, sum, o.Job.Path, fmt.Errorf("search: %w", err))
		return
	}
	found := 0
	for _, r := range results {
		if r.Found {
			found++
		}
	}
	sum.Succeeded++
	sum.Results = append(sum.Results, results...)
	logger.Info("document processed",
		"path", o.Job.Path,
		"text_path", o.Result,
		"found", found,
		"terms", len(results),
		"duration_ms", o.Duration.Milliseconds(),
	)
}

func (p *Processor) fail(logger *slog.Logger, sum *Summary, path string, err error) {
	sum.Failed++
	sum.Failures = append(sum.Failures, FileFailure{Path: path, Err: err})
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "document failed",
		"path", path,
		"code", common.CodeOf(err),
		"error", err,
	)
}
