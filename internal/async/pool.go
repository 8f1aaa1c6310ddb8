// Package async runs document jobs on a bounded set of workers and hands
// their outcomes to a single collector.
package async

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/infofinder/internal/common"
)

// Job is one unit of work submitted to the pool.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// Outcome is what a finished job reports back to the collector.
type Outcome struct {
	Job      Job
	Result   string
	Err      error
	Duration time.Duration
}

// Handler processes one job and returns its result.
type Handler func(ctx context.Context, job Job) (string, error)

// Collector receives outcomes one at a time, in completion order, on the
// goroutine that called Run.
type Collector func(Outcome)

type Pool struct {
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithTaskTimeout bounds each job. Zero means no limit.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPool(logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		logger:  logger,
		workers: common.DefaultWorkers(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pool) Workers() int {
	return p.workers
}

// Run submits every job to handle, at most Workers at a time, and calls
// collect once per job as jobs finish. It returns after every outcome has
// been collected. Jobs not yet started when ctx is cancelled are reported
// with ctx's error instead of running.
func (p *Pool) Run(ctx context.Context, jobs []Job, handle Handler, collect Collector) {
	outcomes := make(chan Outcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.workers)

	go func() {
		for _, job := range jobs {
			job := job
			if job.SubmittedAt.IsZero() {
				job.SubmittedAt = time.Now()
			}
			g.Go(func() error {
				outcomes <- p.runOne(ctx, job, handle)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		collect(o)
	}
}

func (p *Pool) runOne(ctx context.Context, job Job, handle Handler) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Job: job, Err: err}
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := handle(ctx, job)
	o := Outcome{Job: job, Result: res, Err: err, Duration: time.Since(start)}
	common.LoggerFromContext(ctx, p.logger).Debug("job finished",
		"path", job.Path,
		"queued_ms", start.Sub(job.SubmittedAt).Milliseconds(),
		"duration_ms", o.Duration.Milliseconds(),
		"ok", err == nil,
	)
	return o
}
