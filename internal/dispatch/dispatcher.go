// Package dispatch fans repository processing out across a bounded worker
// pool. Each repository is independent: one failing or panicking worker
// never disturbs the others, and results come back aligned with the input
// listing regardless of completion order.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitcorpus/internal/corpus"
	"github.com/fyrsmithlabs/gitcorpus/internal/logging"
	"github.com/fyrsmithlabs/gitcorpus/internal/telemetry"
)

// Processor handles one repository path and reports what happened.
type Processor interface {
	Process(ctx context.Context, path string) corpus.Result
}

// Dispatcher runs a Processor over many repositories in parallel.
type Dispatcher struct {
	workers int
	logger  *logging.Logger
	metrics *telemetry.PipelineMetrics
}

// NewDispatcher creates a dispatcher that runs at most workers repositories
// concurrently.
func NewDispatcher(workers int) *Dispatcher {
	return &Dispatcher{workers: workers}
}

// SetLogger sets the logger for per-repository outcome lines.
// Optional; without it the dispatcher runs silently.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	d.logger = l
}

// SetMetrics sets the metrics tracker for repository outcomes.
// Optional.
func (d *Dispatcher) SetMetrics(m *telemetry.PipelineMetrics) {
	d.metrics = m
}

// Run processes every path and returns one Result per path, in input order.
// Cancellation stops dispatching new repositories; slots that never started
// carry the context error as their result.
func (d *Dispatcher) Run(ctx context.Context, proc Processor, paths []string) []corpus.Result {
	if len(paths) == 0 {
		return nil
	}

	results := make([]corpus.Result, len(paths))
	sem := make(chan struct{}, d.workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(slot int, p string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[slot] = corpus.Result{Path: p, Err: ctx.Err()}
				return
			}

			results[slot] = d.runOne(ctx, proc, p)
		}(i, path)
	}

	wg.Wait()
	return results
}

// runOne times a single repository and records its outcome. A panic inside
// the processor is converted into a failed Result for that repository alone.
func (d *Dispatcher) runOne(ctx context.Context, proc Processor, path string) (res corpus.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = corpus.Result{Path: path, Err: fmt.Errorf("panic processing %s: %v", path, r)}
			if d.logger != nil {
				d.logger.Error(ctx, "panic while processing repository",
					zap.String("path", path),
					zap.Any("panic", r))
			}
			d.metrics.RepoFailed(ctx)
		}
	}()

	start := time.Now()
	res = proc.Process(ctx, path)
	res.Duration = time.Since(start)

	d.metrics.RepoDuration(ctx, res.Duration.Seconds())

	if res.Failed() {
		if d.logger != nil {
			d.logger.Error(ctx, "repository failed",
				zap.String("repository", res.Name),
				zap.String("path", res.Path),
				zap.Error(res.Err))
		}
		d.metrics.RepoFailed(ctx)
		return res
	}

	if d.logger != nil {
		d.logger.Info(ctx, "repository processed",
			zap.String("repository", res.Name),
			zap.String("artifact", res.Artifact),
			zap.Int("retained", res.Retained),
			zap.Int("skipped", res.Skipped),
			zap.Duration("duration", res.Duration))
	}
	d.metrics.RepoProcessed(ctx)
	return res
}
