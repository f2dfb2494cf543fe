// internal/telemetry/metrics.go
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/fyrsmithlabs/gitcorpus"

// PipelineMetrics holds the instruments recorded by the extraction pipeline.
//
// All methods are safe to call on a nil receiver, which lets callers skip
// conditional wiring when telemetry is disabled.
type PipelineMetrics struct {
	reposProcessed   metric.Int64Counter
	reposFailed      metric.Int64Counter
	commitsExtracted metric.Int64Counter
	commitsSkipped   metric.Int64Counter
	repoDuration     metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instrument set on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var errs []error

	reposProcessed, err := meter.Int64Counter(
		"gitcorpus.repos.processed",
		metric.WithDescription("Repositories processed to completion"),
		metric.WithUnit("{repository}"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	reposFailed, err := meter.Int64Counter(
		"gitcorpus.repos.failed",
		metric.WithDescription("Repositories that failed with a repo-level fault"),
		metric.WithUnit("{repository}"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	commitsExtracted, err := meter.Int64Counter(
		"gitcorpus.commits.extracted",
		metric.WithDescription("Commits written to corpus artifacts"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	commitsSkipped, err := meter.Int64Counter(
		"gitcorpus.commits.skipped",
		metric.WithDescription("Commits rejected by a filter or per-commit fault"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	repoDuration, err := meter.Float64Histogram(
		"gitcorpus.repo.duration",
		metric.WithDescription("Wall time spent processing one repository"),
		metric.WithUnit("s"),
	)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &PipelineMetrics{
		reposProcessed:   reposProcessed,
		reposFailed:      reposFailed,
		commitsExtracted: commitsExtracted,
		commitsSkipped:   commitsSkipped,
		repoDuration:     repoDuration,
	}, nil
}

// PipelineMetrics creates the pipeline instrument set on the module's
// canonical instrumentation scope.
func (t *Telemetry) PipelineMetrics() (*PipelineMetrics, error) {
	return NewPipelineMetrics(t.Meter(meterName))
}

// RepoProcessed records one successfully completed repository.
func (m *PipelineMetrics) RepoProcessed(ctx context.Context) {
	if m == nil {
		return
	}
	m.reposProcessed.Add(ctx, 1)
}

// RepoFailed records one repository that ended in a repo-level fault.
func (m *PipelineMetrics) RepoFailed(ctx context.Context) {
	if m == nil {
		return
	}
	m.reposFailed.Add(ctx, 1)
}

// CommitsExtracted records commits retained in an artifact.
func (m *PipelineMetrics) CommitsExtracted(ctx context.Context, n int64) {
	if m == nil {
		return
	}
	m.commitsExtracted.Add(ctx, n)
}

// CommitSkipped records one rejected commit. The reason must be a bounded
// label such as "merge", "bot", or "fault", never free text.
func (m *PipelineMetrics) CommitSkipped(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.commitsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RepoDuration records wall time in seconds for one repository.
func (m *PipelineMetrics) RepoDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.repoDuration.Record(ctx, seconds)
}
