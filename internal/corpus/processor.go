package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitcorpus/internal/extraction"
	"github.com/fyrsmithlabs/gitcorpus/internal/gitrepo"
	"github.com/fyrsmithlabs/gitcorpus/internal/license"
	"github.com/fyrsmithlabs/gitcorpus/internal/logging"
	"github.com/fyrsmithlabs/gitcorpus/internal/sanitize"
	"github.com/fyrsmithlabs/gitcorpus/internal/telemetry"
)

// styleGuidePaths are probed in priority order at HEAD; the winning path is
// re-read at every commit's tree.
var styleGuidePaths = []string{
	"CONTRIBUTING.md",
	".github/CONTRIBUTING.md",
	"STYLEGUIDE.md",
}

// ProcessorConfig bounds a Processor's work.
type ProcessorConfig struct {
	// OutputDir receives one artifact per repository. It must exist.
	OutputDir string

	// MaxCommits caps how many recent commits are read per repository.
	MaxCommits int

	// Extraction is handed to each repository's record builder.
	Extraction extraction.Options
}

// Result describes one repository's outcome.
type Result struct {
	Path     string
	Name     string
	Artifact string
	Retained int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Failed reports whether the repository errored instead of completing its
// artifact.
func (r Result) Failed() bool { return r.Err != nil }

// Processor turns one repository into one JSONL artifact. It is safe for
// concurrent use: each Process call owns its own repository handle and
// artifact file.
type Processor struct {
	cfg     ProcessorConfig
	logger  *logging.Logger
	metrics *telemetry.PipelineMetrics
}

// NewProcessor returns a Processor. logger must be non-nil; metrics may be
// nil to disable instrumentation.
func NewProcessor(cfg ProcessorConfig, logger *logging.Logger, metrics *telemetry.PipelineMetrics) *Processor {
	return &Processor{cfg: cfg, logger: logger, metrics: metrics}
}

// Process extracts one repository into its artifact and reports the
// outcome. Unreadable or empty history is not a failure: the artifact is
// still created, empty. An unopenable path fails the repository before any
// artifact is touched.
func (p *Processor) Process(ctx context.Context, path string) Result {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("resolving path: %w", err)}
	}
	name := sanitize.DisplayName(filepath.Base(abs))
	res := Result{Path: abs, Name: name}
	ctx = logging.WithRepository(ctx, name)

	repo, err := gitrepo.Open(abs)
	if err != nil {
		res.Err = fmt.Errorf("opening repository: %w", err)
		return res
	}

	commits, err := p.listCommits(ctx, repo)
	if err != nil {
		res.Err = err
		return res
	}

	res.Artifact = filepath.Join(p.cfg.OutputDir, sanitize.ArtifactStem(name, abs)+".jsonl")
	f, err := os.Create(res.Artifact)
	if err != nil {
		res.Err = fmt.Errorf("creating artifact: %w", err)
		return res
	}

	if len(commits) == 0 {
		if err := f.Close(); err != nil {
			res.Err = fmt.Errorf("closing artifact: %w", err)
			return res
		}
		p.logger.Debug(ctx, "no commits to extract", zap.String("artifact", res.Artifact))
		return res
	}

	rctx := p.buildContext(ctx, repo, name)
	builder := extraction.NewBuilder(repo, rctx, p.cfg.Extraction)
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)

	res.Retained, res.Skipped, err = p.writeRecords(ctx, enc, builder, commits)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing artifact: %w", cerr)
	}
	if err != nil {
		res.Err = err
		return res
	}

	p.logger.Debug(ctx, "extraction finished",
		zap.Int("retained", res.Retained),
		zap.Int("skipped", res.Skipped))
	return res
}

// listCommits treats an unreadable or empty history as an empty listing.
// Only context cancellation propagates as an error.
func (p *Processor) listCommits(ctx context.Context, repo *gitrepo.Repository) ([]gitrepo.Commit, error) {
	commits, err := repo.Commits(ctx, p.cfg.MaxCommits)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn(ctx, "unreadable history, treating as empty", zap.Error(err))
		return nil, nil
	}
	return commits, nil
}

// buildContext computes the facts shared by every record of a repository.
// Each probe degrades on its own: a failed remote lookup, style probe, or
// license detection never fails the repository.
func (p *Processor) buildContext(ctx context.Context, repo *gitrepo.Repository, name string) *extraction.RepositoryContext {
	rctx := &extraction.RepositoryContext{Name: name}

	if p.cfg.Extraction.MarkSource {
		fetch, push, err := repo.SourceURLs()
		switch {
		case err != nil:
			p.logger.Warn(ctx, "could not resolve remotes", zap.Error(err))
		case fetch != "" || push != "":
			rctx.FetchURL, rctx.PushURL = fetch, push
			p.logger.Debug(ctx, "source remotes resolved",
				logging.RemoteURL("fetch", fetch),
				logging.RemoteURL("push", push))
		}
	}

	if head, err := repo.Head(); err == nil {
		for _, guide := range styleGuidePaths {
			content, err := repo.FileAt(ctx, head, guide)
			if err != nil {
				continue
			}
			rctx.StyleGuidePath = guide
			p.logger.Debug(ctx, "style guide found",
				zap.String("path", guide), zap.Int("bytes", len(content)))
			break
		}
	}

	if p.cfg.Extraction.IncludeLicense {
		entries, err := repo.RootEntries(ctx)
		if err != nil {
			p.logger.Warn(ctx, "could not list root entries", zap.Error(err))
		}
		rctx.License = license.Resolve(ctx, repo.Path(), entries)
		p.logger.Debug(ctx, "license resolved", zap.String("license", rctx.License))
	}

	return rctx
}

// writeRecords appends one record per retained commit, in listing order. A
// build fault skips that commit and continues; a write fault or context
// cancellation stops the repository.
func (p *Processor) writeRecords(ctx context.Context, enc *json.Encoder, builder *extraction.Builder, commits []gitrepo.Commit) (int, int, error) {
	var retained, skipped int
	for _, c := range commits {
		if ctx.Err() != nil {
			return retained, skipped, ctx.Err()
		}

		rec, reason, err := builder.Build(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return retained, skipped, ctx.Err()
			}
			p.logger.Warn(ctx, "commit skipped after build fault",
				zap.String("commit", c.ShortHash()), zap.Error(err))
			p.metrics.CommitSkipped(ctx, string(extraction.SkipFault))
			skipped++
			continue
		}
		if reason != "" {
			p.logger.Debug(ctx, "commit filtered",
				zap.String("commit", c.ShortHash()), zap.String("reason", string(reason)))
			p.metrics.CommitSkipped(ctx, string(reason))
			skipped++
			continue
		}

		if err := enc.Encode(rec); err != nil {
			return retained, skipped, fmt.Errorf("writing record %s: %w", c.ShortHash(), err)
		}
		retained++
		p.metrics.CommitsExtracted(ctx, 1)
	}
	return retained, skipped, nil
}
