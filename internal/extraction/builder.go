// Package extraction turns git commits into corpus records.
//
// A Builder is bound to one repository and its RepositoryContext. For each
// commit it either produces a Record (the cleaned subject, the first-parent
// patch, recent history, the style guide as committed, and the touched
// paths) or classifies the commit out with a SkipReason. Filtering is an
// ordinary outcome, not an error: Build returns an error only when the
// repository itself fails to produce one of the record's parts.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/gitcorpus/internal/gitrepo"
)

// TruncationMarker terminates any embedded text that was cut at its byte
// ceiling.
const TruncationMarker = "...TRUNCATED"

// historyDepth is how many ancestor subjects a record carries.
const historyDepth = 5

// Builder assembles Records for one repository's commits. It is not safe
// for concurrent use; each repository worker owns its own Builder.
type Builder struct {
	repo *gitrepo.Repository
	rctx *RepositoryContext
	opts Options
}

// NewBuilder returns a Builder bound to repo and its context.
func NewBuilder(repo *gitrepo.Repository, rctx *RepositoryContext, opts Options) *Builder {
	return &Builder{repo: repo, rctx: rctx, opts: opts}
}

// Build assembles the record for a single commit. A non-empty SkipReason
// means the commit was filtered out before assembly. An error means the
// repository could not produce one of the record's parts; the commit is
// neither recorded nor classified.
func (b *Builder) Build(ctx context.Context, c gitrepo.Commit) (*Record, SkipReason, error) {
	if b.opts.SkipBotCommits && isBotAuthor(c.Author) {
		return nil, SkipBot, nil
	}
	subject := CleanMessage(c.Message)
	if reason := classifyShape(subject); reason != "" {
		return nil, reason, nil
	}

	patch, err := b.repo.Diff(ctx, c.Hash)
	if err != nil {
		return nil, "", fmt.Errorf("diff %s: %w", c.ShortHash(), err)
	}

	recent, err := b.recentHistory(ctx, c.Hash)
	if err != nil {
		return nil, "", fmt.Errorf("history %s: %w", c.ShortHash(), err)
	}

	style, err := b.styleSnapshot(ctx, c.Hash)
	if err != nil {
		return nil, "", fmt.Errorf("style guide %s: %w", c.ShortHash(), err)
	}

	files, err := b.affectedFiles(ctx, c.Hash)
	if err != nil {
		return nil, "", fmt.Errorf("changed paths %s: %w", c.ShortHash(), err)
	}

	rec := &Record{
		CommitMsg:     subject,
		Change:        capChange(patch, b.opts.MaxDiffBytes),
		RecentCommits: recent,
		CodeStyle:     style,
		AffectedFiles: files,
	}
	if b.opts.MarkSource {
		rec.RepoSource = b.rctx.Source()
	}
	if b.opts.IncludeLicense {
		rec.License = b.rctx.License
	}
	return rec, "", nil
}

// recentHistory renders up to historyDepth first-parent ancestors as
// "shorthash subject" lines, nearest first. A root commit yields "".
func (b *Builder) recentHistory(ctx context.Context, hash string) (string, error) {
	ancestors, err := b.repo.History(ctx, hash, historyDepth)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(ancestors))
	for _, a := range ancestors {
		lines = append(lines, a.ShortHash()+" "+a.Subject())
	}
	return strings.Join(lines, "\n"), nil
}

// styleSnapshot reads the repository's style document as committed in this
// commit's tree. Commits predating the document yield "".
func (b *Builder) styleSnapshot(ctx context.Context, hash string) (string, error) {
	if b.rctx.StyleGuidePath == "" {
		return "", nil
	}
	content, err := b.repo.FileAt(ctx, hash, b.rctx.StyleGuidePath)
	if err != nil {
		if errors.Is(err, gitrepo.ErrFileNotFound) {
			return "", nil
		}
		return "", err
	}
	return capBytes(content, b.opts.MaxStyleBytes), nil
}

func (b *Builder) affectedFiles(ctx context.Context, hash string) ([]string, error) {
	paths, err := b.repo.ChangedPaths(ctx, hash)
	if err != nil {
		return nil, err
	}
	return dedupPaths(paths), nil
}

// dedupPaths drops blanks and repeats, keeping first-occurrence order. The
// result is never nil; an empty commit marshals as [].
func dedupPaths(paths []string) []string {
	files := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	return files
}

// capChange strips NUL bytes from a patch before applying the ceiling.
func capChange(patch string, ceiling int) string {
	return capBytes(strings.ReplaceAll(patch, "\x00", ""), ceiling)
}

// capBytes cuts s at ceiling bytes and appends TruncationMarker. The cut is
// a byte cut; a multi-byte rune on the boundary is split.
func capBytes(s string, ceiling int) string {
	if len(s) <= ceiling {
		return s
	}
	return s[:ceiling] + TruncationMarker
}
