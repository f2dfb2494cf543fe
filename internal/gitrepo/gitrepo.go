// Package gitrepo is the read-only capability surface over one local git
// repository: bounded history listing, first-parent diffs, file content at
// a commit, changed paths, root tree entries, and remote URLs. It is the
// only package that touches go-git directly, and it behaves identically
// over on-disk and in-memory repositories.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// ErrNotRepository reports a path that does not hold a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoHistory reports a repository without a resolvable HEAD commit.
	ErrNoHistory = errors.New("repository has no commit history")

	// ErrFileNotFound reports a path absent from a commit's tree.
	ErrFileNotFound = errors.New("file not found in commit tree")
)

// Repository wraps one opened git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the on-disk repository rooted at path.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Repository{repo: repo, path: path}, nil
}

// New wraps an already opened go-git repository. In-memory repositories
// enter through here.
func New(repo *git.Repository) *Repository {
	return &Repository{repo: repo}
}

// Path returns the on-disk root of the repository, or "" for in-memory
// repositories.
func (r *Repository) Path() string { return r.path }

// Commit is one entry in a repository's history.
type Commit struct {
	Hash    string
	Author  string
	Message string
}

// Subject returns the trimmed first line of the commit message.
func (c Commit) Subject() string {
	subject := c.Message
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}
	return strings.TrimSpace(subject)
}

// ShortHash returns the abbreviated 7-character commit identifier.
func (c Commit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

func newCommit(c *object.Commit) Commit {
	return Commit{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Message: c.Message,
	}
}

// Head resolves the repository's HEAD commit hash.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHistory
		}
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// Commits lists up to limit commits reachable from HEAD, newest first.
// Repositories without a resolvable HEAD return ErrNoHistory.
func (r *Repository) Commits(ctx context.Context, limit int) ([]Commit, error) {
	if limit <= 0 {
		return nil, nil
	}

	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  ref.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("opening history walk: %w", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, limit)
	for len(commits) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking history: %w", err)
		}
		commits = append(commits, newCommit(c))
	}
	return commits, nil
}

// History returns up to limit first-parent ancestors strictly preceding the
// given commit, nearest first. A root commit yields an empty history.
func (r *Repository) History(ctx context.Context, hash string, limit int) ([]Commit, error) {
	cur, err := r.commitObject(hash)
	if err != nil {
		return nil, err
	}

	var ancestors []Commit
	for len(ancestors) < limit && cur.NumParents() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parent, err := cur.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of %s: %w", cur.Hash, err)
		}
		ancestors = append(ancestors, newCommit(parent))
		cur = parent
	}
	return ancestors, nil
}

func (r *Repository) commitObject(hash string) (*object.Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("looking up commit %s: %w", hash, err)
	}
	return c, nil
}
