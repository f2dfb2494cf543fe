package gitrepo

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// TestRepo builds an in-memory repository commit by commit for tests. The
// commit clock advances one minute per commit so history ordering is
// deterministic.
type TestRepo struct {
	tb   testing.TB
	repo *git.Repository
	fs   billy.Filesystem
	wt   *git.Worktree
	when time.Time
}

// NewTestRepo initializes an empty in-memory repository.
func NewTestRepo(tb testing.TB) *TestRepo {
	tb.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	if err != nil {
		tb.Fatalf("initializing test repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("opening worktree: %v", err)
	}
	return &TestRepo{
		tb:   tb,
		repo: repo,
		fs:   fs,
		wt:   wt,
		when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// NewTestRepoAt initializes an empty on-disk repository rooted at dir, for
// tests that open repositories by path.
func NewTestRepoAt(tb testing.TB, dir string) *TestRepo {
	tb.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("creating %s: %v", dir, err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("initializing test repository at %s: %v", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("opening worktree: %v", err)
	}
	return &TestRepo{
		tb:   tb,
		repo: repo,
		fs:   wt.Filesystem,
		wt:   wt,
		when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Repository wraps the fixture for the code under test.
func (r *TestRepo) Repository() *Repository {
	return New(r.repo)
}

// WriteFile stages content at p, creating parent directories as needed.
func (r *TestRepo) WriteFile(p, content string) {
	r.tb.Helper()
	if dir := path.Dir(p); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			r.tb.Fatalf("creating %s: %v", dir, err)
		}
	}
	f, err := r.fs.Create(p)
	if err != nil {
		r.tb.Fatalf("creating %s: %v", p, err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		r.tb.Fatalf("writing %s: %v", p, err)
	}
	if err := f.Close(); err != nil {
		r.tb.Fatalf("closing %s: %v", p, err)
	}
	if _, err := r.wt.Add(p); err != nil {
		r.tb.Fatalf("staging %s: %v", p, err)
	}
}

// RemoveFile stages the deletion of p.
func (r *TestRepo) RemoveFile(p string) {
	r.tb.Helper()
	if _, err := r.wt.Remove(p); err != nil {
		r.tb.Fatalf("removing %s: %v", p, err)
	}
}

// Commit records the staged changes with the default author.
func (r *TestRepo) Commit(message string) string {
	return r.CommitAs(message, "Dev One")
}

// CommitAs records the staged changes under the given author name.
func (r *TestRepo) CommitAs(message, author string) string {
	r.tb.Helper()
	hash, err := r.wt.Commit(message, r.commitOptions(author))
	if err != nil {
		r.tb.Fatalf("committing %q: %v", message, err)
	}
	return hash.String()
}

// MergeCommit records the staged changes as a commit with the given
// parents, first parent first.
func (r *TestRepo) MergeCommit(message string, parents ...string) string {
	r.tb.Helper()
	opts := r.commitOptions("Dev One")
	opts.Parents = make([]plumbing.Hash, len(parents))
	for i, p := range parents {
		opts.Parents[i] = plumbing.NewHash(p)
	}
	hash, err := r.wt.Commit(message, opts)
	if err != nil {
		r.tb.Fatalf("committing merge %q: %v", message, err)
	}
	return hash.String()
}

// AddRemote registers a remote with the given URLs.
func (r *TestRepo) AddRemote(name string, urls ...string) {
	r.tb.Helper()
	_, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: urls})
	if err != nil {
		r.tb.Fatalf("creating remote %s: %v", name, err)
	}
}

func (r *TestRepo) commitOptions(author string) *git.CommitOptions {
	r.when = r.when.Add(time.Minute)
	sig := &object.Signature{Name: author, Email: "dev@example.test", When: r.when}
	return &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	}
}
