// Package corpus walks a directory of cloned repositories and turns each
// one into a JSONL artifact of commit records.
//
// ListRepositories discovers the candidates; Processor owns the
// per-repository pipeline: open, list commits, recreate the artifact,
// compute the shared RepositoryContext, then build and append one record
// per retained commit. A fault while building a single record skips that
// commit and keeps the repository going; a fault at the repository boundary
// (unopenable path, unwritable artifact) fails only that repository.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
)

// ListRepositories returns the repository paths directly under dir: entries
// that resolve to directories carrying a .git entry (directory or gitdir
// file). The result follows the directory listing's name order.
func ListRepositories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading repos dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(p, ".git")); err != nil {
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}
