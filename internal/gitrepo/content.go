package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileAt reads the content of path as committed in the given commit's tree,
// not the working tree. Absent paths return ErrFileNotFound.
func (r *Repository) FileAt(ctx context.Context, hash, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c, err := r.commitObject(hash)
	if err != nil {
		return "", err
	}
	f, err := c.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", fmt.Errorf("%w: %s at commit %s", ErrFileNotFound, path, hash)
		}
		return "", fmt.Errorf("reading %s at %s: %w", path, hash, err)
	}
	content, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", path, hash, err)
	}
	return content, nil
}

// RootEntries lists the file entries at the root of the HEAD tree,
// non-recursively, in tree order. Directories are skipped.
func (r *Repository) RootEntries(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	head, err := r.Head()
	if err != nil {
		return nil, err
	}
	c, err := r.commitObject(head)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD tree: %w", err)
	}
	entries := make([]string, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if !e.Mode.IsFile() {
			continue
		}
		entries = append(entries, e.Name)
	}
	return entries, nil
}
