package gitrepo

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// Diff renders the unified diff a commit introduced over its first parent,
// without color codes. Root commits diff against the empty tree, so every
// file shows as added.
func (r *Repository) Diff(ctx context.Context, hash string) (string, error) {
	changes, err := r.changes(ctx, hash)
	if err != nil {
		return "", err
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering patch of %s: %w", hash, err)
	}
	return patch.String(), nil
}

// ChangedPaths lists the paths a commit touched, in the order the tree
// comparison reports them. Renames contribute the new path.
func (r *Repository) ChangedPaths(ctx context.Context, hash string) ([]string, error) {
	changes, err := r.changes(ctx, hash)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(changes))
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		paths = append(paths, name)
	}
	return paths, nil
}

func (r *Repository) changes(ctx context.Context, hash string) (object.Changes, error) {
	c, err := r.commitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", hash, err)
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("resolving parent of %s: %w", hash, err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("reading parent tree of %s: %w", hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s against first parent: %w", hash, err)
	}
	return changes, nil
}
