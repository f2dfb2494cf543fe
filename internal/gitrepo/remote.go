package gitrepo

import (
	"fmt"
)

// SourceURLs resolves where the repository was cloned from. The remote
// named "origin" wins; otherwise the lexicographically smallest remote
// name is used. Fetch is the chosen remote's first URL and push its last.
// Repositories without remotes return empty strings and no error.
func (r *Repository) SourceURLs() (fetch, push string, err error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return "", "", fmt.Errorf("listing remotes: %w", err)
	}
	if len(remotes) == 0 {
		return "", "", nil
	}

	chosen := remotes[0].Config()
	for _, rem := range remotes {
		cfg := rem.Config()
		if cfg.Name == "origin" {
			chosen = cfg
			break
		}
		if cfg.Name < chosen.Name {
			chosen = cfg
		}
	}

	if len(chosen.URLs) == 0 {
		return "", "", nil
	}
	return chosen.URLs[0], chosen.URLs[len(chosen.URLs)-1], nil
}
