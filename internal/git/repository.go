package git

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository is a handle on one local clone of the shared remote. A handle is
// exclusively owned by the calling operation; it must be re-synchronized
// before reuse because other processes may have pushed in the meantime.
type Repository struct {
	*gogit.Repository
	runner *CommandRunner
	path   string

	// Synchronizes go-git reads to prevent concurrent packfile access
	mu sync.Mutex
}

// Open opens a git repository at the given path
func Open(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		runner:     NewCommandRunner(absPath),
		path:       absPath,
	}, nil
}

// Clone clones remoteURL into dir and returns a handle on the clone
func Clone(ctx context.Context, remoteURL, dir string) (*Repository, error) {
	runner := NewCommandRunner("")
	if _, err := runner.Run(ctx, "clone", remoteURL, dir); err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", remoteURL, err)
	}
	return Open(dir)
}

// Root returns the root directory of the repository
func (r *Repository) Root() string {
	return r.path
}

// Runner returns the command runner for this clone
func (r *Repository) Runner() *CommandRunner {
	return r.runner
}

// FullPath returns the absolute path of a repo-relative path
func (r *Repository) FullPath(relPath string) string {
	return filepath.Join(r.path, relPath)
}

// resolveRevisionHash resolves a revision (branch, remote ref, SHA, tag) to a commit hash
func (r *Repository) resolveRevisionHash(rev string) (plumbing.Hash, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return *hash, nil
}
