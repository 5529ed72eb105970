package git

import (
	"context"
	"fmt"
)

// Stage stages a single path
func (r *Repository) Stage(ctx context.Context, path string) error {
	_, err := r.runner.Run(ctx, "add", "--", path)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// StageRemoval stages the removal of a tracked path
func (r *Repository) StageRemoval(ctx context.Context, path string) error {
	_, err := r.runner.Run(ctx, "rm", "-q", "--", path)
	if err != nil {
		return fmt.Errorf("failed to stage removal of %s: %w", path, err)
	}
	return nil
}

// Move stages a rename of a tracked path
func (r *Repository) Move(ctx context.Context, oldPath, newPath string) error {
	_, err := r.runner.Run(ctx, "mv", "-f", oldPath, newPath)
	if err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

// HasStagedChanges reports whether anything is staged for commit
func (r *Repository) HasStagedChanges(ctx context.Context) (bool, error) {
	out, err := r.runner.Run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return out != "", nil
}
