package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// MergeOptions controls how a merge is performed
type MergeOptions struct {
	Message      string
	NoFF         bool
	StrategyOurs bool
	Author       Author
}

// Merge merges rev into the current branch. Returns ErrMergeConflict (without
// conflict details; callers collect those before aborting) when the merge
// stops on conflicts.
func (r *Repository) Merge(ctx context.Context, rev string, opts MergeOptions) error {
	args := []string{"merge"}
	if opts.NoFF {
		args = append(args, "--no-ff")
	}
	if opts.StrategyOurs {
		args = append(args, "-s", "ours")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, rev)

	var err error
	if opts.Author.Email != "" {
		_, err = r.runner.RunWithEnv(ctx, opts.Author.env(), args...)
	} else {
		_, err = r.runner.Run(ctx, args...)
	}
	if err != nil {
		if isMergeConflict(err) {
			return fmt.Errorf("merge of %s stopped on conflicts: %w", rev, inkwellerrors.ErrMergeConflict)
		}
		return fmt.Errorf("failed to merge %s: %w", rev, err)
	}
	return nil
}

// MergeFFOnly merges rev into the current branch, fast-forward only
func (r *Repository) MergeFFOnly(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "merge", "--ff-only", rev)
	if err != nil {
		return fmt.Errorf("failed to fast-forward merge %s: %w", rev, err)
	}
	return nil
}

// MergeAbort aborts an in-progress merge
func (r *Repository) MergeAbort(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "merge", "--abort")
	if err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// ConflictedPaths returns the paths left unmerged by a stopped merge
func (r *Repository) ConflictedPaths(ctx context.Context) ([]string, error) {
	lines, err := r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted paths: %w", err)
	}
	return lines, nil
}

func isMergeConflict(err error) bool {
	var cmdErr *inkwellerrors.GitCommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	combined := cmdErr.Stdout + cmdErr.Stderr
	return strings.Contains(combined, "CONFLICT") ||
		strings.Contains(combined, "Automatic merge failed")
}
