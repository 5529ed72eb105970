package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// Fetch fetches all refs from the remote, pruning deleted branches
func (r *Repository) Fetch(ctx context.Context, remote string) error {
	_, err := r.runner.Run(ctx, "fetch", "--prune", remote)
	if err != nil {
		return inkwellerrors.NewSyncError(remote, "fetch", err)
	}
	return nil
}

// FetchBranch fetches a single branch from the remote into FETCH_HEAD
func (r *Repository) FetchBranch(ctx context.Context, remote, branchName string) error {
	_, err := r.runner.Run(ctx, "fetch", remote, branchName)
	if err != nil {
		return inkwellerrors.NewSyncError(remote, "fetch "+branchName, err)
	}
	return nil
}

// FastForward fast-forwards the current branch to the given revision.
// Fails if the merge is not a fast-forward.
func (r *Repository) FastForward(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "merge", "--ff-only", rev)
	if err != nil {
		return fmt.Errorf("failed to fast-forward to %s: %w", rev, err)
	}
	return nil
}

// Push pushes a branch to the remote. A rejected push (the remote ref moved
// under us) is reported as ErrPushRejected so callers can re-synchronize and
// retry; other failures are sync errors.
func (r *Repository) Push(ctx context.Context, remote, branchName string) error {
	_, err := r.runner.Run(ctx, "push", "-u", remote, branchName)
	if err != nil {
		if isPushRejected(err) {
			return fmt.Errorf("push of %s rejected by %s: %w", branchName, remote, inkwellerrors.ErrPushRejected)
		}
		return inkwellerrors.NewSyncError(remote, "push "+branchName, err)
	}
	return nil
}

// PushDelete deletes a branch on the remote
func (r *Repository) PushDelete(ctx context.Context, remote, branchName string) error {
	_, err := r.runner.Run(ctx, "push", remote, ":"+branchName)
	if err != nil {
		return inkwellerrors.NewSyncError(remote, "delete "+branchName, err)
	}
	return nil
}

// PushTags pushes all tags to the remote
func (r *Repository) PushTags(ctx context.Context, remote string) error {
	_, err := r.runner.Run(ctx, "push", remote, "--tags")
	if err != nil {
		return inkwellerrors.NewSyncError(remote, "push tags", err)
	}
	return nil
}

// isPushRejected reports whether a push failure was a ref-update race rather
// than a network problem. Git's atomic ref update is the mutual-exclusion
// point between concurrent workers.
func isPushRejected(err error) bool {
	var cmdErr *inkwellerrors.GitCommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	combined := cmdErr.Stderr + cmdErr.Stdout
	return strings.Contains(combined, "[rejected]") ||
		strings.Contains(combined, "non-fast-forward") ||
		strings.Contains(combined, "fetch first") ||
		strings.Contains(combined, "stale info")
}
