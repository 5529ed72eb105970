package git

import (
	"context"
	"fmt"
)

// Checkout checks out an existing branch
func (r *Repository) Checkout(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutTracking checks out a branch, creating a local tracking branch for
// the remote counterpart if no local branch exists yet
func (r *Repository) CheckoutTracking(ctx context.Context, remote, branchName string) error {
	if r.BranchExists(branchName) {
		return r.Checkout(ctx, branchName)
	}
	_, err := r.runner.Run(ctx, "checkout", "-b", branchName, "--track", remote+"/"+branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout tracking branch %s: %w", branchName, err)
	}
	return nil
}

// CreateBranchAt creates a branch at the given revision and checks it out
func (r *Repository) CreateBranchAt(ctx context.Context, branchName, rev string) error {
	_, err := r.runner.Run(ctx, "checkout", "-b", branchName, rev)
	if err != nil {
		return fmt.Errorf("failed to create branch %s at %s: %w", branchName, rev, err)
	}
	return nil
}

// DeleteLocalBranch force-deletes a local branch
func (r *Repository) DeleteLocalBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// ResetHard resets the current branch and working tree to the given revision
func (r *Repository) ResetHard(ctx context.Context, rev string) error {
	_, err := r.runner.Run(ctx, "reset", "--hard", rev)
	if err != nil {
		return fmt.Errorf("failed to reset to %s: %w", rev, err)
	}
	return nil
}

// CreateTag creates an annotated tag carrying a message
func (r *Repository) CreateTag(ctx context.Context, name, message string) error {
	_, err := r.runner.Run(ctx, "tag", "-a", name, "-m", message)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// TagMessage returns the message of an annotated tag
func (r *Repository) TagMessage(ctx context.Context, name string) (string, error) {
	out, err := r.runner.Run(ctx, "tag", "-l", "--format=%(contents)", name)
	if err != nil {
		return "", fmt.Errorf("failed to read tag %s: %w", name, err)
	}
	return out, nil
}
