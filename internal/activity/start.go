package activity

import (
	"context"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
)

// nameAttempts is how many times Start re-rolls the uniqueness suffix
// before giving up with a name collision
const nameAttempts = 2

// Start creates a new activity: a uniquely named branch forked from the
// default branch tip, with the task metadata committed as its first commit
// and pushed so other workers can discover it immediately.
//
// If the push fails the local branch is removed and the activity is not
// considered started; the caller should retry rather than duplicate-create.
func (e *Engine) Start(ctx context.Context, description, beneficiary, authorEmail string) (*Activity, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return nil, err
	}

	branchName, err := e.pickBranchName(description)
	if err != nil {
		return nil, err
	}

	defaultTip, err := e.defaultTip()
	if err != nil {
		return nil, err
	}

	meta := TaskMetadata{
		AuthorEmail:     authorEmail,
		TaskDescription: description,
		TaskBeneficiary: beneficiary,
	}

	if err := e.repo.CreateBranchAt(ctx, branchName, defaultTip); err != nil {
		return nil, err
	}

	if err := writeMetadataFile(e.repo, meta); err != nil {
		return nil, err
	}
	if err := e.repo.Stage(ctx, MetadataFilename); err != nil {
		return nil, err
	}
	if err := e.repo.Commit(ctx, creationMessage(meta), git.AuthorFromEmail(authorEmail)); err != nil {
		return nil, err
	}

	if err := e.repo.Push(ctx, e.remote(), branchName); err != nil {
		// Not started until the push succeeds. Remove the local branch so a
		// retry starts clean.
		_ = e.repo.Checkout(ctx, e.defaultBranch())
		_ = e.repo.DeleteLocalBranch(ctx, branchName)
		return nil, inkwellerrors.NewSyncError(e.remote(), "push "+branchName, err)
	}

	tip, err := e.repo.BranchRevision(branchName)
	if err != nil {
		return nil, err
	}

	e.log.Info("Started activity %q on branch %s", description, branchName)

	return &Activity{
		BranchName: branchName,
		Metadata:   meta,
		BaseSHA:    tip,
	}, nil
}

// pickBranchName generates a candidate branch name, re-rolling the random
// suffix if it collides with an existing local or remote branch
func (e *Engine) pickBranchName(description string) (string, error) {
	var candidate string
	for i := 0; i < nameAttempts; i++ {
		candidate = BranchNameForTask(description, e.now(), e.token(tokenLength))
		if !e.repo.BranchExists(candidate) && !e.repo.RemoteBranchExists(e.remote(), candidate) {
			return candidate, nil
		}
	}
	return "", inkwellerrors.NewNameCollisionError(candidate)
}

// defaultTip returns the latest known tip of the default branch, preferring
// the remote-tracking ref
func (e *Engine) defaultTip() (string, error) {
	if sha, err := e.repo.RemoteRevision(e.remote(), e.defaultBranch()); err == nil {
		return sha, nil
	}
	return e.repo.BranchRevision(e.defaultBranch())
}
