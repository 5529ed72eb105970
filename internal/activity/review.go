package activity

import (
	"context"
	"strings"

	"inkwell.dev/inkwell/internal/git"
)

// StateFromLog computes the review state implied by a branch's commit trail,
// newest first, bounded by the merge base with the default branch. The most
// recent state-bearing commit decides: a review-action commit sets its
// encoded state, while any content commit after it reverts the activity to
// unreviewed (an edit invalidates a prior endorsement). Comment commits
// carry no state.
//
// Pure over its inputs; unit-testable without a repository.
func StateFromLog(commits []git.CommitInfo, baseSHA string) (ReviewState, string) {
	for _, c := range commits {
		if c.SHA == baseSHA {
			break
		}

		switch classifyCommit(c) {
		case KindComment:
			continue
		case KindReview:
			if state, ok := reviewStateFromCommit(c); ok {
				return state, c.AuthorEmail
			}
			// Unparseable review commit; treat as content.
			return StateUnreviewed, c.AuthorEmail
		case KindCreation, KindEdit:
			return StateUnreviewed, c.AuthorEmail
		}
	}
	return StateUnreviewed, ""
}

// Authorize decides whether an actor may perform an action on an activity.
//
// Merging requires a second pair of eyes: the task's own author can never
// publish their own work. Abandon is always available to the author.
// Clobber is an escalated override restricted to the operator role. Review
// actions (feedback, endorsement, comments) are open to anyone but the
// author. Unrecognized actions are never authorized.
//
// Pure given its inputs; no repository access.
func Authorize(meta TaskMetadata, actorEmail string, action Action, operator bool) bool {
	if actorEmail == "" {
		return false
	}
	isAuthor := strings.EqualFold(actorEmail, meta.AuthorEmail)

	switch action {
	case ActionMerge:
		return !isAuthor
	case ActionAbandon:
		return isAuthor || operator
	case ActionClobber:
		return operator
	case ActionRequestFeedback, ActionEndorse, ActionComment:
		return !isAuthor
	default:
		return false
	}
}

// AuthorizedActions returns the actions an actor may perform on an activity
func AuthorizedActions(meta TaskMetadata, actorEmail string, operator bool) []Action {
	all := []Action{
		ActionRequestFeedback,
		ActionEndorse,
		ActionComment,
		ActionMerge,
		ActionAbandon,
		ActionClobber,
	}

	var authorized []Action
	for _, action := range all {
		if Authorize(meta, actorEmail, action, operator) {
			authorized = append(authorized, action)
		}
	}
	return authorized
}

// ReviewState computes the current review state of an activity and the
// actions the given actor is authorized to perform on it.
//
// Abandoning an activity leaves no trace, so a branch name that never
// existed reads the same as an abandoned one. Callers that need to tell
// the two apart should check the name against List first.
func (e *Engine) ReviewState(ctx context.Context, branch, actorEmail string) (*ReviewStatus, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return nil, err
	}

	// A tag named after the branch marks a published activity; its message
	// preserves the task metadata after the branch is gone.
	if e.repo.TagExists(branch) {
		tagMsg, err := e.repo.TagMessage(ctx, branch)
		if err != nil {
			return nil, err
		}
		return &ReviewStatus{
			BranchName: branch,
			State:      StatePublished,
			Metadata:   metadataFromTag(tagMsg),
		}, nil
	}

	// Only the remote counterpart counts: an activity does not exist until
	// its branch is pushed, and a stale local ref must not mask deletion.
	if !e.repo.RemoteBranchExists(e.remote(), branch) {
		// Remote branch gone without a publish tag: abandoned.
		return &ReviewStatus{BranchName: branch, State: StateAbandoned}, nil
	}
	rev := e.remote() + "/" + branch

	defaultRev, err := e.defaultTip()
	if err != nil {
		return nil, err
	}

	base, err := e.repo.MergeBase(defaultRev, rev)
	if err != nil {
		return nil, err
	}

	commits, err := e.repo.CommitLog(rev, "", 0)
	if err != nil {
		return nil, err
	}

	state, lastActor := StateFromLog(commits, base)

	meta, err := readMetadataAt(e.repo, rev)
	if err != nil {
		return nil, err
	}

	tip, err := e.repo.Revision(rev)
	if err != nil {
		return nil, err
	}

	return &ReviewStatus{
		BranchName:        branch,
		State:             state,
		LastActor:         lastActor,
		Metadata:          meta,
		BranchTip:         tip,
		DefaultTip:        defaultRev,
		AuthorizedActions: AuthorizedActions(meta, actorEmail, e.cfg.IsOperator(actorEmail)),
	}, nil
}
