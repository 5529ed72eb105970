package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
)

// ActRequest describes a review or terminal action against an activity
type ActRequest struct {
	Branch     string
	Action     Action
	ActorEmail string
	// Comment carries the comment text for ActionComment, and an optional
	// closing comment for ActionMerge
	Comment string
	// ExpectedDefaultTip, when set, is the default branch tip the caller's
	// review state was computed against. The action is refused if the
	// default branch has moved since, to avoid acting on stale state.
	ExpectedDefaultTip string
}

// Act authorizes and applies an action to an activity. Terminal actions
// (merge, abandon, clobber) delete the activity branch; they are ordered so
// deletion only happens after the corresponding push has been confirmed.
func (e *Engine) Act(ctx context.Context, req ActRequest) (*Outcome, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return nil, err
	}

	rev, err := e.branchRev(req.Branch)
	if err != nil {
		return nil, err
	}

	meta, err := readMetadataAt(e.repo, rev)
	if err != nil {
		return nil, err
	}

	if !Authorize(meta, req.ActorEmail, req.Action, e.cfg.IsOperator(req.ActorEmail)) {
		return nil, inkwellerrors.NewUnauthorizedError(req.ActorEmail, string(req.Action))
	}

	if req.ExpectedDefaultTip != "" {
		tip, err := e.defaultTip()
		if err != nil {
			return nil, err
		}
		if tip != req.ExpectedDefaultTip {
			return nil, inkwellerrors.NewStaleBaseError(e.defaultBranch(), req.ExpectedDefaultTip, tip)
		}
	}

	switch req.Action {
	case ActionMerge:
		return e.merge(ctx, req, meta)
	case ActionAbandon:
		return e.abandon(ctx, req)
	case ActionClobber:
		return e.clobber(ctx, req, meta)
	case ActionRequestFeedback:
		return e.markReviewState(ctx, req, StateFeedbackRequested, msgFeedbackRequested)
	case ActionEndorse:
		return e.markReviewState(ctx, req, StateEndorsed, msgEndorsed)
	case ActionComment:
		return e.comment(ctx, req)
	default:
		return nil, inkwellerrors.NewUnauthorizedError(req.ActorEmail, string(req.Action))
	}
}

// merge merges the activity branch into the default branch with a publish
// commit. On conflict both branches are restored untouched and the conflict
// is reported with its file list; the activity stays live and editable.
func (e *Engine) merge(ctx context.Context, req ActRequest, meta TaskMetadata) (*Outcome, error) {
	author := git.AuthorFromEmail(req.ActorEmail)

	if err := e.checkoutAligned(ctx, req.Branch); err != nil {
		return nil, err
	}
	branchReset, err := e.repo.BranchRevision(req.Branch)
	if err != nil {
		return nil, err
	}

	// A closing comment rides along in the merge rather than being pushed
	// separately; the branch is gone right after.
	if req.Comment != "" {
		if err := e.repo.CommitEmpty(ctx, commentMessage(req.Branch, req.Comment), author); err != nil {
			return nil, err
		}
	}

	if err := e.checkoutAligned(ctx, e.defaultBranch()); err != nil {
		return nil, err
	}
	defaultReset, err := e.repo.BranchRevision(e.defaultBranch())
	if err != nil {
		return nil, err
	}

	message := reviewStateMessage(req.Branch, req.ActorEmail+" "+msgPublished)
	err = e.repo.Merge(ctx, req.Branch, git.MergeOptions{Message: message, NoFF: true, Author: author})
	if err != nil {
		if !errors.Is(err, inkwellerrors.ErrMergeConflict) {
			return nil, err
		}
		return nil, e.reportConflict(ctx, req.Branch, branchReset, defaultReset)
	}

	// The metadata record belongs to the activity, not the published site.
	if _, statErr := os.Stat(e.repo.FullPath(MetadataFilename)); statErr == nil {
		if err := e.repo.StageRemoval(ctx, MetadataFilename); err != nil {
			return nil, err
		}
		if err := e.repo.AmendNoEdit(ctx); err != nil {
			return nil, err
		}
	}

	return e.finishPublish(ctx, req, meta, defaultReset)
}

// clobber force-overwrites the default branch with the activity's tree. By
// construction no conflict is possible: the default branch is first merged
// into the activity branch with the "ours" strategy, then the default branch
// fast-forwards onto the result.
func (e *Engine) clobber(ctx context.Context, req ActRequest, meta TaskMetadata) (*Outcome, error) {
	author := git.AuthorFromEmail(req.ActorEmail)

	if err := e.checkoutAligned(ctx, req.Branch); err != nil {
		return nil, err
	}

	if err := e.repo.FetchBranch(ctx, e.remote(), e.defaultBranch()); err != nil {
		return nil, err
	}
	err := e.repo.Merge(ctx, "FETCH_HEAD", git.MergeOptions{
		Message:      clobberMessage(req.Branch),
		NoFF:         true,
		StrategyOurs: true,
		Author:       author,
	})
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(e.repo.FullPath(MetadataFilename)); statErr == nil {
		if err := e.repo.StageRemoval(ctx, MetadataFilename); err != nil {
			return nil, err
		}
		if err := e.repo.AmendNoEdit(ctx); err != nil {
			return nil, err
		}
	}

	if err := e.checkoutAligned(ctx, e.defaultBranch()); err != nil {
		return nil, err
	}
	defaultReset, err := e.repo.BranchRevision(e.defaultBranch())
	if err != nil {
		return nil, err
	}

	if err := e.repo.MergeFFOnly(ctx, req.Branch); err != nil {
		return nil, err
	}

	return e.finishPublish(ctx, req, meta, defaultReset)
}

// finishPublish pushes the updated default branch, tags the activity with
// its metadata, and only then deletes the branch remotely and locally.
// A failed push rolls the default branch back so nothing is half-applied.
func (e *Engine) finishPublish(ctx context.Context, req ActRequest, meta TaskMetadata, defaultReset string) (*Outcome, error) {
	if err := e.repo.Push(ctx, e.remote(), e.defaultBranch()); err != nil {
		_ = e.repo.ResetHard(ctx, defaultReset)
		if errors.Is(err, inkwellerrors.ErrPushRejected) {
			return nil, inkwellerrors.NewSyncError(e.remote(), "publish "+req.Branch, err)
		}
		return nil, err
	}

	mergeSHA, err := e.repo.BranchRevision(e.defaultBranch())
	if err != nil {
		return nil, err
	}

	// Tag the publish point with the metadata record so the activity's
	// provenance survives branch deletion.
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize task metadata: %w", err)
	}
	if err := e.repo.CreateTag(ctx, req.Branch, string(metaJSON)); err != nil {
		return nil, err
	}
	if err := e.repo.PushTags(ctx, e.remote()); err != nil {
		return nil, err
	}

	if err := e.repo.PushDelete(ctx, e.remote(), req.Branch); err != nil {
		return nil, err
	}
	if e.repo.BranchExists(req.Branch) {
		if err := e.repo.DeleteLocalBranch(ctx, req.Branch); err != nil {
			return nil, err
		}
	}

	e.log.Info("Published activity branch %s", req.Branch)

	return &Outcome{
		BranchName: req.Branch,
		Action:     req.Action,
		State:      StatePublished,
		CommitSHA:  mergeSHA,
	}, nil
}

// reportConflict restores both branches to their pre-merge state and builds
// the structured conflict report
func (e *Engine) reportConflict(ctx context.Context, branch, branchReset, defaultReset string) error {
	conflicted, pathsErr := e.repo.ConflictedPaths(ctx)

	_ = e.repo.MergeAbort(ctx)
	if err := e.repo.ResetHard(ctx, defaultReset); err != nil {
		return err
	}
	if err := e.repo.Checkout(ctx, branch); err != nil {
		return err
	}
	if err := e.repo.ResetHard(ctx, branchReset); err != nil {
		return err
	}

	changed, err := e.repo.ChangedPaths(ctx, defaultReset, branchReset)
	if err != nil {
		return err
	}

	files := changed
	if pathsErr == nil && len(conflicted) > 0 {
		inConflict := make(map[string]bool, len(conflicted))
		for _, p := range conflicted {
			inConflict[p] = true
		}
		files = nil
		for _, f := range changed {
			if inConflict[f.Path] {
				files = append(files, f)
			}
		}
	}

	return inkwellerrors.NewMergeConflictError(branch, e.defaultBranch(), files)
}

// abandon deletes the activity branch without merging. Irreversible.
func (e *Engine) abandon(ctx context.Context, req ActRequest) (*Outcome, error) {
	if err := e.checkoutAligned(ctx, e.defaultBranch()); err != nil {
		return nil, err
	}

	if e.repo.RemoteBranchExists(e.remote(), req.Branch) {
		if err := e.repo.PushDelete(ctx, e.remote(), req.Branch); err != nil {
			return nil, err
		}
	}
	if e.repo.BranchExists(req.Branch) {
		if err := e.repo.DeleteLocalBranch(ctx, req.Branch); err != nil {
			return nil, err
		}
	}

	e.log.Info("Abandoned activity branch %s", req.Branch)

	return &Outcome{
		BranchName: req.Branch,
		Action:     ActionAbandon,
		State:      StateAbandoned,
	}, nil
}

// markReviewState lands an empty commit whose message encodes a review-state
// transition
func (e *Engine) markReviewState(ctx context.Context, req ActRequest, state ReviewState, stateMsg string) (*Outcome, error) {
	sha, err := e.pushEmptyCommit(ctx, req, reviewStateMessage(req.Branch, req.ActorEmail+" "+stateMsg))
	if err != nil {
		return nil, err
	}
	return &Outcome{
		BranchName: req.Branch,
		Action:     req.Action,
		State:      state,
		CommitSHA:  sha,
	}, nil
}

// comment lands an empty commit carrying feedback text. Comments do not
// change the review state.
func (e *Engine) comment(ctx context.Context, req ActRequest) (*Outcome, error) {
	sha, err := e.pushEmptyCommit(ctx, req, commentMessage(req.Branch, req.Comment))
	if err != nil {
		return nil, err
	}
	return &Outcome{
		BranchName: req.Branch,
		Action:     ActionComment,
		CommitSHA:  sha,
	}, nil
}

// pushEmptyCommit commits an empty marker commit on the activity branch and
// pushes it, re-applying once if the push races with another worker
func (e *Engine) pushEmptyCommit(ctx context.Context, req ActRequest, message string) (string, error) {
	author := git.AuthorFromEmail(req.ActorEmail)

	for attempt := 0; attempt < 2; attempt++ {
		if err := e.checkoutAligned(ctx, req.Branch); err != nil {
			return "", err
		}
		if err := e.repo.CommitEmpty(ctx, message, author); err != nil {
			return "", err
		}

		err := e.repo.Push(ctx, e.remote(), req.Branch)
		if err == nil {
			return e.repo.BranchRevision(req.Branch)
		}
		if !errors.Is(err, inkwellerrors.ErrPushRejected) {
			return "", err
		}

		if err := e.fetchWithRetry(ctx); err != nil {
			return "", err
		}
	}

	tip, _ := e.repo.BranchRevision(req.Branch)
	return "", inkwellerrors.NewStaleBaseError(req.Branch, "", tip)
}
