package activity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
)

// maxSaveAttempts bounds the optimistic-concurrency retry loop. The real
// mutual-exclusion point is the remote ref update; losers of a push race
// re-synchronize and re-apply rather than blocking on a lock.
const maxSaveAttempts = 3

// SaveOp is the kind of file-level mutation a save performs
type SaveOp string

// Save operations
const (
	SaveOpCreate SaveOp = "create"
	SaveOpEdit   SaveOp = "edit"
	SaveOpDelete SaveOp = "delete"
	SaveOpMove   SaveOp = "move"
)

// SaveRequest describes one file-level change against an activity branch
type SaveRequest struct {
	Branch  string
	Op      SaveOp
	Path    string
	NewPath string // move only
	Content []byte // create and edit
	// Message overrides the structured default commit message
	Message string
	// BaseSHA is the branch tip the caller last observed
	BaseSHA     string
	AuthorEmail string
}

// SaveResult reports the outcome of a save
type SaveResult struct {
	// Path is the path the change landed at (normalized on create)
	Path string
	// Saved is false when the change could not be applied because the file
	// was concurrently modified in a conflicting way; the caller must
	// re-fetch and retry with the new state
	Saved     bool
	CommitSHA string
}

// Save applies one file-level change to an activity branch and pushes it.
//
// The branch tip is verified against the caller's BaseSHA before committing.
// If the branch has moved, the change is re-applied on top of the new tip
// unless the same file was concurrently modified with different content, in
// which case Saved=false is returned and no commit is made. A save whose
// content already matches the branch tip produces no new commit.
func (e *Engine) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	if err := e.syncBranch(ctx, req.Branch); err != nil {
		return SaveResult{}, err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		tip, err := e.repo.BranchRevision(req.Branch)
		if err != nil {
			return SaveResult{}, err
		}

		if req.BaseSHA != "" && tip != req.BaseSHA {
			conflicting, err := e.baseConflicts(ctx, req, tip)
			if err != nil {
				return SaveResult{}, err
			}
			if conflicting {
				return SaveResult{Path: req.Path, Saved: false, CommitSHA: tip}, nil
			}
		}

		newPath, err := e.applyChange(ctx, req)
		if err != nil {
			return SaveResult{}, err
		}

		staged, err := e.repo.HasStagedChanges(ctx)
		if err != nil {
			return SaveResult{}, err
		}
		if !staged {
			// No-op: the branch tip already carries this exact change.
			return SaveResult{Path: newPath, Saved: true, CommitSHA: tip}, nil
		}

		message := req.Message
		if message == "" {
			message = defaultSaveMessage(req, newPath)
		}
		if err := e.repo.Commit(ctx, message, git.AuthorFromEmail(req.AuthorEmail)); err != nil {
			return SaveResult{}, err
		}

		err = e.repo.Push(ctx, e.remote(), req.Branch)
		if err == nil {
			sha, err := e.repo.BranchRevision(req.Branch)
			if err != nil {
				return SaveResult{}, err
			}
			e.log.Debug("saved %s on %s at %s", newPath, req.Branch, sha)
			return SaveResult{Path: newPath, Saved: true, CommitSHA: sha}, nil
		}

		if !errors.Is(err, inkwellerrors.ErrPushRejected) {
			return SaveResult{}, err
		}

		// Lost the push race: syncBranch resets the local branch onto the
		// moved remote tip, discarding our commit; re-apply on top of it.
		e.log.Debug("push race lost on %s, re-applying (attempt %d)", req.Branch, attempt+1)
		if err := e.syncBranch(ctx, req.Branch); err != nil {
			return SaveResult{}, err
		}
	}

	tip, _ := e.repo.BranchRevision(req.Branch)
	return SaveResult{}, inkwellerrors.NewStaleBaseError(req.Branch, req.BaseSHA, tip)
}

// baseConflicts decides whether a save against a moved branch tip must be
// rejected: the target path changed between the caller's base and the new
// tip, and the caller's content is not what the tip already holds.
func (e *Engine) baseConflicts(ctx context.Context, req SaveRequest, tip string) (bool, error) {
	changed, err := e.repo.PathChangedBetween(ctx, req.BaseSHA, tip, req.Path)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if req.Op == SaveOpCreate || req.Op == SaveOpEdit {
		current, err := e.repo.FileAtRevision(tip, req.Path)
		if err == nil && bytes.Equal(current, req.Content) {
			// Both sides made the identical change.
			return false, nil
		}
	}

	return true, nil
}

// applyChange mutates the working tree per the request and stages the
// result, returning the path the change landed at
func (e *Engine) applyChange(ctx context.Context, req SaveRequest) (string, error) {
	switch req.Op {
	case SaveOpCreate:
		target := NormalizePath(req.Path)
		full := e.repo.FullPath(target)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return "", fmt.Errorf("failed to create directories for %s: %w", target, err)
		}
		if err := os.WriteFile(full, req.Content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", target, err)
		}
		return target, e.repo.Stage(ctx, target)

	case SaveOpEdit:
		full := e.repo.FullPath(req.Path)
		if _, err := os.Stat(full); err != nil {
			return "", fmt.Errorf("%s: %w", req.Path, inkwellerrors.ErrPathNotFound)
		}
		if err := os.WriteFile(full, req.Content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", req.Path, err)
		}
		return req.Path, e.repo.Stage(ctx, req.Path)

	case SaveOpDelete:
		if _, err := os.Stat(e.repo.FullPath(req.Path)); err != nil {
			return "", fmt.Errorf("%s: %w", req.Path, inkwellerrors.ErrPathNotFound)
		}
		return req.Path, e.repo.StageRemoval(ctx, req.Path)

	case SaveOpMove:
		if _, err := os.Stat(e.repo.FullPath(req.Path)); err != nil {
			return "", fmt.Errorf("%s: %w", req.Path, inkwellerrors.ErrPathNotFound)
		}
		target := NormalizePath(req.NewPath)
		full := e.repo.FullPath(target)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return "", fmt.Errorf("failed to create directories for %s: %w", target, err)
		}
		return target, e.repo.Move(ctx, req.Path, target)

	default:
		return "", fmt.Errorf("unknown save operation %q", req.Op)
	}
}

func defaultSaveMessage(req SaveRequest, path string) string {
	switch req.Op {
	case SaveOpCreate:
		return fmt.Sprintf("Created %q", path)
	case SaveOpEdit:
		return fmt.Sprintf("Edited %q", path)
	case SaveOpDelete:
		return fmt.Sprintf("Deleted %q", path)
	case SaveOpMove:
		return fmt.Sprintf("Renamed %q to %q", req.Path, path)
	default:
		return fmt.Sprintf("Changed %q", path)
	}
}
