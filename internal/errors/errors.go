// Package errors provides sentinel errors and custom error types for the inkwell engine.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrSyncFailed indicates that a fetch, pull or push against the shared remote failed.
	// Sync failures are transient; callers may retry the whole operation.
	ErrSyncFailed = errors.New("remote sync failed")

	// ErrPushRejected indicates that a push was rejected because the remote ref moved.
	// The losing side of a push race must re-synchronize and retry.
	ErrPushRejected = errors.New("push rejected")

	// ErrNameCollision indicates that a generated branch name already exists
	ErrNameCollision = errors.New("branch name collision")

	// ErrStaleBase indicates that a save's base revision no longer matches the branch tip
	ErrStaleBase = errors.New("stale base revision")

	// ErrMergeConflict indicates that merging an activity into the default branch conflicted
	ErrMergeConflict = errors.New("merge conflict")

	// ErrUnauthorized indicates that an actor is not allowed to perform an action
	ErrUnauthorized = errors.New("not authorized")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrPathNotFound indicates that a file does not exist at a branch tip
	ErrPathNotFound = errors.New("path not found")
)

// SyncError represents a failed network operation against the shared remote
type SyncError struct {
	Remote string
	Op     string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Remote, e.Err)
}

// Is returns true if the target error is ErrSyncFailed
func (e *SyncError) Is(target error) bool {
	return target == ErrSyncFailed
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(remote, op string, err error) *SyncError {
	return &SyncError{Remote: remote, Op: op, Err: err}
}

// NameCollisionError represents a generated branch name that already exists
type NameCollisionError struct {
	BranchName string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("branch %s already exists", e.BranchName)
}

// Is returns true if the target error is ErrNameCollision
func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// NewNameCollisionError creates a new NameCollisionError
func NewNameCollisionError(branchName string) *NameCollisionError {
	return &NameCollisionError{BranchName: branchName}
}

// StaleBaseError represents a save whose base revision no longer matches the branch tip
type StaleBaseError struct {
	BranchName string
	Expected   string
	Actual     string
}

func (e *StaleBaseError) Error() string {
	return fmt.Sprintf("branch %s moved from %s to %s while saving", e.BranchName, e.Expected, e.Actual)
}

// Is returns true if the target error is ErrStaleBase
func (e *StaleBaseError) Is(target error) bool {
	return target == ErrStaleBase
}

// NewStaleBaseError creates a new StaleBaseError
func NewStaleBaseError(branchName, expected, actual string) *StaleBaseError {
	return &StaleBaseError{BranchName: branchName, Expected: expected, Actual: actual}
}

// Conflict file actions
const (
	ConflictActionCreated = "created"
	ConflictActionDeleted = "deleted"
	ConflictActionEdited  = "edited"
)

// ConflictFile describes one path involved in a merge conflict
type ConflictFile struct {
	Action string
	Path   string
}

// MergeConflictError represents a failed merge of an activity branch into the
// default branch. It carries the conflicting paths so callers can render them
// without re-deriving conflict details from repository state.
type MergeConflictError struct {
	BranchName string
	Target     string
	Files      []ConflictFile
}

func (e *MergeConflictError) Error() string {
	if len(e.Files) == 0 {
		return fmt.Sprintf("merging %s into %s conflicted", e.BranchName, e.Target)
	}
	paths := make([]string, len(e.Files))
	for i, f := range e.Files {
		paths[i] = f.Path
	}
	return fmt.Sprintf("merging %s into %s conflicted on: %s", e.BranchName, e.Target, strings.Join(paths, ", "))
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(branchName, target string, files []ConflictFile) *MergeConflictError {
	return &MergeConflictError{BranchName: branchName, Target: target, Files: files}
}

// UnauthorizedError represents an action rejected by the review authorization rules
type UnauthorizedError struct {
	Actor  string
	Action string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s is not authorized to %s this activity", e.Actor, e.Action)
}

// Is returns true if the target error is ErrUnauthorized
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(actor, action string) *UnauthorizedError {
	return &UnauthorizedError{Actor: actor, Action: action}
}

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
