package git

import (
	"context"
	"fmt"
	"strings"
)

// Author identifies the person a commit is attributed to
type Author struct {
	Name  string
	Email string
}

// AuthorFromEmail derives an Author from a bare email address. The engine
// only ever receives an opaque actor email; the display name falls back to
// the mailbox part.
func AuthorFromEmail(email string) Author {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return Author{Name: name, Email: email}
}

func (a Author) env() []string {
	return []string{
		"GIT_AUTHOR_NAME=" + a.Name,
		"GIT_AUTHOR_EMAIL=" + a.Email,
		"GIT_COMMITTER_NAME=" + a.Name,
		"GIT_COMMITTER_EMAIL=" + a.Email,
	}
}

// Commit commits staged changes with the given message, attributed to author
func (r *Repository) Commit(ctx context.Context, message string, author Author) error {
	_, err := r.runner.RunWithEnv(ctx, author.env(), "commit", "-m", message)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CommitEmpty creates a commit with no tree changes, attributed to author.
// Used for review-action commits whose message encodes a state transition.
func (r *Repository) CommitEmpty(ctx context.Context, message string, author Author) error {
	_, err := r.runner.RunWithEnv(ctx, author.env(), "commit", "--allow-empty", "-m", message)
	if err != nil {
		return fmt.Errorf("failed to create empty commit: %w", err)
	}
	return nil
}

// AmendNoEdit amends the last commit keeping its message
func (r *Repository) AmendNoEdit(ctx context.Context) error {
	_, err := r.runner.Run(ctx, "commit", "--amend", "--no-edit")
	if err != nil {
		return fmt.Errorf("failed to amend commit: %w", err)
	}
	return nil
}
