package git

import (
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitInfo holds the details of one commit in a branch's log
type CommitInfo struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Subject     string
	Body        string
}

// Message returns the full commit message (subject + body)
func (c CommitInfo) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// splitMessage splits a commit message into subject and body.
// Subject and body are separated by a blank line.
func splitMessage(message string) (string, string) {
	parts := strings.SplitN(message, "\n\n", 2)
	subject := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return subject, ""
	}
	return subject, strings.TrimSpace(parts[1])
}

// CommitLog returns the commit log of a revision, newest first. If path is
// non-empty only commits touching that path are returned. A limit of 0 means
// no limit.
func (r *Repository) CommitLog(rev, path string, limit int) ([]CommitInfo, error) {
	hash, err := r.resolveRevisionHash(rev)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	opts := &gogit.LogOptions{From: hash}
	if path != "" {
		opts.FileName = &path
	}

	iter, err := r.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get log for %s: %w", rev, err)
	}
	defer iter.Close()

	var commits []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		subject, body := splitMessage(c.Message)
		commits = append(commits, CommitInfo{
			SHA:         c.Hash.String(),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			When:        c.Author.When,
			Subject:     subject,
			Body:        body,
		})
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate log: %w", err)
	}

	return commits, nil
}

// CommitDate returns the author date of the commit a revision resolves to
func (r *Repository) CommitDate(rev string) (time.Time, error) {
	hash, err := r.resolveRevisionHash(rev)
	if err != nil {
		return time.Time{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	commit, err := r.CommitObject(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get commit: %w", err)
	}

	return commit.Author.When, nil
}
