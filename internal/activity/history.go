package activity

import (
	"context"
)

// DefaultHistoryLimit bounds history listings when no limit is given
const DefaultHistoryLimit = 30

// History derives a human-readable event list from a branch's commit log,
// newest first. If path is non-empty only commits touching that path are
// included. Pure read; no side effects beyond the initial fetch.
func (e *Engine) History(ctx context.Context, branch, path string, limit int) ([]HistoryEntry, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return nil, err
	}

	rev, err := e.branchRev(branch)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	commits, err := e.repo.CommitLog(rev, path, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(commits))
	for _, c := range commits {
		entries = append(entries, HistoryEntry{
			Name:    c.AuthorName,
			Email:   c.AuthorEmail,
			Date:    c.When,
			Subject: c.Subject,
			Kind:    classifyCommit(c),
		})
	}

	return entries, nil
}

// LastUpdated returns when the branch tip was last committed to. There is no
// stored date field; freshness is derived from the log.
func (e *Engine) LastUpdated(ctx context.Context, branch string) (HistoryEntry, error) {
	entries, err := e.History(ctx, branch, "", 1)
	if err != nil {
		return HistoryEntry{}, err
	}
	if len(entries) == 0 {
		return HistoryEntry{}, nil
	}
	return entries[0], nil
}
