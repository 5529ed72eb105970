package activity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"inkwell.dev/inkwell/internal/git"
)

func reviewCommit(sha, email, stateMsg string) git.CommitInfo {
	msg := reviewStateMessage("some-branch", email+" "+stateMsg)
	subject, body, _ := splitForTest(msg)
	return git.CommitInfo{SHA: sha, AuthorEmail: email, Subject: subject, Body: body}
}

func commentCommit(sha, email, text string) git.CommitInfo {
	msg := commentMessage("some-branch", text)
	subject, body, _ := splitForTest(msg)
	return git.CommitInfo{SHA: sha, AuthorEmail: email, Subject: subject, Body: body}
}

func editCommit(sha, email string) git.CommitInfo {
	return git.CommitInfo{SHA: sha, AuthorEmail: email, Subject: "Edited \"posts/hello.md\""}
}

func creationCommit(sha, email string) git.CommitInfo {
	msg := creationMessage(TaskMetadata{AuthorEmail: email, TaskDescription: "hello"})
	subject, body, _ := splitForTest(msg)
	return git.CommitInfo{SHA: sha, AuthorEmail: email, Subject: subject, Body: body}
}

func splitForTest(msg string) (string, string, bool) {
	return strings.Cut(msg, "\n\n")
}

func TestStateFromLog(t *testing.T) {
	base := "base0000"

	t.Run("fresh branch is unreviewed", func(t *testing.T) {
		commits := []git.CommitInfo{
			creationCommit("c1", "author@example.com"),
			{SHA: base, Subject: "initial"},
		}
		state, actor := StateFromLog(commits, base)
		require.Equal(t, StateUnreviewed, state)
		require.Equal(t, "author@example.com", actor)
	})

	t.Run("most recent review commit decides", func(t *testing.T) {
		commits := []git.CommitInfo{
			reviewCommit("c3", "reviewer@example.com", msgEndorsed),
			reviewCommit("c2", "author@example.com", msgFeedbackRequested),
			creationCommit("c1", "author@example.com"),
			{SHA: base, Subject: "initial"},
		}
		state, actor := StateFromLog(commits, base)
		require.Equal(t, StateEndorsed, state)
		require.Equal(t, "reviewer@example.com", actor)
	})

	t.Run("content commit after endorsement reverts to unreviewed", func(t *testing.T) {
		commits := []git.CommitInfo{
			editCommit("c3", "author@example.com"),
			reviewCommit("c2", "reviewer@example.com", msgEndorsed),
			creationCommit("c1", "author@example.com"),
			{SHA: base, Subject: "initial"},
		}
		state, _ := StateFromLog(commits, base)
		require.Equal(t, StateUnreviewed, state)
	})

	t.Run("comments carry no state", func(t *testing.T) {
		commits := []git.CommitInfo{
			commentCommit("c3", "reviewer@example.com", "looks good"),
			reviewCommit("c2", "author@example.com", msgFeedbackRequested),
			creationCommit("c1", "author@example.com"),
			{SHA: base, Subject: "initial"},
		}
		state, actor := StateFromLog(commits, base)
		require.Equal(t, StateFeedbackRequested, state)
		require.Equal(t, "author@example.com", actor)
	})

	t.Run("stops at the merge base", func(t *testing.T) {
		commits := []git.CommitInfo{
			{SHA: base, Subject: "initial"},
			reviewCommit("c0", "reviewer@example.com", msgEndorsed),
		}
		state, actor := StateFromLog(commits, base)
		require.Equal(t, StateUnreviewed, state)
		require.Empty(t, actor)
	})

	t.Run("empty log is unreviewed", func(t *testing.T) {
		state, actor := StateFromLog(nil, base)
		require.Equal(t, StateUnreviewed, state)
		require.Empty(t, actor)
	})
}

func TestAuthorize(t *testing.T) {
	meta := TaskMetadata{AuthorEmail: "author@example.com"}

	tests := []struct {
		name     string
		actor    string
		action   Action
		operator bool
		want     bool
	}{
		{"author cannot merge own work", "author@example.com", ActionMerge, false, false},
		{"author cannot merge even as operator", "author@example.com", ActionMerge, true, false},
		{"anyone else may merge", "reviewer@example.com", ActionMerge, false, true},
		{"author may abandon", "author@example.com", ActionAbandon, false, true},
		{"operator may abandon", "ops@example.com", ActionAbandon, true, true},
		{"bystander may not abandon", "reviewer@example.com", ActionAbandon, false, false},
		{"clobber requires operator", "reviewer@example.com", ActionClobber, false, false},
		{"operator may clobber", "ops@example.com", ActionClobber, true, true},
		{"author cannot endorse own work", "author@example.com", ActionEndorse, false, false},
		{"reviewer may endorse", "reviewer@example.com", ActionEndorse, false, true},
		{"reviewer may request feedback", "reviewer@example.com", ActionRequestFeedback, false, true},
		{"reviewer may comment", "reviewer@example.com", ActionComment, false, true},
		{"author email match is case-insensitive", "Author@Example.com", ActionMerge, false, false},
		{"empty actor is never authorized", "", ActionComment, false, false},
		{"unknown action is never authorized", "reviewer@example.com", Action("detonate"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Authorize(meta, tt.actor, tt.action, tt.operator))
		})
	}
}

func TestAuthorizedActions(t *testing.T) {
	meta := TaskMetadata{AuthorEmail: "author@example.com"}

	t.Run("author gets abandon only", func(t *testing.T) {
		actions := AuthorizedActions(meta, "author@example.com", false)
		require.Equal(t, []Action{ActionAbandon}, actions)
	})

	t.Run("reviewer gets review actions and merge", func(t *testing.T) {
		actions := AuthorizedActions(meta, "reviewer@example.com", false)
		require.ElementsMatch(t,
			[]Action{ActionRequestFeedback, ActionEndorse, ActionComment, ActionMerge},
			actions)
	})

	t.Run("operator additionally gets abandon and clobber", func(t *testing.T) {
		actions := AuthorizedActions(meta, "ops@example.com", true)
		require.Contains(t, actions, ActionAbandon)
		require.Contains(t, actions, ActionClobber)
	})
}

func TestClassifyCommit(t *testing.T) {
	require.Equal(t, KindReview, classifyCommit(reviewCommit("c", "a@b.c", msgEndorsed)))
	require.Equal(t, KindComment, classifyCommit(commentCommit("c", "a@b.c", "hi")))
	require.Equal(t, KindCreation, classifyCommit(creationCommit("c", "a@b.c")))
	require.Equal(t, KindEdit, classifyCommit(editCommit("c", "a@b.c")))
}

func TestCommentFromCommit(t *testing.T) {
	t.Run("round-trips the comment text", func(t *testing.T) {
		text, ok := CommentFromCommit(commentCommit("c", "a@b.c", "needs a shorter intro"))
		require.True(t, ok)
		require.Equal(t, "needs a shorter intro", text)
	})

	t.Run("rejects non-comment commits", func(t *testing.T) {
		_, ok := CommentFromCommit(editCommit("c", "a@b.c"))
		require.False(t, ok)
	})
}
