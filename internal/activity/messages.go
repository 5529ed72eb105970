package activity

import (
	"encoding/json"
	"fmt"
	"strings"

	"inkwell.dev/inkwell/internal/git"
)

// Commit-message markers. Review-action commits are distinguished from
// content commits by their subject line; the body carries a small JSON
// record naming the branch and the state transition.
const (
	subjectReviewState = "Updated review state."
	subjectComment     = "Provided feedback."

	activityCreatedSuffix = "activity was started"

	msgFeedbackRequested = "requested feedback on this activity."
	msgEndorsed          = "endorsed this activity."
	msgPublished         = "published this activity."
)

// CommitKind classifies a commit in an activity branch's log
type CommitKind string

// Commit kinds
const (
	KindEdit     CommitKind = "edit"
	KindComment  CommitKind = "comment"
	KindReview   CommitKind = "review"
	KindCreation CommitKind = "creation"
)

type messageBody struct {
	BranchName string `json:"branch_name"`
	Message    string `json:"message"`
}

func makeMessage(subject, body string) string {
	return subject + "\n\n" + body
}

func reviewStateMessage(branchName, stateMsg string) string {
	body, _ := json.Marshal(messageBody{BranchName: branchName, Message: stateMsg})
	return makeMessage(subjectReviewState, string(body))
}

func commentMessage(branchName, commentText string) string {
	body, _ := json.Marshal(messageBody{BranchName: branchName, Message: commentText})
	return makeMessage(subjectComment, string(body))
}

func creationMessage(meta TaskMetadata) string {
	body, _ := json.Marshal(meta)
	subject := fmt.Sprintf("The %q %s", meta.TaskDescription, activityCreatedSuffix)
	return makeMessage(subject, string(body))
}

func clobberMessage(branchName string) string {
	return fmt.Sprintf("Clobbered with work from %q", branchName)
}

// classifyCommit determines what kind of event a commit represents, based on
// its subject line
func classifyCommit(c git.CommitInfo) CommitKind {
	switch {
	case c.Subject == subjectReviewState:
		return KindReview
	case c.Subject == subjectComment:
		return KindComment
	case strings.HasSuffix(c.Subject, activityCreatedSuffix):
		return KindCreation
	default:
		return KindEdit
	}
}

// reviewStateFromCommit extracts the review state encoded in a review-action
// commit. Returns false for anything it cannot parse.
func reviewStateFromCommit(c git.CommitInfo) (ReviewState, bool) {
	var body messageBody
	if err := json.Unmarshal([]byte(c.Body), &body); err != nil {
		return "", false
	}

	switch {
	case strings.Contains(body.Message, msgFeedbackRequested):
		return StateFeedbackRequested, true
	case strings.Contains(body.Message, msgEndorsed):
		return StateEndorsed, true
	case strings.Contains(body.Message, msgPublished):
		return StatePublished, true
	}
	return "", false
}

// CommentFromCommit extracts the comment text from a feedback commit.
// Returns false if the commit is not a comment.
func CommentFromCommit(c git.CommitInfo) (string, bool) {
	if c.Subject != subjectComment {
		return "", false
	}
	var body messageBody
	if err := json.Unmarshal([]byte(c.Body), &body); err != nil {
		return "", false
	}
	return body.Message, true
}
