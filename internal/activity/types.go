package activity

import (
	"time"
)

// ReviewState is the derived review state of an activity. It is computed
// from the branch's commit trail, never stored directly.
type ReviewState string

// Review states
const (
	StateUnreviewed        ReviewState = "unreviewed"
	StateFeedbackRequested ReviewState = "feedback_requested"
	StateEndorsed          ReviewState = "endorsed"
	StatePublished         ReviewState = "published"
	StateAbandoned         ReviewState = "abandoned"
	StateConflicted        ReviewState = "conflicted"
)

// Action is a review or terminal action requested against an activity
type Action string

// Actions
const (
	ActionRequestFeedback Action = "request_feedback"
	ActionEndorse         Action = "endorse"
	ActionComment         Action = "comment"
	ActionMerge           Action = "merge"
	ActionAbandon         Action = "abandon"
	ActionClobber         Action = "clobber"
)

// TaskMetadata is the structured record committed as _task.yml at the root
// of every activity branch. All fields are optional on read.
type TaskMetadata struct {
	AuthorEmail     string `yaml:"author_email,omitempty" json:"author_email,omitempty"`
	TaskDescription string `yaml:"task_description,omitempty" json:"task_description,omitempty"`
	TaskBeneficiary string `yaml:"task_beneficiary,omitempty" json:"task_beneficiary,omitempty"`
}

// IsEmpty reports whether the record carries no fields
func (m TaskMetadata) IsEmpty() bool {
	return m == TaskMetadata{}
}

// Activity is one editorial task: a branch plus its metadata record
type Activity struct {
	BranchName string
	Metadata   TaskMetadata
	// BaseSHA is the branch tip the caller last observed, used as an
	// optimistic-concurrency token for saves.
	BaseSHA string
}

// ReviewStatus is the result of a review-state computation
type ReviewStatus struct {
	BranchName string
	State      ReviewState
	// LastActor is the author of the commit that determined the state
	LastActor  string
	Metadata   TaskMetadata
	BranchTip  string
	DefaultTip string
	// AuthorizedActions lists the actions the queried actor may perform
	AuthorizedActions []Action
}

// Outcome is the result of a successfully applied action
type Outcome struct {
	BranchName string
	Action     Action
	State      ReviewState
	CommitSHA  string
}

// HistoryEntry is one event derived from the branch's commit log
type HistoryEntry struct {
	Name    string
	Email   string
	Date    time.Time
	Subject string
	Kind    CommitKind
}
