// Package activity implements the activity workflow engine: it maps each
// editorial task onto a git branch, tracks its review state from the commit
// trail, keeps the local clone synchronized with the shared remote, and
// resolves the three terminal outcomes (merge, abandon, clobber).
//
// All durable state lives in the git repository and its remote. There is no
// in-process coordination between workers; mutual exclusion comes from git's
// atomic ref updates and the optimistic base-revision check in Save.
package activity
