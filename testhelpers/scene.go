package testhelpers

import (
	"path/filepath"
	"strconv"
	"testing"
)

// Scene is a test fixture modelling the deployment shape of the workflow
// engine: one bare remote shared by any number of working clones, each clone
// standing in for an independent worker process.
type Scene struct {
	Dir    string
	Remote *GitRepo
	Repo   *GitRepo

	clones int
}

// SceneSetup seeds the remote through the first clone before the test runs
type SceneSetup func(*Scene) error

// NewSceneWithRemote creates a bare remote plus one working clone, runs the
// setup against the clone, and pushes main so the remote has an initial
// default branch. Cleanup is automatic via t.TempDir.
func NewSceneWithRemote(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	dir := t.TempDir()

	remote, err := NewBareRepo(filepath.Join(dir, "remote.git"))
	if err != nil {
		t.Fatalf("failed to create bare remote: %v", err)
	}

	repo, err := NewClone(remote.Dir, filepath.Join(dir, "clone0"))
	if err != nil {
		t.Fatalf("failed to clone remote: %v", err)
	}

	scene := &Scene{
		Dir:    dir,
		Remote: remote,
		Repo:   repo,
		clones: 1,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("scene setup failed: %v", err)
		}
	}

	if err := repo.Push("main"); err != nil {
		t.Fatalf("failed to push main: %v", err)
	}

	return scene
}

// CloneAgain produces an additional independent clone of the remote,
// simulating a concurrently running worker with no shared in-process state
func (s *Scene) CloneAgain(t *testing.T) *GitRepo {
	t.Helper()

	s.clones++
	clone, err := NewClone(s.Remote.Dir, filepath.Join(s.Dir, "clone"+strconv.Itoa(s.clones)))
	if err != nil {
		t.Fatalf("failed to clone remote: %v", err)
	}
	return clone
}
