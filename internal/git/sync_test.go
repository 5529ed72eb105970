package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
	"inkwell.dev/inkwell/testhelpers"
)

func TestPush(t *testing.T) {
	ctx := context.Background()

	t.Run("losing a push race reports rejection", func(t *testing.T) {
		scene := testhelpers.NewSceneWithRemote(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("index.md", "hello\n", "initial")
		})

		winner := scene.CloneAgain(t)
		require.NoError(t, winner.CreateChangeAndCommit("w.md", "w\n", "winner"))
		require.NoError(t, winner.Push("main"))

		// The first clone never saw the winner's commit.
		require.NoError(t, scene.Repo.CreateChangeAndCommit("l.md", "l\n", "loser"))
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		err = repo.Push(ctx, "origin", "main")
		require.ErrorIs(t, err, inkwellerrors.ErrPushRejected)
	})

	t.Run("fast-forward push succeeds", func(t *testing.T) {
		scene := testhelpers.NewSceneWithRemote(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("index.md", "hello\n", "initial")
		})

		require.NoError(t, scene.Repo.CreateChangeAndCommit("more.md", "more\n", "more"))
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.Push(ctx, "origin", "main"))

		sha, err := scene.Repo.CurrentSHA()
		require.NoError(t, err)
		remoteSHA, err := scene.Remote.BranchSHA("main")
		require.NoError(t, err)
		require.Equal(t, sha, remoteSHA)
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("brings remote branches into view", func(t *testing.T) {
		scene := testhelpers.NewSceneWithRemote(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("index.md", "hello\n", "initial")
		})

		other := scene.CloneAgain(t)
		require.NoError(t, other.RunGitCommand("checkout", "-b", "feature"))
		require.NoError(t, other.CreateChangeAndCommit("f.md", "f\n", "feature work"))
		require.NoError(t, other.Push("feature"))

		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		require.False(t, repo.RemoteBranchExists("origin", "feature"))

		require.NoError(t, repo.Fetch(ctx, "origin"))
		require.True(t, repo.RemoteBranchExists("origin", "feature"))
	})

	t.Run("prunes deleted remote branches", func(t *testing.T) {
		scene := testhelpers.NewSceneWithRemote(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("index.md", "hello\n", "initial")
		})

		other := scene.CloneAgain(t)
		require.NoError(t, other.RunGitCommand("checkout", "-b", "doomed"))
		require.NoError(t, other.Push("doomed"))

		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		require.NoError(t, repo.Fetch(ctx, "origin"))
		require.True(t, repo.RemoteBranchExists("origin", "doomed"))

		require.NoError(t, other.RunGitCommand("push", "origin", ":doomed"))
		require.NoError(t, repo.Fetch(ctx, "origin"))
		require.False(t, repo.RemoteBranchExists("origin", "doomed"))
	})

	t.Run("unreachable remote reports a sync failure", func(t *testing.T) {
		helper, err := testhelpers.NewGitRepo(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, helper.CreateChangeAndCommit("index.md", "hello\n", "initial"))
		require.NoError(t, helper.RunGitCommand("remote", "add", "origin", "/nonexistent/remote.git"))

		repo, err := git.Open(helper.Dir)
		require.NoError(t, err)

		err = repo.Fetch(ctx, "origin")
		require.ErrorIs(t, err, inkwellerrors.ErrSyncFailed)
	})
}
