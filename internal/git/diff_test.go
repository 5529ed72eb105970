package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

func TestChangedPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies created, deleted and edited paths", func(t *testing.T) {
		helper, repo := newTestRepo(t)
		require.NoError(t, helper.CreateChangeAndCommit("keep.md", "v1\n", "base"))
		base, err := helper.CurrentSHA()
		require.NoError(t, err)

		require.NoError(t, helper.CreateChangeAndCommit("new.md", "new\n", "add new"))
		require.NoError(t, helper.CreateChangeAndCommit("keep.md", "v2\n", "edit keep"))
		require.NoError(t, helper.RunGitCommand("rm", "-q", "README.md"))
		require.NoError(t, helper.RunGitCommand("commit", "-m", "drop readme"))
		tip, err := helper.CurrentSHA()
		require.NoError(t, err)

		files, err := repo.ChangedPaths(ctx, base, tip)
		require.NoError(t, err)

		byPath := map[string]string{}
		for _, f := range files {
			byPath[f.Path] = f.Action
		}
		require.Equal(t, map[string]string{
			"new.md":    inkwellerrors.ConflictActionCreated,
			"keep.md":   inkwellerrors.ConflictActionEdited,
			"README.md": inkwellerrors.ConflictActionDeleted,
		}, byPath)
	})
}

func TestPathChangedBetween(t *testing.T) {
	ctx := context.Background()

	helper, repo := newTestRepo(t)
	require.NoError(t, helper.CreateChangeAndCommit("a.md", "v1\n", "base"))
	base, err := helper.CurrentSHA()
	require.NoError(t, err)
	require.NoError(t, helper.CreateChangeAndCommit("a.md", "v2\n", "edit a"))
	tip, err := helper.CurrentSHA()
	require.NoError(t, err)

	t.Run("true for a path that changed", func(t *testing.T) {
		changed, err := repo.PathChangedBetween(ctx, base, tip, "a.md")
		require.NoError(t, err)
		require.True(t, changed)
	})

	t.Run("false for a path that did not", func(t *testing.T) {
		changed, err := repo.PathChangedBetween(ctx, base, tip, "README.md")
		require.NoError(t, err)
		require.False(t, changed)
	})
}
