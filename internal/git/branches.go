package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// BranchNames returns all local branch names
func (r *Repository) BranchNames() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return names, nil
}

// RemoteBranchNames returns all branch names known on the given remote
func (r *Repository) RemoteBranchNames(remote string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	prefix := "refs/remotes/" + remote + "/"
	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, prefix) {
			short := strings.TrimPrefix(name, prefix)
			if short != "HEAD" {
				names = append(names, short)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate remote branches: %w", err)
	}

	return names, nil
}

// BranchExists reports whether a branch exists locally
func (r *Repository) BranchExists(branchName string) bool {
	_, err := r.Reference(plumbing.NewBranchReferenceName(branchName), true)
	return err == nil
}

// RemoteBranchExists reports whether a branch exists on the given remote
// (as of the last fetch)
func (r *Repository) RemoteBranchExists(remote, branchName string) bool {
	_, err := r.Reference(plumbing.NewRemoteReferenceName(remote, branchName), true)
	return err == nil
}

// CurrentBranch returns the current branch name
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}

// Revision returns the commit SHA a revision resolves to
func (r *Repository) Revision(rev string) (string, error) {
	hash, err := r.resolveRevisionHash(rev)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// BranchRevision returns the commit SHA at the tip of a local branch,
// or ErrBranchNotFound if the branch does not exist
func (r *Repository) BranchRevision(branchName string) (string, error) {
	ref, err := r.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		return "", inkwellerrors.NewBranchNotFoundError(branchName)
	}
	return ref.Hash().String(), nil
}

// RemoteRevision returns the commit SHA at the tip of a remote-tracking branch
func (r *Repository) RemoteRevision(remote, branchName string) (string, error) {
	ref, err := r.Reference(plumbing.NewRemoteReferenceName(remote, branchName), true)
	if err != nil {
		return "", inkwellerrors.NewBranchNotFoundError(remote + "/" + branchName)
	}
	return ref.Hash().String(), nil
}

// TagExists reports whether a tag with the given name exists
func (r *Repository) TagExists(name string) bool {
	_, err := r.Reference(plumbing.NewTagReferenceName(name), true)
	return err == nil
}
