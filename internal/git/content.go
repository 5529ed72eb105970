package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// FileAtRevision returns the contents of a file at a revision without
// checking it out. Returns ErrPathNotFound if the file is absent there.
func (r *Repository) FileAtRevision(rev, path string) ([]byte, error) {
	hash, err := r.resolveRevisionHash(rev)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	commit, err := r.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}

	file, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, inkwellerrors.ErrPathNotFound
		}
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, rev, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, rev, err)
	}

	return []byte(contents), nil
}

// FileExistsAtRevision reports whether a file exists at a revision
func (r *Repository) FileExistsAtRevision(rev, path string) (bool, error) {
	_, err := r.FileAtRevision(rev, path)
	if err != nil {
		if errors.Is(err, inkwellerrors.ErrPathNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
