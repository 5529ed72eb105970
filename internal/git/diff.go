package git

import (
	"context"
	"fmt"
	"strings"

	inkwellerrors "inkwell.dev/inkwell/internal/errors"
)

// ChangedPaths returns the paths that differ between two revisions,
// classified as created, deleted or edited relative to rev1
func (r *Repository) ChangedPaths(ctx context.Context, rev1, rev2 string) ([]inkwellerrors.ConflictFile, error) {
	lines, err := r.runner.RunLines(ctx, "diff", "--name-status", rev1, rev2)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", rev1, rev2, err)
	}

	var files []inkwellerrors.ConflictFile
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		status, path := fields[0], fields[len(fields)-1]

		var action string
		switch {
		case strings.HasPrefix(status, "A"):
			action = inkwellerrors.ConflictActionCreated
		case strings.HasPrefix(status, "D"):
			action = inkwellerrors.ConflictActionDeleted
		default:
			action = inkwellerrors.ConflictActionEdited
		}
		files = append(files, inkwellerrors.ConflictFile{Action: action, Path: path})
	}

	return files, nil
}

// PathChangedBetween reports whether a path differs between two revisions
func (r *Repository) PathChangedBetween(ctx context.Context, rev1, rev2, path string) (bool, error) {
	out, err := r.runner.Run(ctx, "diff", "--name-only", rev1, rev2, "--", path)
	if err != nil {
		return false, fmt.Errorf("failed to diff %s for %s..%s: %w", path, rev1, rev2, err)
	}
	return out != "", nil
}
