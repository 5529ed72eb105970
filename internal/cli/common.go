// Package cli provides the cobra command surface of inkwell. It plays the
// role of the surrounding web layer: it supplies actor identity, invokes the
// workflow engine and renders outcomes.
package cli

import (
	"errors"
	"fmt"
	"os"

	"inkwell.dev/inkwell/internal/activity"
	"inkwell.dev/inkwell/internal/config"
	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
	"inkwell.dev/inkwell/internal/output"
)

// actorEnvVar is consulted when no --actor flag is given
const actorEnvVar = "INKWELL_ACTOR"

// newEngine opens the repository at the working directory and builds the
// workflow engine over it
func newEngine() (*activity.Engine, *output.Splog, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}

	repo, err := git.Open(cwd)
	if err != nil {
		return nil, nil, fmt.Errorf("not inside a git repository: %w", err)
	}

	cfg, err := config.GetRepoConfig(repo.Root())
	if err != nil {
		return nil, nil, err
	}

	splog, err := output.NewSplogWithFile(output.GetLogFilePath())
	if err != nil {
		splog = output.NewSplog()
	}

	return activity.New(repo, cfg, splog), splog, nil
}

// resolveActor returns the actor email from the flag or environment
func resolveActor(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(actorEnvVar); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no actor identity: pass --actor or set %s", actorEnvVar)
}

// renderError translates engine errors into user-facing messages
func renderError(splog *output.Splog, err error) {
	var conflict *inkwellerrors.MergeConflictError
	if errors.As(err, &conflict) {
		splog.Info("%s", output.FormatConflict(conflict))
		return
	}

	switch {
	case errors.Is(err, inkwellerrors.ErrUnauthorized):
		splog.Error("%s", output.ColorError(err.Error()))
	case errors.Is(err, inkwellerrors.ErrStaleBase):
		splog.Error("Someone else made changes while you were working. Refresh and try again.")
	case errors.Is(err, inkwellerrors.ErrSyncFailed):
		splog.Error("Could not reach the shared repository. Try again in a moment.")
	default:
		splog.Error("%s", err.Error())
	}
}
