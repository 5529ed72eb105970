package activity

import (
	"context"
	"time"

	"inkwell.dev/inkwell/internal/config"
	inkwellerrors "inkwell.dev/inkwell/internal/errors"
	"inkwell.dev/inkwell/internal/git"
	"inkwell.dev/inkwell/internal/output"
)

// Engine drives the activity workflow against one local clone of the shared
// remote. A handle is exclusively owned for the duration of an operation;
// every public operation re-synchronizes before reading or writing because
// other workers may have pushed concurrently.
type Engine struct {
	repo *git.Repository
	cfg  *config.RepoConfig
	log  *output.Splog

	now   func() time.Time
	token func(int) string
}

// New creates an engine over an open repository handle
func New(repo *git.Repository, cfg *config.RepoConfig, log *output.Splog) *Engine {
	if log == nil {
		log = output.NewSplog()
	}
	return &Engine{
		repo:  repo,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		token: randomToken,
	}
}

// Repo returns the underlying repository handle
func (e *Engine) Repo() *git.Repository {
	return e.repo
}

func (e *Engine) remote() string {
	return e.cfg.GetRemote()
}

func (e *Engine) defaultBranch() string {
	return e.cfg.GetDefaultBranch()
}

// fetchWithRetry fetches the remote, retrying once on transient failure
// before surfacing a sync error.
func (e *Engine) fetchWithRetry(ctx context.Context) error {
	err := e.repo.Fetch(ctx, e.remote())
	if err == nil {
		return nil
	}
	e.log.Debug("fetch from %s failed, retrying: %v", e.remote(), err)
	return e.repo.Fetch(ctx, e.remote())
}

// Synchronize fetches the remote and fast-forwards the current branch if it
// has a remote-tracking counterpart. Divergence is resolved in favor of the
// remote: previously cached local state is never trusted.
func (e *Engine) Synchronize(ctx context.Context) error {
	if err := e.fetchWithRetry(ctx); err != nil {
		return err
	}

	branch, err := e.repo.CurrentBranch()
	if err != nil {
		return err
	}

	return e.alignBranch(ctx, branch)
}

// syncBranch fetches, then checks out the branch aligned with its remote
// counterpart.
func (e *Engine) syncBranch(ctx context.Context, branch string) error {
	if err := e.fetchWithRetry(ctx); err != nil {
		return err
	}
	return e.checkoutAligned(ctx, branch)
}

// checkoutAligned checks out a branch and aligns it with the remote
func (e *Engine) checkoutAligned(ctx context.Context, branch string) error {
	remoteExists := e.repo.RemoteBranchExists(e.remote(), branch)
	localExists := e.repo.BranchExists(branch)

	if !remoteExists && !localExists {
		return inkwellerrors.NewBranchNotFoundError(branch)
	}

	if remoteExists {
		if err := e.repo.CheckoutTracking(ctx, e.remote(), branch); err != nil {
			return err
		}
	} else if err := e.repo.Checkout(ctx, branch); err != nil {
		return err
	}

	return e.alignBranch(ctx, branch)
}

// alignBranch brings a checked-out local branch in line with its remote
// counterpart: fast-forward when behind, keep local when ahead (unpushed
// work), reset to the remote when the two have diverged.
func (e *Engine) alignBranch(ctx context.Context, branch string) error {
	remoteSHA, err := e.repo.RemoteRevision(e.remote(), branch)
	if err != nil {
		// No remote counterpart; nothing to align with.
		return nil
	}

	localSHA, err := e.repo.BranchRevision(branch)
	if err != nil {
		return err
	}

	if localSHA == remoteSHA {
		return nil
	}

	behind, err := e.repo.IsAncestor(localSHA, remoteSHA)
	if err != nil {
		return err
	}
	if behind {
		return e.repo.FastForward(ctx, remoteSHA)
	}

	ahead, err := e.repo.IsAncestor(remoteSHA, localSHA)
	if err != nil {
		return err
	}
	if ahead {
		return nil
	}

	e.log.Debug("branch %s diverged from %s/%s, resetting to remote", branch, e.remote(), branch)
	return e.repo.ResetHard(ctx, remoteSHA)
}

// branchRev returns the best revision to read a branch at: the remote
// counterpart when it exists (latest known shared state), the local ref
// otherwise.
func (e *Engine) branchRev(branch string) (string, error) {
	if e.repo.RemoteBranchExists(e.remote(), branch) {
		return e.remote() + "/" + branch, nil
	}
	if e.repo.BranchExists(branch) {
		return branch, nil
	}
	return "", inkwellerrors.NewBranchNotFoundError(branch)
}

// Metadata returns the task metadata at the tip of an activity branch.
// An absent metadata file yields an empty record.
func (e *Engine) Metadata(ctx context.Context, branch string) (TaskMetadata, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return TaskMetadata{}, err
	}

	rev, err := e.branchRev(branch)
	if err != nil {
		return TaskMetadata{}, err
	}

	return readMetadataAt(e.repo, rev)
}

// List enumerates the live activities: every remote branch other than the
// default branch that carries a task-metadata record.
func (e *Engine) List(ctx context.Context) ([]*Activity, error) {
	if err := e.fetchWithRetry(ctx); err != nil {
		return nil, err
	}

	names, err := e.repo.RemoteBranchNames(e.remote())
	if err != nil {
		return nil, err
	}

	var activities []*Activity
	for _, name := range names {
		if name == e.defaultBranch() {
			continue
		}

		rev := e.remote() + "/" + name
		meta, err := readMetadataAt(e.repo, rev)
		if err != nil {
			return nil, err
		}
		if meta.IsEmpty() {
			continue
		}

		tip, err := e.repo.Revision(rev)
		if err != nil {
			return nil, err
		}

		activities = append(activities, &Activity{
			BranchName: name,
			Metadata:   meta,
			BaseSHA:    tip,
		})
	}

	return activities, nil
}
