// Package testhelpers provides utilities for building real git repositories
// in tests: a bare "remote" plus one or more working clones.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a git repository for testing purposes
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new git repository in the specified directory
func NewGitRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.configureUser(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewBareRepo initializes a bare repository to play the shared remote
func NewBareRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "init", "--bare", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init bare repo: %w", err)
	}
	return &GitRepo{Dir: dir}, nil
}

// NewClone clones a repository (typically the bare remote) into dir
func NewClone(remoteDir, dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", remoteDir, dir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to clone repo: %w", err)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.configureUser(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *GitRepo) configureUser() error {
	if err := r.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return err
	}
	return r.RunGitCommand("config", "user.email", "test@example.com")
}

// RunGitCommand executes a git command in the repository directory
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes a file inside the repository, creating directories as needed
func (r *GitRepo) WriteFile(relPath, content string) error {
	fullPath := filepath.Join(r.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(fullPath, []byte(content), 0600)
}

// ReadFile reads a file inside the repository
func (r *GitRepo) ReadFile(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, relPath))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileExists reports whether a path exists inside the repository
func (r *GitRepo) FileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(r.Dir, relPath))
	return err == nil
}

// CreateChangeAndCommit writes a file, stages it and commits it
func (r *GitRepo) CreateChangeAndCommit(relPath, content, message string) error {
	if err := r.WriteFile(relPath, content); err != nil {
		return err
	}
	if err := r.RunGitCommand("add", "--", relPath); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", message)
}

// CommitAs writes, stages and commits a file attributed to the given author email
func (r *GitRepo) CommitAs(relPath, content, message, email string) error {
	if err := r.WriteFile(relPath, content); err != nil {
		return err
	}
	if err := r.RunGitCommand("add", "--", relPath); err != nil {
		return err
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_AUTHOR_NAME="+name,
		"GIT_AUTHOR_EMAIL="+email,
		"GIT_COMMITTER_NAME="+name,
		"GIT_COMMITTER_EMAIL="+email,
	)
	return cmd.Run()
}

// Push pushes a branch to origin
func (r *GitRepo) Push(branch string) error {
	return r.RunGitCommand("push", "-u", "origin", branch)
}

// Checkout checks out a branch
func (r *GitRepo) Checkout(branch string) error {
	return r.RunGitCommand("checkout", branch)
}

// CurrentSHA returns the SHA at HEAD
func (r *GitRepo) CurrentSHA() (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "HEAD")
}

// BranchSHA returns the SHA at the tip of a branch
func (r *GitRepo) BranchSHA(branch string) (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "refs/heads/"+branch)
}

// BranchExists reports whether a local branch exists
func (r *GitRepo) BranchExists(branch string) bool {
	return r.RunGitCommand("show-ref", "--verify", "--quiet", "refs/heads/"+branch) == nil
}
