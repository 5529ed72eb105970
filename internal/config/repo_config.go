// Package config provides repository configuration management,
// including reading and writing inkwell configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = ".inkwell_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	DefaultBranch *string  `json:"defaultBranch,omitempty"`
	Remote        *string  `json:"remote,omitempty"`
	Operators     []string `json:"operators,omitempty"`
}

// GetRepoConfig reads the repository configuration from .git/.inkwell_config.
// A missing file yields the default configuration.
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	configPath := filepath.Join(repoRoot, ".git", configFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// WriteRepoConfig writes the repository configuration
func WriteRepoConfig(repoRoot string, config *RepoConfig) error {
	configPath := filepath.Join(repoRoot, ".git", configFileName)

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal repo config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write repo config: %w", err)
	}

	return nil
}

// GetDefaultBranch returns the configured default branch, or "main"
func (c *RepoConfig) GetDefaultBranch() string {
	if c.DefaultBranch != nil && *c.DefaultBranch != "" {
		return *c.DefaultBranch
	}
	return "main"
}

// GetRemote returns the configured remote name, or "origin"
func (c *RepoConfig) GetRemote() string {
	if c.Remote != nil && *c.Remote != "" {
		return *c.Remote
	}
	return "origin"
}

// IsOperator reports whether an email belongs to the distinguished operator
// role allowed to clobber the default branch. The role source is external;
// here it is a configured list.
func (c *RepoConfig) IsOperator(email string) bool {
	for _, op := range c.Operators {
		if strings.EqualFold(op, email) {
			return true
		}
	}
	return false
}
