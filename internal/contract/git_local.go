package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitCount implements the GitClient interface.
func (c *LocalGitClient) GetCommitCount(ctx context.Context, repoPath string) (int, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return count, nil
}

// GetContributors implements the GitClient interface.
func (c *LocalGitClient) GetContributors(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "log", "--format=%ae")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for line := range strings.Lines(string(out)) {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// GetChangeLog implements the GitClient interface.
func (c *LocalGitClient) GetChangeLog(ctx context.Context, repoPath string) ([]byte, error) {
	args := []string{
		"log",
		"--name-only",
		"--pretty=format:",
	}
	return c.Run(ctx, repoPath, args...)
}

// GetLastCommitTime implements the GitClient interface.
func (c *LocalGitClient) GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error) {
	args := []string{
		"log", "-n", "1",
		"--pretty=format:%ad",
		"--date=iso-strict",
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return time.Time{}, err
	}
	dateStr := strings.TrimSpace(string(out))
	return time.Parse(time.RFC3339, dateStr)
}
