// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/kweller/codetriage/schema"
)

// Sentinel errors for external tool execution.
var (
	// ErrToolNotFound indicates the tool binary is not installed or not on PATH.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolTimeout indicates the tool exceeded its execution deadline.
	ErrToolTimeout = errors.New("tool timed out")
)

// GitClient defines the necessary operations for repository history metrics.
// This allows the metrics collection to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitCount returns the total number of commits reachable from HEAD.
	GetCommitCount(ctx context.Context, repoPath string) (int, error)

	// GetContributors returns the distinct author emails across the full history.
	GetContributors(ctx context.Context, repoPath string) ([]string, error)

	// GetChangeLog returns the raw name-only commit log needed to count
	// how often each file has changed.
	GetChangeLog(ctx context.Context, repoPath string) ([]byte, error)

	// GetLastCommitTime returns the author time of the most recent commit.
	GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error)
}

// ToolRunner defines the execution surface for external analyzer tools.
// This allows the normalizer pipelines to be tested without real binaries.
type ToolRunner interface {
	// Run executes the tool inside dir and returns its stdout and stderr.
	// A non-zero exit that still produced output is not an error, since
	// checkers report findings through their exit code. Failures map onto
	// ErrToolNotFound and ErrToolTimeout where applicable.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout []byte, stderr []byte, err error)

	// LookPath reports whether the named tool is available for execution.
	LookPath(name string) (string, error)
}

// HistoryManager defines the interface for managing run-history stores.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetRunStore() HistoryStore
}

// HistoryStore defines the interface for recording analysis runs.
// Runs are write-only during analysis; they are read back only by the
// history subcommands.
type HistoryStore interface {
	// BeginRun creates a new run row and returns its unique ID
	BeginRun(repoPath string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run row with completion data
	EndRun(runID int64, endTime time.Time, sourceFiles, totalFindings, criticalCount int) error

	// RecordRunFindings stores the findings emitted by a run
	RecordRunFindings(runID int64, findings []schema.Finding) error

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunFindings returns every recorded finding, oldest run first
	GetAllRunFindings() ([]schema.RunFindingRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Clear deletes all recorded runs and findings
	Clear() error

	// Close closes the underlying connection
	Close() error
}
