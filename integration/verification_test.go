//go:build basic

// Package integration contains integration tests for codetriage.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// report mirrors the JSON shape of the analysis report for decoding.
type report struct {
	RepoPath string `json:"repo_path"`
	Summary  struct {
		SourceFiles          int            `json:"source_files"`
		TotalFindings        int            `json:"total_findings"`
		FindingsBySeverity   map[string]int `json:"findings_by_severity"`
		TotalRecommendations int            `json:"total_recommendations"`
	} `json:"summary"`
	Findings []struct {
		Type     string `json:"type"`
		Severity string `json:"severity"`
		RuleID   string `json:"rule_id"`
	} `json:"findings"`
	Recommendations []struct {
		Priority string `json:"priority"`
		Category string `json:"category"`
	} `json:"recommendations"`
}

// TestAnalyzeJSONReport verifies the report written by analyze is well formed
// and its summary counts agree with the findings list.
func TestAnalyzeJSONReport(t *testing.T) {
	binaryPath := getCodetriageBinary()
	repoDir := writeSampleRepo(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	cmd := exec.Command(binaryPath, "analyze", repoDir,
		"--skip-typecheck", "--skip-lint", "--skip-history",
		"--history-backend", "none",
		"--output-file", reportPath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "analyze failed: %s", string(output))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal(data, &rep))

	assert.Equal(t, repoDir, rep.RepoPath)
	assert.Equal(t, 1, rep.Summary.SourceFiles)
	assert.Equal(t, len(rep.Findings), rep.Summary.TotalFindings)
	assert.Equal(t, len(rep.Recommendations), rep.Summary.TotalRecommendations)

	severityTotal := 0
	for _, n := range rep.Summary.FindingsBySeverity {
		severityTotal += n
	}
	assert.Equal(t, rep.Summary.TotalFindings, severityTotal)
}

// TestAnalyzeExitCodeOnCriticalFindings verifies the CI gate: a repository
// with a critical complexity finding must produce exit code 1 after the
// report is still written.
func TestAnalyzeExitCodeOnCriticalFindings(t *testing.T) {
	binaryPath := getCodetriageBinary()
	repoDir := t.TempDir()

	// Deeply branched function so cyclomatic complexity far exceeds
	// twice the configured threshold.
	src := `package tangled

func Classify(n int) string {
	if n < 0 {
		return "negative"
	}
	if n == 0 {
		return "zero"
	}
	if n < 10 {
		if n%2 == 0 {
			return "small even"
		}
		return "small odd"
	}
	if n < 100 {
		if n%2 == 0 {
			return "medium even"
		}
		return "medium odd"
	}
	return "large"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "tangled.go"), []byte(src), 0o644))

	reportPath := filepath.Join(t.TempDir(), "report.json")
	cmd := exec.Command(binaryPath, "analyze", repoDir,
		"--skip-typecheck", "--skip-lint", "--skip-history",
		"--history-backend", "none",
		"--complexity-threshold", "2",
		"--output-file", reportPath)
	output, err := cmd.CombinedOutput()
	require.Error(t, err, "expected nonzero exit, got: %s", string(output))

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())

	// The report must still be written before the process exits.
	data, readErr := os.ReadFile(reportPath)
	require.NoError(t, readErr)

	var rep report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Positive(t, rep.Summary.FindingsBySeverity["critical"])
}

// TestVersionCommand verifies the version subcommand output.
func TestVersionCommand(t *testing.T) {
	binaryPath := getCodetriageBinary()

	cmd := exec.Command(binaryPath, "version")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	text := string(output)
	assert.Contains(t, text, "codetriage CLI")
	assert.Contains(t, text, "Version:")
	assert.Contains(t, text, "Runtime:")
}

// TestHistoryLifecycleSQLite verifies analyze records runs into the default
// SQLite store and the history subcommands can read and clear them.
func TestHistoryLifecycleSQLite(t *testing.T) {
	binaryPath := getCodetriageBinary()
	repoDir := writeSampleRepo(t)

	// Point the default SQLite database at an isolated home directory.
	home := t.TempDir()
	env := append(os.Environ(), "HOME="+home)

	analyze := exec.Command(binaryPath, "analyze", repoDir,
		"--skip-typecheck", "--skip-lint", "--skip-history")
	analyze.Env = env
	output, err := analyze.CombinedOutput()
	require.NoError(t, err, "analyze failed: %s", string(output))

	status := exec.Command(binaryPath, "history", "status")
	status.Env = env
	output, err = status.CombinedOutput()
	require.NoError(t, err, "history status failed: %s", string(output))
	assert.Contains(t, string(output), "Total Runs")

	clearCmd := exec.Command(binaryPath, "history", "clear")
	clearCmd.Env = env
	output, err = clearCmd.CombinedOutput()
	require.NoError(t, err, "history clear failed: %s", string(output))
	assert.Contains(t, strings.ToLower(string(output)), "cleared")
}
