package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidityMaps(t *testing.T) {
	assert.Contains(t, ValidOutputModes, JSONOut)
	assert.Contains(t, ValidOutputModes, TextOut)
	assert.NotContains(t, ValidOutputModes, OutputMode("csv"))

	for _, b := range []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend} {
		assert.Contains(t, ValidDatabaseBackends, b)
	}
}

func TestAnalysisResultJSONShape(t *testing.T) {
	result := &AnalysisResult{
		RepoPath:          "/tmp/demo",
		AnalysisTimestamp: "2026-01-02T15:04:05Z",
		Summary: AnalysisSummary{
			TotalFiles:    1,
			SourceFiles:   3,
			TotalFindings: 1,
			FindingsBySeverity: map[Severity]int{
				SeverityHigh: 1,
			},
			FindingsByType: map[FindingType]int{
				TypeBug: 1,
			},
			TotalRecommendations: 1,
		},
		Findings: []Finding{
			{
				Type:     TypeBug,
				Severity: SeverityHigh,
				Location: Location{File: "main.go", Line: 10, Column: 2},
				Message:  "something broke",
				RuleID:   "staticcheck:SA4006",
			},
		},
		Recommendations: []Recommendation{
			{
				Priority:  PriorityHigh,
				Category:  "High Severity Issues",
				Action:    "Address 1 high-severity issue",
				Rationale: "because",
				Impact:    "better code",
				Effort:    "medium",
			},
		},
	}

	out, err := result.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "/tmp/demo", decoded["repo_path"])
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "findings")
	assert.Contains(t, decoded, "recommendations")
	assert.NotContains(t, decoded, "git_metrics", "nil metrics should be omitted")

	summary := decoded["summary"].(map[string]any)
	assert.EqualValues(t, 3, summary["source_files"])
	assert.EqualValues(t, 1, summary["total_recommendations"])

	finding := decoded["findings"].([]any)[0].(map[string]any)
	loc := finding["location"].(map[string]any)
	assert.Equal(t, "main.go", loc["file"])
	assert.NotContains(t, loc, "end_line", "unset location fields should be omitted")
	assert.NotContains(t, loc, "function")
}
