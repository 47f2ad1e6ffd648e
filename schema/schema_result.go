package schema

import (
	"encoding/json"
	"fmt"
)

// AnalysisSummary holds the aggregate statistics for one analysis run.
// It is derived from the finding list, never constructed independently.
// Severity and type categories with no findings are absent from the
// maps rather than zero-filled.
type AnalysisSummary struct {
	TotalFiles           int                 `json:"total_files"`           // Distinct files appearing in findings (or SourceFiles on a clean run)
	SourceFiles          int                 `json:"source_files"`          // Number of source files discovered
	TotalFindings        int                 `json:"total_findings"`        // Total number of findings
	FindingsBySeverity   map[Severity]int    `json:"findings_by_severity"`  // Count of findings by severity level
	FindingsByType       map[FindingType]int `json:"findings_by_type"`      // Count of findings by type
	TotalRecommendations int                 `json:"total_recommendations"` // Set after recommendation synthesis, before serialization
}

// Recommendation is a recommended action to improve the codebase,
// derived from aggregate thresholds rather than from a single finding.
type Recommendation struct {
	Priority        Priority `json:"priority"`                   // Priority level of the recommendation
	Category        string   `json:"category"`                   // Category of the recommendation
	Action          string   `json:"action"`                     // What should be done
	Rationale       string   `json:"rationale"`                  // Why this action is recommended
	Impact          string   `json:"impact"`                     // Expected impact of implementing this recommendation
	Effort          string   `json:"effort,omitempty"`           // Estimated effort: "low", "medium" or "high"
	RelatedFindings []string `json:"related_findings,omitempty"` // Identifiers of related findings
}

// GitMetrics holds repository history metrics supplied by the git
// collaborator. It is consumed by recommendation synthesis; a nil
// GitMetrics means the directory is not a repository or git was
// unavailable.
type GitMetrics struct {
	TotalCommits      int      `json:"total_commits"`              // Total number of commits
	TotalContributors int      `json:"total_contributors"`         // Total number of distinct commit authors
	HotSpots          []string `json:"hot_spots"`                  // Files that change frequently, most active first
	LargeFiles        []string `json:"large_files"`                // Descriptors of unusually large files
	LastCommitDate    string   `json:"last_commit_date,omitempty"` // ISO-8601 date of the most recent commit
}

// AnalysisResult is the terminal artifact of one run. It is constructed
// once, serialized as a single JSON document and never mutated after
// construction. Summary.TotalRecommendations must be set before the
// result is serialized.
type AnalysisResult struct {
	RepoPath          string           `json:"repo_path"`             // Path to the analyzed repository
	AnalysisTimestamp string           `json:"analysis_timestamp"`    // ISO-8601 timestamp of the analysis
	Summary           AnalysisSummary  `json:"summary"`               // Aggregate statistics
	Findings          []Finding        `json:"findings"`              // All findings from all analyzers
	Recommendations   []Recommendation `json:"recommendations"`       // All synthesized recommendations
	GitMetrics        *GitMetrics      `json:"git_metrics,omitempty"` // Repository metrics, nil when unavailable
}

// ToJSON serializes the result as an indented JSON document.
func (r *AnalysisResult) ToJSON() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return out, nil
}
