package core

import (
	"github.com/kweller/codetriage/schema"
)

// BuildSummary folds a finding list into aggregate statistics. It is a
// pure function: counts by severity and type cover every finding, and
// absent categories are simply absent from the maps rather than
// zero-filled. TotalFiles counts distinct files across finding locations,
// falling back to the supplied source-file count when there are no
// findings so a clean run still reports a nonzero file count.
// TotalRecommendations is filled in by the orchestrator after synthesis.
func BuildSummary(findings []schema.Finding, sourceFileCount int) schema.AnalysisSummary {
	severityCounts := make(map[schema.Severity]int)
	typeCounts := make(map[schema.FindingType]int)
	filesSeen := make(map[string]struct{})

	for _, f := range findings {
		severityCounts[f.Severity]++
		typeCounts[f.Type]++
		filesSeen[f.Location.File] = struct{}{}
	}

	totalFiles := len(filesSeen)
	if totalFiles == 0 {
		totalFiles = sourceFileCount
	}

	return schema.AnalysisSummary{
		TotalFiles:         totalFiles,
		SourceFiles:        sourceFileCount,
		TotalFindings:      len(findings),
		FindingsBySeverity: severityCounts,
		FindingsByType:     typeCounts,
	}
}
