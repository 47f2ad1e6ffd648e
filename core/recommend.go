package core

import (
	"fmt"

	"github.com/kweller/codetriage/schema"
)

// Recommendation thresholds. Each rule below fires independently; none
// depends on another's output, so the listed order only fixes display
// order.
const (
	highCountThreshold      = 5
	complexityRuleThreshold = 5
	typeErrorRuleThreshold  = 10
)

// BuildRecommendations derives ranked remediation advice from the full
// finding list and optional repository metrics. Pure function: the seven
// threshold rules are evaluated in a fixed emission order.
func BuildRecommendations(findings []schema.Finding, metrics *schema.GitMetrics) []schema.Recommendation {
	var recs []schema.Recommendation

	// 1. Critical issues demand immediate attention.
	if criticalCount := schema.CountBySeverity(findings, schema.SeverityCritical); criticalCount > 0 {
		effort := "medium"
		if criticalCount > 10 {
			effort = "high"
		}
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityUrgent,
			Category:  "Critical Issues",
			Action:    fmt.Sprintf("Fix %d critical issue(s) immediately", criticalCount),
			Rationale: "Critical issues can cause runtime failures or security vulnerabilities",
			Impact:    "Prevents potential system failures and security breaches",
			Effort:    effort,
		})
	}

	// 2. A pile of high-severity findings signals systemic problems.
	if highCount := schema.CountBySeverity(findings, schema.SeverityHigh); highCount > highCountThreshold {
		effort := "medium"
		if highCount > 20 {
			effort = "high"
		}
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityHigh,
			Category:  "High Severity Issues",
			Action:    fmt.Sprintf("Address %d high-severity issues", highCount),
			Rationale: "High-severity issues indicate bugs or type errors that should be fixed",
			Impact:    "Improves code reliability and reduces bug risk",
			Effort:    effort,
		})
	}

	// 3. Widespread complexity calls for refactoring.
	if complexityCount := schema.CountByType(findings, schema.TypeComplexity); complexityCount > complexityRuleThreshold {
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityMedium,
			Category:  "Code Complexity",
			Action:    fmt.Sprintf("Refactor %d complex functions", complexityCount),
			Rationale: "High complexity makes code harder to understand, test, and maintain",
			Impact:    "Improves code maintainability and reduces bug introduction risk",
			Effort:    "high",
		})
	}

	// 4. Many type errors point at missing type discipline.
	if typeErrorCount := schema.CountByType(findings, schema.TypeTypeError); typeErrorCount > typeErrorRuleThreshold {
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityHigh,
			Category:  "Type Safety",
			Action:    "Improve type annotations and fix type errors",
			Rationale: "Type safety helps catch bugs early and improves code documentation",
			Impact:    "Reduces runtime errors and improves IDE support",
			Effort:    "medium",
		})
	}

	// 5. Churny files may hide design problems.
	if metrics != nil && len(metrics.HotSpots) > 0 {
		recs = append(recs, schema.Recommendation{
			Priority: schema.PriorityMedium,
			Category: "Code Hot Spots",
			Action: fmt.Sprintf("Review and potentially refactor %d frequently-changed files",
				len(metrics.HotSpots)),
			Rationale: "Files that change frequently may indicate design issues or unstable requirements",
			Impact:    "Reduces future change frequency and improves design",
			Effort:    "high",
		})
	}

	// 6. Oversized files erode navigability.
	if metrics != nil && len(metrics.LargeFiles) > 0 {
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityLow,
			Category:  "Large Files",
			Action:    fmt.Sprintf("Consider splitting %d large files", len(metrics.LargeFiles)),
			Rationale: "Large files are harder to navigate and may indicate low cohesion",
			Impact:    "Improves code organization and maintainability",
			Effort:    "medium",
		})
	}

	// 7. Auto-fixable findings are cheap wins.
	if fixableCount := schema.CountFixable(findings); fixableCount > 0 {
		recs = append(recs, schema.Recommendation{
			Priority:  schema.PriorityLow,
			Category:  "Quick Wins",
			Action:    fmt.Sprintf("Run auto-fix for %d fixable issues", fixableCount),
			Rationale: "Many linting issues can be automatically fixed",
			Impact:    "Quick improvement in code quality with minimal effort",
			Effort:    "low",
		})
	}

	return recs
}
