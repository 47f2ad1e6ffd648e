package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kweller/codetriage/core"
)

// analyzeCmd runs the full analysis pipeline.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Run structural, type and lint analysis and emit a prioritized report.",
	Long: `Analyze a repository with three independent analyzers and merge their
findings into one report.

The pipeline runs:
- Structural analysis over the syntax tree (complexity, long functions,
  argument counts, oversized types)
- A type checker (go vet by default), normalized into findings
- A linter (staticcheck by default), normalized into findings
- Git history metrics (commit counts, contributors, change hot spots)

Findings are aggregated into severity and type counts, and a small rule
engine turns them into prioritized recommendations.

Exit codes:
  0 - analysis completed, no critical findings
  1 - analysis completed, critical findings present (CI gate)

Examples:
  # Analyze the current directory, JSON report on stdout
  codetriage analyze

  # Human-readable table with a stricter complexity threshold
  codetriage analyze --output text --complexity-threshold 5

  # Structural analysis only, skip external tools
  codetriage analyze --skip-typecheck --skip-lint

  # Write the report to a file for CI artifacts
  codetriage analyze --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Critical findings surface as ErrCriticalFindings after the
		// report is written; main translates that into exit code 1.
		return core.ExecuteAnalyze(rootCtx, cfg, historyManager)
	},
}
