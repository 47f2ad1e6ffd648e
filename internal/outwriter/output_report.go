package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// maxTableMessageWidth caps the message column so wide diagnostics do not
// dominate the table.
const maxTableMessageWidth = 60

// writeResultTable generates and writes the human-readable report.
func writeResultTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	if len(result.Findings) > 0 {
		if err := writeFindingsTable(w, result, cfg); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, "No findings.")
	}

	writeSummaryFooter(w, result, duration)
	writeRecommendations(w, result.Recommendations)
	return nil
}

// writeFindingsTable renders findings most severe first.
func writeFindingsTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Type", "Path", "Line", "Rule", "Message"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	findings := make([]schema.Finding, len(result.Findings))
	copy(findings, result.Findings)
	sort.SliceStable(findings, func(i, j int) bool {
		return schema.MoreSevere(findings[i].Severity, findings[j].Severity)
	})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range findings {
		label := contract.GetPlainLabel(f.Severity)
		if cfg.UseColors {
			label = contract.GetColorLabel(f.Severity)
		}
		line := ""
		if f.Location.Line > 0 {
			line = strconv.Itoa(f.Location.Line)
		}
		data = append(data, []string{
			label,
			string(f.Type),
			contract.TruncatePath(f.Location.File, pathWidth),
			line,
			f.RuleID,
			truncateMessage(f.Message, maxTableMessageWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSummaryFooter prints the aggregate counts under the table.
func writeSummaryFooter(w io.Writer, result *schema.AnalysisResult, duration time.Duration) {
	summary := result.Summary
	fmt.Fprintf(w, "\nAnalyzed %d source files: %d findings across %d files in %s\n",
		summary.SourceFiles, summary.TotalFindings, summary.TotalFiles, duration.Round(time.Millisecond))

	if len(summary.FindingsBySeverity) > 0 {
		fmt.Fprint(w, "By severity:")
		for _, s := range schema.AllSeverities {
			if n, ok := summary.FindingsBySeverity[s]; ok {
				fmt.Fprintf(w, " %s=%d", s, n)
			}
		}
		fmt.Fprintln(w)
	}

	if result.GitMetrics != nil {
		fmt.Fprintf(w, "Repository: %d commits by %d contributors\n",
			result.GitMetrics.TotalCommits, result.GitMetrics.TotalContributors)
	}
}

// writeRecommendations prints the ranked remediation list.
func writeRecommendations(w io.Writer, recs []schema.Recommendation) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecommendations:")
	for i, rec := range recs {
		fmt.Fprintf(w, "%3d. [%s] %s: %s", i+1, rec.Priority, rec.Category, rec.Action)
		if rec.Effort != "" {
			fmt.Fprintf(w, " (effort: %s)", rec.Effort)
		}
		fmt.Fprintln(w)
	}
}

// truncateMessage shortens a message to the given rune width.
func truncateMessage(msg string, maxWidth int) string {
	runes := []rune(msg)
	if len(runes) <= maxWidth || maxWidth <= 3 {
		return msg
	}
	return string(runes[:maxWidth-3]) + "..."
}
