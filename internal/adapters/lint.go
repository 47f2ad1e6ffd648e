package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// LintPrefixSeverity maps rule-code prefixes (the longest leading run of
// alphabetic characters) to severities, with medium as the fallback.
// Exposed as replaceable policy data rather than logic.
var LintPrefixSeverity = map[string]schema.Severity{
	"SA": schema.SeverityHigh,   // staticcheck correctness
	"S":  schema.SeverityLow,    // simplifications
	"ST": schema.SeverityLow,    // style
	"QF": schema.SeverityLow,    // quick fixes
	"U":  schema.SeverityMedium, // unused code
	"G":  schema.SeverityHigh,   // gosec security
}

// lintIssue is the wire shape of one structured diagnostic. Both a JSON
// array and a newline-delimited object stream decode into it.
type lintIssue struct {
	Code     string          `json:"code"`
	Severity string          `json:"severity"`
	Location lintPosition    `json:"location"`
	End      lintPosition    `json:"end"`
	Message  string          `json:"message"`
	Fix      json.RawMessage `json:"fix"`
}

// lintPosition is a file coordinate inside a structured diagnostic.
type lintPosition struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// LintAdapter parses a linter's structured diagnostic stream.
type LintAdapter struct {
	cmd     []string
	timeout time.Duration
}

var _ Normalizer = &LintAdapter{} // Compile-time check

// NewLintAdapter creates a lint adapter around the given command line,
// e.g. ["staticcheck", "-f", "json", "./..."].
func NewLintAdapter(cmd []string, timeout time.Duration) *LintAdapter {
	return &LintAdapter{cmd: cmd, timeout: timeout}
}

// Name implements the Normalizer interface.
func (a *LintAdapter) Name() string { return "lint" }

// Analyze implements the Normalizer interface. Only stdout is parsed;
// linters keep their progress and warning chatter on stderr.
func (a *LintAdapter) Analyze(ctx context.Context, runner contract.ToolRunner, dir string) []schema.Finding {
	stdout, _, err := runTool(ctx, runner, dir, a.cmd, a.timeout)
	if err != nil {
		// Linting is an optional layer, so a missing linter is only medium.
		return []schema.Finding{failureFinding(a.Name(), a.cmd[0], dir, err, a.timeout, schema.SeverityMedium)}
	}
	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil
	}
	return a.Parse(stdout)
}

// Parse implements the Normalizer interface. It accepts either a JSON
// array of issues or a newline-delimited object stream; malformed input
// yields a single finding describing the parse failure.
func (a *LintAdapter) Parse(out []byte) []schema.Finding {
	issues, err := decodeLintIssues(out)
	if err != nil {
		return []schema.Finding{{
			Type:     schema.TypeBug,
			Severity: schema.SeverityMedium,
			Location: schema.Location{File: a.Name() + "_output"},
			Message:  fmt.Sprintf("failed to parse %s output: %v", a.Name(), err),
			RuleID:   strings.ToUpper(a.Name()) + "003",
		}}
	}

	findings := make([]schema.Finding, 0, len(issues))
	for _, issue := range issues {
		findings = append(findings, a.convertIssue(issue))
	}
	return findings
}

// decodeLintIssues handles both output framings.
func decodeLintIssues(out []byte) ([]lintIssue, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var issues []lintIssue
		if err := json.Unmarshal(trimmed, &issues); err != nil {
			return nil, err
		}
		return issues, nil
	}

	var issues []lintIssue
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for {
		var issue lintIssue
		if err := dec.Decode(&issue); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// convertIssue builds one finding from a structured diagnostic.
func (a *LintAdapter) convertIssue(issue lintIssue) schema.Finding {
	file := issue.Location.File
	if file == "" {
		file = "unknown"
	}

	ruleID := a.tool()
	if issue.Code != "" {
		ruleID = a.tool() + ":" + issue.Code
	}

	return schema.Finding{
		Type:     lintFindingType(issue.Code),
		Severity: lintSeverity(issue.Code),
		Location: schema.Location{
			File:    file,
			Line:    issue.Location.Line,
			Column:  issue.Location.Column,
			EndLine: issue.End.Line,
		},
		Message:      issue.Message,
		RuleID:       ruleID,
		FixAvailable: len(issue.Fix) > 0 && string(issue.Fix) != "null",
	}
}

// tool returns the bare binary name used in rule IDs.
func (a *LintAdapter) tool() string { return filepath.Base(a.cmd[0]) }

// rulePrefix extracts the longest leading run of alphabetic characters.
func rulePrefix(code string) string {
	for i, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return code[:i]
		}
	}
	return code
}

// lintSeverity maps a rule code to a severity via its prefix.
func lintSeverity(code string) schema.Severity {
	if s, ok := LintPrefixSeverity[rulePrefix(code)]; ok {
		return s
	}
	return schema.SeverityMedium
}

// lintFindingType maps a rule code to a finding type via its prefix.
// First match wins: security, correctness, style, performance, then the
// code-smell fallback.
func lintFindingType(code string) schema.FindingType {
	switch rulePrefix(code) {
	case "G":
		return schema.TypeSecurity
	case "SA":
		return schema.TypeBug
	case "S", "ST", "QF":
		return schema.TypeStyle
	case "PERF":
		return schema.TypePerformance
	default:
		return schema.TypeCodeSmell
	}
}
