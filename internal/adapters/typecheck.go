package adapters

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// TypecheckCodeSeverity maps machine-readable error codes reported at the
// "error" level to severities. Codes absent from the table default to
// medium. Exposed as replaceable policy data rather than logic.
var TypecheckCodeSeverity = map[string]schema.Severity{
	"syntax":       schema.SeverityCritical,
	"compile":      schema.SeverityCritical,
	"undefined":    schema.SeverityHigh,
	"assign":       schema.SeverityMedium,
	"printf":       schema.SeverityMedium,
	"unusedresult": schema.SeverityMedium,
	"unreachable":  schema.SeverityLow,
	"shadow":       schema.SeverityLow,
	"deprecated":   schema.SeverityInfo,
}

// typecheckLevels are the diagnostic levels recognized at the head of a
// message. Anything else stays part of the message and is treated as an
// error-level diagnostic.
var typecheckLevels = map[string]struct{}{
	"error":   {},
	"warning": {},
	"note":    {},
}

// Diagnostic line shape: file:line:col: message, optionally with a
// trailing bracketed code. The level prefix is split off the message
// afterwards since not every tool emits one.
var typecheckLinePattern = regexp.MustCompile(`^(.+?):(\d+):(\d+): (.+?)(?:\s+\[([\w.-]+)\])?$`)

// TypecheckAdapter parses a type checker's line-oriented diagnostic
// stream. Lines that do not look like diagnostics (package headers,
// banners, summaries) are expected noise and silently ignored.
type TypecheckAdapter struct {
	cmd     []string
	timeout time.Duration
}

var _ Normalizer = &TypecheckAdapter{} // Compile-time check

// NewTypecheckAdapter creates a typecheck adapter around the given
// command line, e.g. ["go", "vet", "./..."].
func NewTypecheckAdapter(cmd []string, timeout time.Duration) *TypecheckAdapter {
	return &TypecheckAdapter{cmd: cmd, timeout: timeout}
}

// Name implements the Normalizer interface.
func (a *TypecheckAdapter) Name() string { return "typecheck" }

// tool returns the bare binary name used in rule IDs.
func (a *TypecheckAdapter) tool() string { return filepath.Base(a.cmd[0]) }

// Analyze implements the Normalizer interface. The checker reports its
// diagnostics on stdout or stderr depending on the tool, so both streams
// are fed through the tolerant line parser.
func (a *TypecheckAdapter) Analyze(ctx context.Context, runner contract.ToolRunner, dir string) []schema.Finding {
	stdout, stderr, err := runTool(ctx, runner, dir, a.cmd, a.timeout)
	if err != nil {
		// An absent type checker hides every type error, so missing is critical.
		return []schema.Finding{failureFinding(a.Name(), a.cmd[0], dir, err, a.timeout, schema.SeverityCritical)}
	}

	raw := stdout
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		raw = append(raw, '\n')
	}
	raw = append(raw, stderr...)
	return a.Parse(raw)
}

// Parse implements the Normalizer interface.
func (a *TypecheckAdapter) Parse(out []byte) []schema.Finding {
	var findings []schema.Finding
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		match := typecheckLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		findings = append(findings, a.convertLine(match))
	}
	return findings
}

// convertLine builds one finding from a matched diagnostic line.
func (a *TypecheckAdapter) convertLine(match []string) schema.Finding {
	file := match[1]
	line, _ := strconv.Atoi(match[2])
	column, _ := strconv.Atoi(match[3])
	message := match[4]
	code := match[5]

	level := "error"
	if head, rest, ok := strings.Cut(message, ": "); ok {
		if _, known := typecheckLevels[head]; known {
			level = head
			message = rest
		}
	}

	var severity schema.Severity
	switch level {
	case "error":
		severity = schema.SeverityMedium
		if s, ok := TypecheckCodeSeverity[code]; ok {
			severity = s
		}
	case "warning":
		severity = schema.SeverityLow
	case "note":
		severity = schema.SeverityInfo
	default:
		severity = schema.SeverityMedium
	}

	ruleID := a.tool()
	if code != "" {
		ruleID = a.tool() + ":" + code
	}

	return schema.Finding{
		Type:     schema.TypeTypeError,
		Severity: severity,
		Location: schema.Location{
			File:   file,
			Line:   line,
			Column: column,
		},
		Message: message,
		RuleID:  ruleID,
	}
}
