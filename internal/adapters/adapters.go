// Package adapters normalizes external checker output into the shared
// finding model. Each adapter wraps one collaborator tool: it knows how to
// invoke it, how to parse its diagnostic stream, and how to convert
// invocation failures into synthetic findings so the pipeline never aborts
// because a tool is broken or missing.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// Normalizer defines the shared contract for tool-output adapters.
type Normalizer interface {
	// Name returns the short pipeline name, used as the rule-code prefix
	// for synthetic failure findings (e.g. "typecheck" -> TYPECHECK000).
	Name() string

	// Parse converts raw tool output into findings. It never fails;
	// unparseable input degrades to findings describing the problem.
	Parse(out []byte) []schema.Finding

	// Analyze invokes the collaborator inside dir and normalizes its
	// output. Invocation failures become findings, never errors.
	Analyze(ctx context.Context, runner contract.ToolRunner, dir string) []schema.Finding
}

// runTool executes an adapter's command with its timeout applied.
func runTool(ctx context.Context, runner contract.ToolRunner, dir string, argv []string, timeout time.Duration) ([]byte, []byte, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return runner.Run(tctx, dir, argv[0], argv[1:]...)
}

// failureFinding converts an invocation error into exactly one synthetic
// finding. Timeouts and unexpected errors are always high severity; the
// missing-tool severity is adapter-specific since some collaborators are
// essential and some are optional.
func failureFinding(name, tool, dir string, err error, timeout time.Duration, missingSeverity schema.Severity) schema.Finding {
	code := strings.ToUpper(name)
	switch {
	case errors.Is(err, contract.ErrToolTimeout):
		return schema.Finding{
			Type:     schema.TypeBug,
			Severity: schema.SeverityHigh,
			Location: schema.Location{File: dir},
			Message:  fmt.Sprintf("%s analysis timed out after %s", name, timeout),
			RuleID:   code + "000",
		}
	case errors.Is(err, contract.ErrToolNotFound):
		return schema.Finding{
			Type:     schema.TypeBug,
			Severity: missingSeverity,
			Location: schema.Location{File: dir},
			Message:  fmt.Sprintf("%s not found. Install it and ensure it is on your PATH", tool),
			RuleID:   code + "001",
		}
	default:
		return schema.Finding{
			Type:     schema.TypeBug,
			Severity: schema.SeverityHigh,
			Location: schema.Location{File: dir},
			Message:  fmt.Sprintf("failed to run %s: %v", name, err),
			RuleID:   code + "002",
		}
	}
}
