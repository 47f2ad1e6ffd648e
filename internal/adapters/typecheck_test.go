package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// fakeRunner returns canned tool output for adapter tests.
type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ string, _ ...string) ([]byte, []byte, error) {
	return f.stdout, f.stderr, f.err
}

func (f *fakeRunner) LookPath(name string) (string, error) { return name, nil }

func newTypecheck() *TypecheckAdapter {
	return NewTypecheckAdapter(contract.DefaultTypecheckCmd, time.Minute)
}

func TestTypecheckParseLevels(t *testing.T) {
	out := []byte(`main.go:10:5: error: undeclared name: foo [undefined]
main.go:12:1: warning: unused parameter x [unusedparams]
main.go:14:2: note: see declaration here
`)
	findings := newTypecheck().Parse(out)
	require.Len(t, findings, 3)

	assert.Equal(t, schema.TypeTypeError, findings[0].Type)
	assert.Equal(t, schema.SeverityHigh, findings[0].Severity, "error level uses the code table")
	assert.Equal(t, "go:undefined", findings[0].RuleID)
	assert.Equal(t, "main.go", findings[0].Location.File)
	assert.Equal(t, 10, findings[0].Location.Line)
	assert.Equal(t, 5, findings[0].Location.Column)
	assert.Equal(t, "undeclared name: foo", findings[0].Message)

	assert.Equal(t, schema.SeverityLow, findings[1].Severity)
	assert.Equal(t, "go:unusedparams", findings[1].RuleID)

	assert.Equal(t, schema.SeverityInfo, findings[2].Severity)
	assert.Equal(t, "go", findings[2].RuleID, "no code falls back to the bare tool name")
}

func TestTypecheckParsePlainLines(t *testing.T) {
	// gc and vet emit bare diagnostics without a level token.
	out := []byte("pkg/server.go:42:13: unreachable code\n")
	findings := newTypecheck().Parse(out)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityMedium, findings[0].Severity, "plain lines are error level with no code")
	assert.Equal(t, "unreachable code", findings[0].Message)
}

func TestTypecheckParseUnknownCodeDefaultsMedium(t *testing.T) {
	out := []byte("a.go:1:1: error: something odd [mystery-code]\n")
	findings := newTypecheck().Parse(out)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityMedium, findings[0].Severity)
}

func TestTypecheckParseIgnoresNoise(t *testing.T) {
	out := []byte(`# github.com/kweller/codetriage/core
vet: some banner text
main.go:3:1: error: missing return [compile]

Found 1 error in 1 file
`)
	findings := newTypecheck().Parse(out)
	require.Len(t, findings, 1)
	assert.Equal(t, schema.SeverityCritical, findings[0].Severity)
}

func TestTypecheckParseEmpty(t *testing.T) {
	assert.Empty(t, newTypecheck().Parse(nil))
}

func TestTypecheckAnalyzeJoinsStreams(t *testing.T) {
	runner := &fakeRunner{
		stdout: []byte("a.go:1:1: error: one [assign]"), // no trailing newline
		stderr: []byte("b.go:2:2: error: two [assign]\n"),
	}
	findings := newTypecheck().Analyze(context.Background(), runner, "/repo")
	require.Len(t, findings, 2)
	assert.Equal(t, "a.go", findings[0].Location.File)
	assert.Equal(t, "b.go", findings[1].Location.File)
}

func TestTypecheckAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		severity schema.Severity
		ruleID   string
	}{
		{"timeout", contract.ErrToolTimeout, schema.SeverityHigh, "TYPECHECK000"},
		{"missing tool", contract.ErrToolNotFound, schema.SeverityCritical, "TYPECHECK001"},
		{"unexpected", assert.AnError, schema.SeverityHigh, "TYPECHECK002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err}
			findings := newTypecheck().Analyze(context.Background(), runner, "/repo")
			require.Len(t, findings, 1)
			assert.Equal(t, schema.TypeBug, findings[0].Type)
			assert.Equal(t, tt.severity, findings[0].Severity)
			assert.Equal(t, tt.ruleID, findings[0].RuleID)
			assert.Equal(t, "/repo", findings[0].Location.File)
			assert.NotEmpty(t, findings[0].Message)
		})
	}
}
