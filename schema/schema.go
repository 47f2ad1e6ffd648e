// Package schema has the shared finding model, enums and record types for all parts of codetriage.
package schema

// Location points at the place in the codebase where a finding occurred.
// Line, Column and EndLine use 0 to mean "unset". When both Line and
// EndLine are set, EndLine is greater than or equal to Line.
type Location struct {
	File     string `json:"file"`               // Path to the file, repo-relative or absolute
	Line     int    `json:"line,omitempty"`     // Line number where the issue occurs
	Column   int    `json:"column,omitempty"`   // Column number where the issue occurs
	EndLine  int    `json:"end_line,omitempty"` // End line for multi-line issues
	Function string `json:"function,omitempty"` // Enclosing function or method name, if applicable
}

// Finding is one normalized unit of detected issue, regardless of which
// analyzer produced it. Findings are value objects: analyzers construct
// them independently and never mutate them afterwards. Duplicates across
// analyzers are allowed and expected.
type Finding struct {
	Type         FindingType `json:"type"`              // Category of issue found
	Severity     Severity    `json:"severity"`          // Severity level of the finding
	Location     Location    `json:"location"`          // Where in the code the issue was found
	Message      string      `json:"message"`           // Human-readable description, never empty
	RuleID       string      `json:"rule_id,omitempty"` // Tool-qualified rule identifier, e.g. "staticcheck:SA4006" or "AST100"
	FixAvailable bool        `json:"fix_available"`     // Whether an automatic fix is available
}
