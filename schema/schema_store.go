package schema

import "time"

// RunRecord represents a row from the codetriage_runs table.
type RunRecord struct {
	RunID         int64
	RepoPath      string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	SourceFiles   int32
	TotalFindings int32
	CriticalCount int32
	ConfigParams  *string
}

// RunFindingRecord represents a row from the codetriage_run_findings table.
type RunFindingRecord struct {
	RunID        int64
	Seq          int32
	FindingType  string
	Severity     string
	FilePath     string
	Line         int32
	RuleID       *string
	FixAvailable bool
	Message      string
}
