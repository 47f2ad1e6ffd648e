// Package parquet provides data structures and functions for exporting run
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kweller/codetriage/schema"
)

// Run represents a single analysis run with metadata.
// This struct maps to the codetriage_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RepoPath is the repository that was analyzed
	RepoPath string `parquet:"repo_path,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// SourceFiles is the number of source files analyzed in this run
	SourceFiles int32 `parquet:"source_files,snappy"`

	// TotalFindings is the number of findings emitted by this run
	TotalFindings int32 `parquet:"total_findings,snappy"`

	// CriticalCount is the number of critical findings in this run
	CriticalCount int32 `parquet:"critical_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunFinding represents one finding from an analysis run.
// This struct maps to the codetriage_run_findings database table.
type RunFinding struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Seq is the position of this finding within the run's report
	Seq int32 `parquet:"seq,snappy"`

	// FindingType is the finding category, such as bug or style
	FindingType string `parquet:"finding_type,snappy"`

	// Severity ranges from critical down to info
	Severity string `parquet:"severity,snappy"`

	// FilePath is the file the finding points at
	FilePath string `parquet:"file_path,snappy"`

	// Line is the 1-based line number, or 0 for file-level findings
	Line int32 `parquet:"line,snappy"`

	// RuleID identifies the rule that produced the finding (nullable)
	RuleID *string `parquet:"rule_id,optional,snappy"`

	// FixAvailable reports whether the producing tool offered an automated fix
	FixAvailable bool `parquet:"fix_available,snappy"`

	// Message is the human-readable diagnostic
	Message string `parquet:"message,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRunFindingsParquet writes a slice of RunFinding structs to a Parquet file.
func WriteRunFindingsParquet(data []RunFinding, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the RunFinding struct tags
	writer := parquet.NewGenericWriter[RunFinding](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RepoPath:      record.RepoPath,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			SourceFiles:   record.SourceFiles,
			TotalFindings: record.TotalFindings,
			CriticalCount: record.CriticalCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunFindingRecords converts schema.RunFindingRecord to RunFinding for Parquet export.
func ConvertRunFindingRecords(records []schema.RunFindingRecord) []RunFinding {
	result := make([]RunFinding, len(records))
	for i, record := range records {
		result[i] = RunFinding{
			RunID:        record.RunID,
			Seq:          record.Seq,
			FindingType:  record.FindingType,
			Severity:     record.Severity,
			FilePath:     record.FilePath,
			Line:         record.Line,
			RuleID:       record.RuleID,
			FixAvailable: record.FixAvailable,
			Message:      record.Message,
		}
	}
	return result
}
