package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweller/codetriage/schema"
)

func newSQLiteStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("/tmp/demo", start, map[string]any{"complexity-threshold": 10})
	require.NoError(t, err)
	assert.Positive(t, runID)

	findings := []schema.Finding{
		{
			Type:     schema.TypeComplexity,
			Severity: schema.SeverityHigh,
			Location: schema.Location{File: "core/core.go", Line: 42},
			Message:  "Function 'run' has high cyclomatic complexity (25)",
			RuleID:   "AST100",
		},
		{
			Type:         schema.TypeStyle,
			Severity:     schema.SeverityLow,
			Location:     schema.Location{File: "cmd/root.go", Line: 7},
			Message:      "should merge variable declaration",
			RuleID:       "staticcheck:S1021",
			FixAvailable: true,
		},
	}
	require.NoError(t, store.RecordRunFindings(runID, findings))

	end := start.Add(3 * time.Second)
	require.NoError(t, store.EndRun(runID, end, 120, len(findings), 0))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "/tmp/demo", run.RepoPath)
	assert.True(t, run.StartTime.Equal(start))
	require.NotNil(t, run.EndTime)
	assert.True(t, run.EndTime.Equal(end))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(3000), *run.RunDurationMs)
	assert.Equal(t, int32(120), run.SourceFiles)
	assert.Equal(t, int32(2), run.TotalFindings)
	assert.Equal(t, int32(0), run.CriticalCount)
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, "complexity-threshold")
}

func TestRunStoreFindingsKeepOrder(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun("/tmp/demo", time.Now().UTC(), nil)
	require.NoError(t, err)

	findings := []schema.Finding{
		{Type: schema.TypeBug, Severity: schema.SeverityCritical, Location: schema.Location{File: "a.go", Line: 1}, Message: "first", RuleID: "AST001"},
		{Type: schema.TypeCodeSmell, Severity: schema.SeverityMedium, Location: schema.Location{File: "b.go", Line: 2}, Message: "second"},
		{Type: schema.TypeStyle, Severity: schema.SeverityLow, Location: schema.Location{File: "c.go", Line: 3}, Message: "third", FixAvailable: true},
	}
	require.NoError(t, store.RecordRunFindings(runID, findings))

	records, err := store.GetAllRunFindings()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, record := range records {
		assert.Equal(t, runID, record.RunID)
		assert.Equal(t, int32(i+1), record.Seq)
		assert.Equal(t, findings[i].Message, record.Message)
	}

	require.NotNil(t, records[0].RuleID)
	assert.Equal(t, "AST001", *records[0].RuleID)
	assert.Nil(t, records[1].RuleID, "empty rule IDs are stored as NULL")
	assert.True(t, records[2].FixAvailable)
}

func TestRunStoreStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)

	first := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	firstID, err := store.BeginRun("/tmp/demo", first, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(firstID, first.Add(time.Second), 10, 4, 1))

	secondID, err := store.BeginRun("/tmp/demo", second, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(secondID, second.Add(time.Second), 10, 6, 0))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, status.LastRunTime.Equal(second))
	assert.True(t, status.OldestRunTime.Equal(first))
	assert.Equal(t, 10, status.TotalFindings)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
}

func TestRunStoreClear(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun("/tmp/demo", time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordRunFindings(runID, []schema.Finding{
		{Type: schema.TypeBug, Severity: schema.SeverityHigh, Location: schema.Location{File: "a.go"}, Message: "boom"},
	}))

	require.NoError(t, store.Clear())

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	records, err := store.GetAllRunFindings()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun("/tmp/demo", time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.RecordRunFindings(runID, nil))
	require.NoError(t, store.EndRun(runID, time.Now(), 0, 0, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestNewRunStoreUnsupportedBackend(t *testing.T) {
	_, err := NewRunStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "codetriage_runs", quoteTableName(runsTable, schema.SQLiteBackend))
	assert.Equal(t, "`codetriage_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"codetriage_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
}

func TestMigrateHistorySQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	// The migrated schema must accept the store's own writes.
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun("/tmp/demo", time.Now().UTC(), nil)
	require.NoError(t, err)
	assert.Positive(t, runID)
}

func TestMigrateHistoryNoneBackend(t *testing.T) {
	assert.Error(t, MigrateHistory(schema.NoneBackend, "", -1))
}
