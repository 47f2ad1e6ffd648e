// Package core has core logic for structural analysis, aggregation and
// recommendation synthesis.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kweller/codetriage/internal/adapters"
	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/internal/gitmetrics"
	"github.com/kweller/codetriage/internal/outwriter"
	"github.com/kweller/codetriage/schema"
)

// ErrCriticalFindings signals that the report was emitted but critical
// findings exist, so the process must exit non-zero.
var ErrCriticalFindings = errors.New("critical findings present")

// ExecuteAnalyze runs the full analysis pipeline and writes the report.
// It serves as the main entry point for the 'analyze' command. The run
// is recorded in the history store when one is configured.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	runner := contract.NewExecToolRunner()

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetRunStore()
	}
	if store != nil {
		configParams := map[string]any{
			"repo_path":            cfg.RepoPath,
			"complexity_threshold": cfg.ComplexityThreshold,
			"workers":              cfg.Workers,
			"skip_structural":      cfg.SkipStructural,
			"skip_typecheck":       cfg.SkipTypecheck,
			"skip_lint":            cfg.SkipLint,
		}
		var err error
		runID, err = store.BeginRun(cfg.RepoPath, start, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	// --- 1. Analysis ---
	result, err := RunAnalysis(ctx, cfg, client, runner)
	if err != nil {
		return err
	}

	// --- 2. Report Output ---
	if err := outwriter.WriteResult(result, cfg, time.Since(start)); err != nil {
		return err
	}

	// --- 3. End Run Tracking ---
	criticalCount := result.Summary.FindingsBySeverity[schema.SeverityCritical]
	if store != nil && runID > 0 {
		if err := store.RecordRunFindings(runID, result.Findings); err != nil {
			contract.LogWarn("Failed to record run findings", err)
		}
		if err := store.EndRun(runID, time.Now(), result.Summary.SourceFiles, result.Summary.TotalFindings, criticalCount); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	if criticalCount > 0 {
		return fmt.Errorf("%w: found %d critical issue(s)", ErrCriticalFindings, criticalCount)
	}
	return nil
}

// RunAnalysis fans out the enabled analyzers, joins their findings and
// builds the terminal result. The analyzers share no mutable state:
// each produces an independent finding list (or a metrics object) and
// the aggregation below is a deterministic fold over their union.
func RunAnalysis(ctx context.Context, cfg *contract.Config, client contract.GitClient, runner contract.ToolRunner) (*schema.AnalysisResult, error) {
	files, err := CollectSourceFiles(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate source files: %w", err)
	}

	var (
		wg                 sync.WaitGroup
		structuralFindings []schema.Finding
		typecheckFindings  []schema.Finding
		lintFindings       []schema.Finding
		metrics            *schema.GitMetrics
	)

	if !cfg.SkipStructural {
		wg.Go(func() {
			structuralFindings = AnalyzeFiles(files, cfg.ComplexityThreshold, cfg.Workers)
		})
	}
	if !cfg.SkipTypecheck {
		adapter := adapters.NewTypecheckAdapter(cfg.TypecheckCmd, cfg.TypecheckTimeout)
		wg.Go(func() {
			typecheckFindings = adapter.Analyze(ctx, runner, cfg.RepoPath)
		})
	}
	if !cfg.SkipLint {
		adapter := adapters.NewLintAdapter(cfg.LintCmd, cfg.LintTimeout)
		wg.Go(func() {
			lintFindings = adapter.Analyze(ctx, runner, cfg.RepoPath)
		})
	}
	if !cfg.SkipHistory {
		wg.Go(func() {
			gctx, cancel := context.WithTimeout(ctx, cfg.GitTimeout)
			defer cancel()
			metrics = gitmetrics.Collect(gctx, client, cfg.RepoPath)
		})
	}
	wg.Wait()

	// Fixed concatenation order keeps repeated runs byte-identical.
	findings := make([]schema.Finding, 0, len(structuralFindings)+len(typecheckFindings)+len(lintFindings))
	findings = append(findings, structuralFindings...)
	findings = append(findings, typecheckFindings...)
	findings = append(findings, lintFindings...)

	recommendations := BuildRecommendations(findings, metrics)
	if recommendations == nil {
		recommendations = []schema.Recommendation{}
	}

	summary := BuildSummary(findings, len(files))
	summary.TotalRecommendations = len(recommendations)

	return &schema.AnalysisResult{
		RepoPath:          cfg.RepoPath,
		AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
		Summary:           summary,
		Findings:          findings,
		Recommendations:   recommendations,
		GitMetrics:        metrics,
	}, nil
}
