package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kweller/codetriage/core"
	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// configFromRequest clones the base config and applies per-request overrides.
func (h *toolHandler) configFromRequest(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	if p := request.GetString("repo_path", ""); p != "" {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("cannot analyze %q: %w", p, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("cannot analyze %q: not a directory", p)
		}
		cfg.RepoPath = absPath
	}
	if threshold := request.GetInt("complexity_threshold", 0); threshold > 0 {
		if threshold > contract.MaxComplexityThreshold {
			return nil, fmt.Errorf("complexity threshold cannot exceed %d (received %d)",
				contract.MaxComplexityThreshold, threshold)
		}
		cfg.ComplexityThreshold = threshold
	}
	if request.GetBool("skip_typecheck", false) {
		cfg.SkipTypecheck = true
	}
	if request.GetBool("skip_lint", false) {
		cfg.SkipLint = true
	}
	if request.GetBool("skip_history", false) {
		cfg.SkipHistory = true
	}

	return cfg, nil
}

func (h *toolHandler) handleAnalyzeRepo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err)), nil
	}

	result, err := core.RunAnalysis(ctx, cfg, contract.NewLocalGitClient(), contract.NewExecToolRunner())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err)), nil
	}

	result, err := core.RunAnalysis(ctx, cfg, contract.NewLocalGitClient(), contract.NewExecToolRunner())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result.Recommendations, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.HistoryStore
	if h.mgr != nil {
		store = h.mgr.GetRunStore()
	}
	if store == nil {
		status := schema.HistoryStatus{Backend: string(schema.NoneBackend), Connected: false}
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get history status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
