// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kweller/codetriage/internal/contract"
)

// NewMCPServer initializes and configures the codetriage MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Codetriage Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_repo ---
	s.AddTool(mcp.NewTool("analyze_repo",
		mcp.WithDescription("Run the full static analysis pipeline over a repository and return the JSON report."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository (defaults to current directory if not specified).")),
		mcp.WithNumber("complexity_threshold", mcp.Description("Cyclomatic complexity threshold for structural findings.")),
		mcp.WithBoolean("skip_typecheck", mcp.Description("Skip the type checker stage.")),
		mcp.WithBoolean("skip_lint", mcp.Description("Skip the linter stage.")),
		mcp.WithBoolean("skip_history", mcp.Description("Skip git history metrics.")),
	), h.handleAnalyzeRepo)

	// --- 2. Tool: get_recommendations ---
	s.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Analyze a repository and return only the prioritized recommendations."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository.")),
		mcp.WithNumber("complexity_threshold", mcp.Description("Cyclomatic complexity threshold for structural findings.")),
	), h.handleGetRecommendations)

	// --- 3. Tool: history_status ---
	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Return status information about the run-history store."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the codetriage MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
