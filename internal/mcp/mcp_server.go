// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the fitstar MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Fitstar Star Schema Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: build_star_schema ---
	s.AddTool(mcp.NewTool("build_star_schema",
		mcp.WithDescription("Clean wearable export files and write the star schema tables (DimUsers, DimTime, FactActivity, FactHeartRate, FactSleep, FactWeight)."),
		mcp.WithString("sources", mcp.Description("Comma-separated export directories, in load order. Defaults to the configured sources.")),
		mcp.WithString("output", mcp.Description("Output format. Defaults to the configured format."), mcp.Enum("csv", "json", "parquet", "xlsx")),
		mcp.WithString("output_dir", mcp.Description("Directory the tables are written to.")),
	), h.handleBuildStarSchema)

	// --- 2. Tool: get_runs_status ---
	s.AddTool(mcp.NewTool("get_runs_status",
		mcp.WithDescription("Report the run history: number of builds, last and oldest run, rows written."),
	), h.handleGetRunsStatus)

	// --- 3. Tool: get_warehouse_status ---
	s.AddTool(mcp.NewTool("get_warehouse_status",
		mcp.WithDescription("Report row counts of the warehouse tables loaded by the last build."),
	), h.handleGetWarehouseStatus)

	return s
}

// StartMCPServer starts the fitstar MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
