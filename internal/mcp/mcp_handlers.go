package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/fitstar/core"
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// jsonResult renders data as indented JSON tool output.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBuildStarSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	sources := request.GetString("sources", "")
	output := request.GetString("output", "")
	outputDir := request.GetString("output_dir", "")

	if err := contract.RevalidateBuild(cfg, sources, output, outputDir); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid build parameters: %v", err)), nil
	}

	result, err := core.GetBuildResult(core.WithQuiet(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetRunsStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetRunStore() == nil {
		return mcp.NewToolResultError("run history is not initialized"), nil
	}
	status, err := h.mgr.GetRunStore().GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get run status: %v", err)), nil
	}
	return jsonResult(status)
}

func (h *toolHandler) handleGetWarehouseStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil || h.mgr.GetWarehouse() == nil {
		return mcp.NewToolResultError("warehouse is not initialized"), nil
	}
	status, err := h.mgr.GetWarehouse().GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get warehouse status: %v", err)), nil
	}
	return jsonResult(status)
}
