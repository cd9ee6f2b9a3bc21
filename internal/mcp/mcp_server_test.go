package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/fitstar/internal/contract"
	mcp_internal "github.com/huangsam/fitstar/internal/mcp"
	"github.com/huangsam/fitstar/internal/store"
	"github.com/huangsam/fitstar/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, mgr contract.StoreManager, baseCfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseCfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

// writeExports writes a minimal set of export files into a new directory.
func writeExports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		contract.DefaultActivityFile: "Id,ActivityDate,TotalSteps,TotalDistance,VeryActiveMinutes,FairlyActiveMinutes,LightlyActiveMinutes,SedentaryMinutes,Calories\n" +
			"1,4/12/2016,1000,0.7,1,2,3,4,1800\n",
		contract.DefaultHeartRateFile: "Id,Time,Value\n7,4/12/2016 10:05:00 AM,70\n7,4/12/2016 10:40:00 AM,80\n",
		contract.DefaultSleepFile:     "Id,date,value,logId\n1,4/12/2016 1:00:00 AM,1,11\n",
		contract.DefaultWeightFile:    "Id,Date,WeightKg,WeightPounds,Fat,BMI,IsManualReport,LogId\n1,4/12/2016 11:59:59 PM,52.6,115.96,,22.65,True,1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Sources: []string{filepath.Join(t.TempDir(), "does-not-exist")},
		Files: map[schema.Metric]string{
			schema.ActivityMetric:  contract.DefaultActivityFile,
			schema.HeartRateMetric: contract.DefaultHeartRateFile,
			schema.SleepMetric:     contract.DefaultSleepFile,
			schema.WeightMetric:    contract.DefaultWeightFile,
		},
		OutputDir:        t.TempDir(),
		Output:           schema.CSVOut,
		RunsBackend:      schema.NoneBackend,
		WarehouseBackend: schema.NoneBackend,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("build_star_schema invalid output", func(t *testing.T) {
		res := callTool(t, nil, baseConfig(t), "build_star_schema", map[string]any{"output": "yaml"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "invalid output format")
	})

	t.Run("build_star_schema missing sources", func(t *testing.T) {
		res := callTool(t, nil, baseConfig(t), "build_star_schema", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "build failed")
	})

	t.Run("get_runs_status without store", func(t *testing.T) {
		res := callTool(t, nil, baseConfig(t), "get_runs_status", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "not initialized")
	})
}

func TestMCPServerHandlers_BuildStarSchema(t *testing.T) {
	baseCfg := baseConfig(t)
	outDir := filepath.Join(t.TempDir(), "mcp-out")

	res := callTool(t, nil, baseCfg, "build_star_schema", map[string]any{
		"sources":    writeExports(t),
		"output":     "json",
		"output_dir": outDir,
	})
	require.False(t, res.IsError, resultText(res))

	var result schema.BuildResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	assert.Equal(t, schema.JSONOut, result.Output)
	require.Len(t, result.Files, len(schema.AllTables))
	assert.Equal(t, filepath.Join(outDir, "FactHeartRate.json"), result.Files[3].Path)
	assert.Equal(t, 1, result.Files[3].Rows)

	// The base config is not modified by request overrides
	assert.Equal(t, schema.CSVOut, baseCfg.Output)
}

func TestMCPServerHandlers_Status(t *testing.T) {
	runStore := &store.MockRunStore{}
	runStore.On("GetStatus").Return(schema.RunStatus{Backend: "sqlite", Connected: true, TotalRuns: 3}, nil)

	warehouse := &store.MockWarehouse{}
	warehouse.On("GetStatus").Return(schema.WarehouseStatus{}, errors.New("boom"))

	mgr := &store.MockStoreManager{}
	mgr.On("GetRunStore").Return(runStore)
	mgr.On("GetWarehouse").Return(warehouse)

	res := callTool(t, mgr, baseConfig(t), "get_runs_status", nil)
	require.False(t, res.IsError)
	var status schema.RunStatus
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &status))
	assert.Equal(t, 3, status.TotalRuns)

	res = callTool(t, mgr, baseConfig(t), "get_warehouse_status", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "boom")
}
