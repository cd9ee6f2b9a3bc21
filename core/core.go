// Package core builds star schemas from cleaned wearable exports.
package core

import (
	"context"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/outwriter"
	"github.com/huangsam/fitstar/schema"
)

// ExecuteBuild runs the full pipeline and prints the completion summary.
// It serves as the main entry point for the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetBuildResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if shouldBeQuiet(ctx) {
		return nil
	}
	return outwriter.PrintBuildSummary(result, cfg)
}

// GetBuildResult runs the load, clean, build and write stages and returns
// what was written. Run history and warehouse sinks run after the files exist.
func GetBuildResult(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.BuildResult, error) {
	builder := NewBuildResultBuilder(ctx, cfg, mgr)
	builder.BeginRun()

	if _, err := builder.LoadSources(); err != nil {
		return nil, err
	}
	if _, err := builder.CleanData(); err != nil {
		return nil, err
	}
	builder.BuildSchema()
	if _, err := builder.WriteOutputs(); err != nil {
		return nil, err
	}
	builder.FinishRun()
	if _, err := builder.LoadWarehouse(); err != nil {
		return nil, err
	}

	return builder.BuildResult().GetResult(), nil
}
