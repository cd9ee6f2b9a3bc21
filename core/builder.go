package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/fitstar/internal/cleaner"
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/loader"
	"github.com/huangsam/fitstar/internal/outwriter"
	"github.com/huangsam/fitstar/schema"
)

// BuildResultBuilder runs the load, clean, build and write stages of a build.
type BuildResultBuilder struct {
	ctx    context.Context
	cfg    *contract.Config
	mgr    contract.StoreManager
	start  time.Time
	runKey string
	runID  int64

	tables          map[schema.Metric]loader.Table
	data            *schema.CleanedData
	star            *schema.StarSchema
	files           []schema.OutputFile
	warehouseLoaded bool
	result          *schema.BuildResult
}

// NewBuildResultBuilder creates a new builder for one build run.
func NewBuildResultBuilder(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) *BuildResultBuilder {
	return &BuildResultBuilder{
		ctx:    ctx,
		cfg:    cfg,
		mgr:    mgr,
		start:  time.Now(),
		runKey: uuid.NewString(),
	}
}

// runStore returns the configured run store or nil.
func (b *BuildResultBuilder) runStore() contract.RunStore {
	if b.mgr == nil {
		return nil
	}
	return b.mgr.GetRunStore()
}

// warehouse returns the configured warehouse or nil.
func (b *BuildResultBuilder) warehouse() contract.Warehouse {
	if b.mgr == nil {
		return nil
	}
	return b.mgr.GetWarehouse()
}

// BeginRun registers the run in the run history. Tracking failures are
// reported and never stop the build.
func (b *BuildResultBuilder) BeginRun() *BuildResultBuilder {
	runStore := b.runStore()
	if runStore == nil {
		return b
	}
	configParams := map[string]any{
		"sources":           b.cfg.Sources,
		"files":             b.cfg.Files,
		"output":            string(b.cfg.Output),
		"output_dir":        b.cfg.OutputDir,
		"warehouse_backend": string(b.cfg.WarehouseBackend),
	}
	runID, err := runStore.BeginRun(b.runKey, b.start, b.cfg.Output, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return b
	}
	b.runID = runID
	return b
}

// LoadSources reads and concatenates every metric export across the sources.
func (b *BuildResultBuilder) LoadSources() (*BuildResultBuilder, error) {
	b.tables = make(map[schema.Metric]loader.Table, len(schema.AllMetrics))
	for _, metric := range schema.AllMetrics {
		if err := b.ctx.Err(); err != nil {
			return nil, err
		}
		table, err := loader.LoadAndConcat(b.cfg.Sources, b.cfg.Files[metric])
		if err != nil {
			return nil, fmt.Errorf("failed to load %s data: %w. Verify the source directories contain the export files", metric, err)
		}
		b.tables[metric] = table
	}
	return b, nil
}

// CleanData applies the per-metric cleaning rules.
func (b *BuildResultBuilder) CleanData() (*BuildResultBuilder, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	data, err := cleaner.Clean(b.tables)
	if err != nil {
		return nil, fmt.Errorf("failed to clean data: %w", err)
	}
	b.data = data
	return b, nil
}

// BuildSchema derives the star schema from the cleaned data.
func (b *BuildResultBuilder) BuildSchema() *BuildResultBuilder {
	b.star = BuildStarSchema(b.data)
	return b
}

// WriteOutputs writes every star table in the configured format.
func (b *BuildResultBuilder) WriteOutputs() (*BuildResultBuilder, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	files, err := outwriter.WriteStarSchema(b.star, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to write star schema: %w", err)
	}
	b.files = files
	return b, nil
}

// LoadWarehouse replaces the warehouse contents when a warehouse is configured.
func (b *BuildResultBuilder) LoadWarehouse() (*BuildResultBuilder, error) {
	if b.cfg.WarehouseBackend == "" || b.cfg.WarehouseBackend == schema.NoneBackend {
		return b, nil
	}
	warehouse := b.warehouse()
	if warehouse == nil {
		return b, nil
	}
	if err := warehouse.Load(b.ctx, b.star); err != nil {
		return nil, fmt.Errorf("failed to load warehouse: %w", err)
	}
	b.warehouseLoaded = true
	return b, nil
}

// FinishRun records the written tables and closes the run.
func (b *BuildResultBuilder) FinishRun() *BuildResultBuilder {
	runStore := b.runStore()
	if runStore == nil || b.runID == 0 {
		return b
	}
	for _, file := range b.files {
		if err := runStore.RecordTableOutput(b.runID, file); err != nil {
			contract.LogWarn(fmt.Sprintf("Run tracking failed for table %s", file.Table), err)
		}
	}
	if err := runStore.EndRun(b.runID, time.Now(), b.star.TotalRows()); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
	return b
}

// BuildResult constructs the final BuildResult.
func (b *BuildResultBuilder) BuildResult() *BuildResultBuilder {
	b.result = &schema.BuildResult{
		RunKey:          b.runKey,
		Sources:         b.cfg.Sources,
		Output:          b.cfg.Output,
		Files:           b.files,
		TotalRows:       b.star.TotalRows(),
		WarehouseLoaded: b.warehouseLoaded,
		Duration:        time.Since(b.start),
	}
	return b
}

// GetResult returns the built BuildResult.
func (b *BuildResultBuilder) GetResult() *schema.BuildResult {
	return b.result
}
