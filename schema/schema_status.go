package schema

import "time"

// OutputFile describes one table written by a build.
type OutputFile struct {
	Table TableName `json:"table"`
	Path  string    `json:"path"`
	Rows  int       `json:"rows"`
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	RunKey          string        `json:"run_key"`
	Sources         []string      `json:"sources"`
	Output          OutputMode    `json:"output"`
	Files           []OutputFile  `json:"files"`
	TotalRows       int           `json:"total_rows"`
	WarehouseLoaded bool          `json:"warehouse_loaded"`
	Duration        time.Duration `json:"duration"`
}

// RunStatus represents the status of the run history store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int64            `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// WarehouseStatus represents the row counts held by the warehouse.
type WarehouseStatus struct {
	Backend    string           `json:"backend"`
	Connected  bool             `json:"connected"`
	TableSizes map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the fitstar_runs table.
type RunRecord struct {
	RunID         int64
	RunKey        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRows     int32
	OutputFormat  string
	ConfigParams  *string
}

// RunTableRecord represents a row from the fitstar_run_tables table.
type RunTableRecord struct {
	RunID      int64
	TableName  string
	RowCount   int32
	OutputPath string
}
