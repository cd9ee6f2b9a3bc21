// Package contract provides interfaces and shared utilities for fitstar's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/fitstar/schema"
)

// StoreManager defines the interface for reaching the optional sinks of a build.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
	GetWarehouse() Warehouse
}

// RunStore defines the interface for tracking build runs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(runKey string, startTime time.Time, output schema.OutputMode, configParams map[string]any) (int64, error)

	// RecordTableOutput stores the row count and path of one written table
	RecordTableOutput(runID int64, file schema.OutputFile) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunTables returns every recorded table output ordered by run ID
	GetAllRunTables() ([]schema.RunTableRecord, error)

	// Close closes the underlying connection
	Close() error
}

// Warehouse defines the interface for loading a star schema into a database.
type Warehouse interface {
	// Load replaces the warehouse contents with the given star schema in one transaction
	Load(ctx context.Context, star *schema.StarSchema) error

	// GetStatus returns the row counts held by the warehouse
	GetStatus() (schema.WarehouseStatus, error)

	// Close closes the underlying connection
	Close() error
}
