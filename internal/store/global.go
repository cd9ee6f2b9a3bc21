package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the run store and the warehouse.
func InitStores(runsBackend schema.DatabaseBackend, runsConnStr string, warehouseBackend schema.DatabaseBackend, warehouseConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		runs, err := NewRunStore(runsBackend, runsConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		warehouse, err := NewWarehouse(warehouseBackend, warehouseConnStr)
		if err != nil {
			_ = runs.Close()
			initErr = fmt.Errorf("failed to initialize warehouse: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.runs = runs
		Manager.warehouse = warehouse
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
		if Manager.warehouse != nil {
			_ = Manager.warehouse.Close()
		}
	})
}

// removeSQLiteFile deletes a SQLite database file, ignoring a missing file.
func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// ClearRuns clears the run history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
// For NoneBackend, it does nothing.
func ClearRuns(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetRunsDBFilePath()
		}
		return removeSQLiteFile(connStr)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, runTablesTable, runsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}

// ClearWarehouse clears the warehouse for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it rolls back every migration.
// For NoneBackend, it does nothing.
func ClearWarehouse(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetWarehouseDBFilePath()
		}
		return removeSQLiteFile(connStr)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return MigrateWarehouse(backend, connStr, 0)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported warehouse backend for clearing: %s", backend)
	}
}
