package cmd

import (
	"fmt"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/store"
	"github.com/huangsam/fitstar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads the run history backend and opens only the run store.
func runsSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := backendSetup("runs")
	if err != nil {
		return err
	}
	if err := store.InitStores(backend, connStr, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	storeManager = store.Manager
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of build runs",
	Long: `Every build records a run: when it started and finished, its configuration,
and the row count and path of each table it wrote.

Run history is off unless a backend is chosen with --runs-backend or
FITSTAR_RUNS_BACKEND. A sqlite backend without --runs-db-connect uses
~/.fitstar_runs.db.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status - Show run history statistics
  export - Export run history to Parquet
  clear  - Remove all run history`,
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		store.PrintRunStatus(status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics tools",
	Long: `Export stored runs and per-table outputs to two Parquet files:
<output-file>.runs.parquet and <output-file>.run_tables.parquet.

Examples:
  fitstar runs export --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet')"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteRunsExport(storeManager.GetRunStore(), viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsClearCmd clears run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs. For SQLite the database file is removed. For MySQL and
PostgreSQL the run tables are dropped.

WARNING: This action cannot be undone. Consider exporting first.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		backend, connStr, err := backendSetup("runs")
		if err != nil {
			return err
		}
		cfg.RunsBackend = backend
		cfg.RunsDBConnect = connStr
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearRuns(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}
