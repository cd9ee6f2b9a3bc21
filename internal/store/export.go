package store

import (
	"errors"
	"fmt"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/parquet"
)

// ExecuteRunsExport exports the run history to Parquet files prefixed by outputFile.
func ExecuteRunsExport(runStore contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if runStore == nil {
		return errors.New("run store is not initialized")
	}

	status, err := runStore.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total table records: %d\n", status.TableSizes[runTablesTable])

	runs, err := runStore.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	runTables, err := runStore.GetAllRunTables()
	if err != nil {
		return fmt.Errorf("failed to retrieve run tables: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	runTablesFile := outputFile + ".run_tables.parquet"
	if err := parquet.WriteRunTablesParquet(parquet.ConvertRunTableRecords(runTables), runTablesFile); err != nil {
		return fmt.Errorf("failed to write run tables: %w", err)
	}
	fmt.Printf("Exported %d table records to: %s\n", len(runTables), runTablesFile)

	return nil
}
