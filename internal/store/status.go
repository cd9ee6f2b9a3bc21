package store

import (
	"fmt"
	"slices"

	"github.com/huangsam/fitstar/schema"
)

// printTableSizes prints row counts sorted by table name.
func printTableSizes(sizes map[string]int64) {
	fmt.Println("Table Sizes:")
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %d rows\n", name, sizes[name])
	}
}

// PrintRunStatus prints run history status information.
func PrintRunStatus(status schema.RunStatus) {
	fmt.Printf("Runs Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Total Rows Written: %d\n", status.TotalRows)
	}
	printTableSizes(status.TableSizes)
}

// PrintWarehouseStatus prints warehouse status information.
func PrintWarehouseStatus(status schema.WarehouseStatus) {
	fmt.Printf("Warehouse Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	printTableSizes(status.TableSizes)
}
