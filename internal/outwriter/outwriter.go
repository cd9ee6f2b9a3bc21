// Package outwriter writes star schema tables and prints build summaries.
package outwriter

import (
	"fmt"
	"os"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/internal/parquet"
	"github.com/huangsam/fitstar/schema"
)

// WorkbookName is the file that holds every table when writing xlsx.
const WorkbookName = "StarSchema.xlsx"

// WriteStarSchema writes all six tables to the output directory, dispatching
// on the configured output format. It returns one entry per table written.
func WriteStarSchema(star *schema.StarSchema, cfg *contract.Config) ([]schema.OutputFile, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	if cfg.Output == schema.XLSXOut {
		return writeWorkbook(star, cfg)
	}

	files := make([]schema.OutputFile, 0, len(schema.AllTables))
	for _, table := range schema.AllTables {
		path := cfg.OutputPath(table)
		var err error
		switch cfg.Output {
		case schema.JSONOut:
			err = writeTableJSON(star, table, path)
		case schema.ParquetOut:
			err = parquet.WriteStarTable(star, table, path)
		default:
			err = writeTableCSV(star, table, path)
		}
		if err != nil {
			return nil, fmt.Errorf("error writing %s: %w", table, err)
		}
		files = append(files, schema.OutputFile{
			Table: table,
			Path:  path,
			Rows:  star.RowCount(table),
		})
	}
	return files, nil
}
