package outwriter

import (
	"fmt"
	"path/filepath"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
	"github.com/xuri/excelize/v2"
)

// xlsxCell converts a table cell into a value excelize stores natively.
// Calendar values are written as their text form.
func xlsxCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case schema.Date, schema.TimeOfDay:
		return formatCell(val)
	default:
		return val
	}
}

// writeWorkbook writes every table as its own sheet of one workbook.
func writeWorkbook(star *schema.StarSchema, cfg *contract.Config) ([]schema.OutputFile, error) {
	path := filepath.Join(cfg.OutputDir, WorkbookName)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	files := make([]schema.OutputFile, 0, len(schema.AllTables))
	for i, table := range schema.AllTables {
		sheet := string(table)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		header, rows := tableRecords(star, table)
		if err := setSheetRow(f, sheet, 1, toAny(header)); err != nil {
			return nil, err
		}
		for r, row := range rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = xlsxCell(v)
			}
			if err := setSheetRow(f, sheet, r+2, cells); err != nil {
				return nil, err
			}
		}

		files = append(files, schema.OutputFile{Table: table, Path: path, Rows: len(rows)})
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return files, nil
}

// setSheetRow writes one row starting at column A of the given 1-based row.
func setSheetRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// toAny widens a string slice.
func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
