// Package loader reads wearable export files into raw string tables.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent from a table.
var ErrMissingColumn = errors.New("missing column")

// missingMarkers are the cell values read as missing. The set matches the
// default NA strings of common dataframe CSV readers. Cells are compared
// as-is, so whitespace around a marker makes it a value.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// Table is an ordered header plus rows of raw cells.
// Tables are treated as immutable: every transformation returns a new Table.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	return slices.Index(t.Header, name)
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Indexes resolves the positions of all named columns.
func (t Table) Indexes(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, name, strings.Join(t.Header, ", "))
		}
		out[i] = idx
	}
	return out, nil
}

// DropColumns returns a copy of t without the named columns.
// Names that are not present are ignored.
func (t Table) DropColumns(names ...string) Table {
	keep := make([]int, 0, len(t.Header))
	for i, col := range t.Header {
		if !slices.Contains(names, col) {
			keep = append(keep, i)
		}
	}

	out := Table{
		Header: make([]string, len(keep)),
		Rows:   make([][]string, len(t.Rows)),
	}
	for j, i := range keep {
		out.Header[j] = t.Header[i]
	}
	for r, row := range t.Rows {
		newRow := make([]string, len(keep))
		for j, i := range keep {
			newRow[j] = row[i]
		}
		out.Rows[r] = newRow
	}
	return out
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingMarkers[cell]
	return ok
}

// RowHasMissing reports whether any cell of the row is missing.
func RowHasMissing(row []string) bool {
	return slices.ContainsFunc(row, IsMissing)
}

// ReadCSV reads a CSV file with a header row into a Table.
func ReadCSV(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	table, err := ReadTable(file)
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return table, nil
}

// ReadTable parses CSV content with a header row. Short rows are padded with
// missing cells; rows wider than the header are rejected.
func ReadTable(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, errors.New("no columns to parse from file")
	}
	if err != nil {
		return Table{}, err
	}
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		header[i] = strings.TrimSpace(col)
	}

	table := Table{Header: header}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		if len(record) > len(header) {
			return Table{}, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}
		if isBlankLine(record) {
			continue
		}
		if len(record) < len(header) {
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// isBlankLine matches a record made of a single empty field.
func isBlankLine(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

// Concat appends the rows of all tables in order. The resulting header is
// the union of all headers in first-seen order; cells for columns a table
// does not have are left empty (missing).
func Concat(tables ...Table) Table {
	var header []string
	for _, t := range tables {
		for _, col := range t.Header {
			if !slices.Contains(header, col) {
				header = append(header, col)
			}
		}
	}

	out := Table{Header: header}
	for _, t := range tables {
		positions := make([]int, len(t.Header))
		for i, col := range t.Header {
			positions[i] = slices.Index(header, col)
		}
		for _, row := range t.Rows {
			newRow := make([]string, len(header))
			for i, cell := range row {
				newRow[positions[i]] = cell
			}
			out.Rows = append(out.Rows, newRow)
		}
	}
	return out
}

// LoadAndConcat reads filename from every source directory, in order, and
// concatenates the results. Any missing or unparseable file is an error.
func LoadAndConcat(sources []string, filename string) (Table, error) {
	if len(sources) == 0 {
		return Table{}, errors.New("no source directories configured")
	}
	tables := make([]Table, 0, len(sources))
	for _, dir := range sources {
		t, err := ReadCSV(filepath.Join(dir, filename))
		if err != nil {
			return Table{}, err
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}
