package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	if file == os.Stdout {
		return writer(file)
	}
	if err := writer(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header followed by the rows.
func writeCSVWithHeader(w io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// formatFloat renders the shortest decimal that round-trips, keeping a
// trailing ".0" on integral values.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// formatCell renders one table cell as text. Nil is the empty string.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// formatRows renders every cell of the rows as text.
func formatRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		out[i] = cells
	}
	return out
}

// writeTableCSV writes one table as CSV with a header row and no index column.
func writeTableCSV(star *schema.StarSchema, table schema.TableName, path string) error {
	header, rows := tableRecords(star, table)
	return writeWithFile(path, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, formatRows(rows))
	})
}

// writeTableJSON writes one table as a JSON array of objects.
func writeTableJSON(star *schema.StarSchema, table schema.TableName, path string) error {
	var data any
	switch table {
	case schema.DimUsersTable:
		data = star.Users
	case schema.DimTimeTable:
		data = star.Calendar
	case schema.FactActivityTable:
		data = star.Activity
	case schema.FactHeartRateTable:
		data = star.HeartRate
	case schema.FactSleepTable:
		data = star.Sleep
	case schema.FactWeightTable:
		data = star.Weight
	default:
		return fmt.Errorf("unknown table: %s", table)
	}
	return writeWithFile(path, func(w io.Writer) error {
		return writeJSON(w, data)
	})
}
