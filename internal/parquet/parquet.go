// Package parquet provides data structures and functions for exporting fitstar
// tables and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/fitstar/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single build run with metadata.
// This struct maps to the fitstar_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunKey is the UUID assigned to the run
	RunKey string `parquet:"run_key,snappy"`

	// StartTime is when the build began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the build completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of rows written across all tables
	TotalRows int32 `parquet:"total_rows,snappy"`

	// OutputFormat is the file format the tables were written in
	OutputFormat string `parquet:"output_format,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunTable represents one table written by a run.
// This struct maps to the fitstar_run_tables database table.
type RunTable struct {
	RunID      int64  `parquet:"run_id,snappy"`
	TableName  string `parquet:"table_name,snappy"`
	RowCount   int32  `parquet:"row_count,snappy"`
	OutputPath string `parquet:"output_path,snappy"`
}

// DimUser is the Parquet row of the DimUsers table.
type DimUser struct {
	UserID int64 `parquet:"UserID,snappy"`
}

// DimTime is the Parquet row of the DimTime table.
type DimTime struct {
	Date    string `parquet:"Date,snappy"`
	Day     int32  `parquet:"Day,snappy"`
	Month   int32  `parquet:"Month,snappy"`
	Weekday string `parquet:"Weekday,snappy"`
}

// FactActivity is the Parquet row of the FactActivity table.
type FactActivity struct {
	UserID               int64   `parquet:"UserID,snappy"`
	Date                 string  `parquet:"Date,snappy"`
	TotalSteps           int64   `parquet:"TotalSteps,snappy"`
	TotalDistance        float64 `parquet:"TotalDistance,snappy"`
	Calories             int64   `parquet:"Calories,snappy"`
	VeryActiveMinutes    int64   `parquet:"VeryActiveMinutes,snappy"`
	FairlyActiveMinutes  int64   `parquet:"FairlyActiveMinutes,snappy"`
	LightlyActiveMinutes int64   `parquet:"LightlyActiveMinutes,snappy"`
	SedentaryMinutes     int64   `parquet:"SedentaryMinutes,snappy"`
}

// FactHeartRate is the Parquet row of the FactHeartRate table.
type FactHeartRate struct {
	UserID       int64   `parquet:"UserID,snappy"`
	Date         string  `parquet:"Date,snappy"`
	TimeOnly     string  `parquet:"TimeOnly,snappy"`
	AvgHeartRate float64 `parquet:"AvgHeartRate,snappy"`
}

// FactSleep is the Parquet row of the FactSleep table.
type FactSleep struct {
	UserID            int64  `parquet:"UserID,snappy"`
	Date              string `parquet:"Date,snappy"`
	TotalSleepMinutes int64  `parquet:"TotalSleepMinutes,snappy"`
}

// FactWeight is the Parquet row of the FactWeight table. Sparse measures are optional.
type FactWeight struct {
	UserID   *int64   `parquet:"UserID,optional,snappy"`
	DateOnly *string  `parquet:"DateOnly,optional,snappy"`
	TimeOnly *string  `parquet:"TimeOnly,optional,snappy"`
	WeightKg *float64 `parquet:"WeightKg,optional,snappy"`
	BMI      *float64 `parquet:"BMI,optional,snappy"`
}

// writeParquet writes rows to a new Parquet file whose schema is derived from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunTablesParquet writes a slice of RunTable structs to a Parquet file.
func WriteRunTablesParquet(data []RunTable, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteStarTable writes one star schema table to a Parquet file.
func WriteStarTable(star *schema.StarSchema, table schema.TableName, outputPath string) error {
	switch table {
	case schema.DimUsersTable:
		return writeParquet(ConvertDimUsers(star.Users), outputPath)
	case schema.DimTimeTable:
		return writeParquet(ConvertDimTime(star.Calendar), outputPath)
	case schema.FactActivityTable:
		return writeParquet(ConvertFactActivity(star.Activity), outputPath)
	case schema.FactHeartRateTable:
		return writeParquet(ConvertFactHeartRate(star.HeartRate), outputPath)
	case schema.FactSleepTable:
		return writeParquet(ConvertFactSleep(star.Sleep), outputPath)
	case schema.FactWeightTable:
		return writeParquet(ConvertFactWeight(star.Weight), outputPath)
	default:
		return fmt.Errorf("unknown table: %s", table)
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunKey:        record.RunKey,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			OutputFormat:  record.OutputFormat,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunTableRecords converts schema.RunTableRecord to RunTable for Parquet export.
func ConvertRunTableRecords(records []schema.RunTableRecord) []RunTable {
	result := make([]RunTable, len(records))
	for i, record := range records {
		result[i] = RunTable(record)
	}
	return result
}

// ConvertDimUsers converts users to Parquet rows.
func ConvertDimUsers(rows []schema.DimUser) []DimUser {
	result := make([]DimUser, len(rows))
	for i, row := range rows {
		result[i] = DimUser{UserID: row.UserID}
	}
	return result
}

// ConvertDimTime converts calendar days to Parquet rows.
func ConvertDimTime(rows []schema.DimTime) []DimTime {
	result := make([]DimTime, len(rows))
	for i, row := range rows {
		result[i] = DimTime{
			Date:    row.Date.String(),
			Day:     int32(row.Day),
			Month:   int32(row.Month),
			Weekday: row.Weekday,
		}
	}
	return result
}

// ConvertFactActivity converts activity facts to Parquet rows.
func ConvertFactActivity(rows []schema.FactActivity) []FactActivity {
	result := make([]FactActivity, len(rows))
	for i, row := range rows {
		result[i] = FactActivity{
			UserID:               row.UserID,
			Date:                 row.Date.String(),
			TotalSteps:           row.TotalSteps,
			TotalDistance:        row.TotalDistance,
			Calories:             row.Calories,
			VeryActiveMinutes:    row.VeryActiveMinutes,
			FairlyActiveMinutes:  row.FairlyActiveMinutes,
			LightlyActiveMinutes: row.LightlyActiveMinutes,
			SedentaryMinutes:     row.SedentaryMinutes,
		}
	}
	return result
}

// ConvertFactHeartRate converts heart-rate facts to Parquet rows.
func ConvertFactHeartRate(rows []schema.FactHeartRate) []FactHeartRate {
	result := make([]FactHeartRate, len(rows))
	for i, row := range rows {
		result[i] = FactHeartRate{
			UserID:       row.UserID,
			Date:         row.Date.String(),
			TimeOnly:     row.TimeOnly.String(),
			AvgHeartRate: row.AvgHeartRate,
		}
	}
	return result
}

// ConvertFactSleep converts sleep facts to Parquet rows.
func ConvertFactSleep(rows []schema.FactSleep) []FactSleep {
	result := make([]FactSleep, len(rows))
	for i, row := range rows {
		result[i] = FactSleep{
			UserID:            row.UserID,
			Date:              row.Date.String(),
			TotalSleepMinutes: row.TotalSleepMinutes,
		}
	}
	return result
}

// ConvertFactWeight converts weight facts to Parquet rows, keeping missing values null.
func ConvertFactWeight(rows []schema.FactWeight) []FactWeight {
	result := make([]FactWeight, len(rows))
	for i, row := range rows {
		out := FactWeight{
			UserID:   row.UserID,
			WeightKg: row.WeightKg,
			BMI:      row.BMI,
		}
		if row.DateOnly != nil {
			s := row.DateOnly.String()
			out.DateOnly = &s
		}
		if row.TimeOnly != nil {
			s := row.TimeOnly.String()
			out.TimeOnly = &s
		}
		result[i] = out
	}
	return result
}
