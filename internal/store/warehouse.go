package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
)

// Warehouse table names, in load order.
const (
	dimUsersTable      = "dim_users"
	dimTimeTable       = "dim_time"
	factActivityTable  = "fact_activity"
	factHeartRateTable = "fact_heart_rate"
	factSleepTable     = "fact_sleep"
	factWeightTable    = "fact_weight"
)

// warehouseTables maps star schema tables to warehouse tables.
var warehouseTables = map[schema.TableName]string{
	schema.DimUsersTable:      dimUsersTable,
	schema.DimTimeTable:       dimTimeTable,
	schema.FactActivityTable:  factActivityTable,
	schema.FactHeartRateTable: factHeartRateTable,
	schema.FactSleepTable:     factSleepTable,
	schema.FactWeightTable:    factWeightTable,
}

// warehouseTableNames returns the warehouse tables in star schema order.
func warehouseTableNames() []string {
	names := make([]string, 0, len(schema.AllTables))
	for _, table := range schema.AllTables {
		names = append(names, warehouseTables[table])
	}
	return names
}

// WarehouseImpl implements the Warehouse interface.
type WarehouseImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.Warehouse = &WarehouseImpl{} // Compile-time check

// NewWarehouse connects to the warehouse and migrates it to the latest schema.
func NewWarehouse(backend schema.DatabaseBackend, connStr string) (contract.Warehouse, error) {
	if backend == schema.NoneBackend {
		return &WarehouseImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetWarehouseDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &WarehouseImpl{db: db, backend: backend}, nil
}

// disabled reports whether the warehouse is a no-op.
func (w *WarehouseImpl) disabled() bool {
	return w.backend == schema.NoneBackend || w.db == nil
}

// insertQuery builds a parameterized INSERT for the table and columns.
func (w *WarehouseImpl) insertQuery(table string, columns ...string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(table, w.backend), strings.Join(columns, ", "), placeholders(w.backend, len(columns)))
}

// nullable converts an optional value to a driver value.
func nullable[T any](v *T, render func(T) any) any {
	if v == nil {
		return nil
	}
	return render(*v)
}

// tableRows returns the insert statement and row arguments of one star table.
func (w *WarehouseImpl) tableRows(star *schema.StarSchema, table schema.TableName) (string, [][]any) {
	var rows [][]any
	switch table {
	case schema.DimUsersTable:
		for _, u := range star.Users {
			rows = append(rows, []any{u.UserID})
		}
		return w.insertQuery(dimUsersTable, "user_id"), rows

	case schema.DimTimeTable:
		for _, d := range star.Calendar {
			rows = append(rows, []any{d.Date.String(), d.Day, d.Month, d.Weekday})
		}
		return w.insertQuery(dimTimeTable, "date", "day", "month", "weekday"), rows

	case schema.FactActivityTable:
		for _, a := range star.Activity {
			rows = append(rows, []any{
				a.UserID, a.Date.String(), a.TotalSteps, a.TotalDistance, a.Calories,
				a.VeryActiveMinutes, a.FairlyActiveMinutes, a.LightlyActiveMinutes, a.SedentaryMinutes,
			})
		}
		return w.insertQuery(factActivityTable,
			"user_id", "date", "total_steps", "total_distance", "calories",
			"very_active_minutes", "fairly_active_minutes", "lightly_active_minutes", "sedentary_minutes"), rows

	case schema.FactHeartRateTable:
		for _, h := range star.HeartRate {
			rows = append(rows, []any{h.UserID, h.Date.String(), h.TimeOnly.String(), h.AvgHeartRate})
		}
		return w.insertQuery(factHeartRateTable, "user_id", "date", "time_only", "avg_heart_rate"), rows

	case schema.FactSleepTable:
		for _, s := range star.Sleep {
			rows = append(rows, []any{s.UserID, s.Date.String(), s.TotalSleepMinutes})
		}
		return w.insertQuery(factSleepTable, "user_id", "date", "total_sleep_minutes"), rows

	default: // FactWeight
		for _, f := range star.Weight {
			rows = append(rows, []any{
				nullable(f.UserID, func(v int64) any { return v }),
				nullable(f.DateOnly, func(d schema.Date) any { return d.String() }),
				nullable(f.TimeOnly, func(t schema.TimeOfDay) any { return t.String() }),
				nullable(f.WeightKg, func(v float64) any { return v }),
				nullable(f.BMI, func(v float64) any { return v }),
			})
		}
		return w.insertQuery(factWeightTable, "user_id", "date_only", "time_only", "weight_kg", "bmi"), rows
	}
}

// Load replaces the warehouse contents with the given star schema in one transaction.
func (w *WarehouseImpl) Load(ctx context.Context, star *schema.StarSchema) error {
	if w.disabled() {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin warehouse transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Facts are cleared before dimensions
	names := warehouseTableNames()
	for i := len(names) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quoteTableName(names[i], w.backend))); err != nil {
			return fmt.Errorf("failed to clear %s: %w", names[i], err)
		}
	}

	for _, table := range schema.AllTables {
		query, rows := w.tableRows(star, table)
		if err := insertRows(ctx, tx, query, rows); err != nil {
			return fmt.Errorf("failed to load %s: %w", warehouseTables[table], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit warehouse transaction: %w", err)
	}
	return nil
}

// insertRows executes one prepared insert per row.
func insertRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// GetStatus returns the row counts held by the warehouse.
func (w *WarehouseImpl) GetStatus() (schema.WarehouseStatus, error) {
	status := schema.WarehouseStatus{
		Backend:    string(w.backend),
		Connected:  w.db != nil,
		TableSizes: make(map[string]int64),
	}
	if w.disabled() {
		return status, nil
	}

	for _, table := range warehouseTableNames() {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, w.backend))
		if err := w.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (w *WarehouseImpl) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
