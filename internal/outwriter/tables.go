package outwriter

import "github.com/huangsam/fitstar/schema"

// Column headers of every table, in output order.
var tableHeaders = map[schema.TableName][]string{
	schema.DimUsersTable: {"UserID"},
	schema.DimTimeTable:  {"Date", "Day", "Month", "Weekday"},
	schema.FactActivityTable: {
		"UserID", "Date", "TotalSteps", "TotalDistance", "Calories",
		"VeryActiveMinutes", "FairlyActiveMinutes", "LightlyActiveMinutes", "SedentaryMinutes",
	},
	schema.FactHeartRateTable: {"UserID", "Date", "TimeOnly", "AvgHeartRate"},
	schema.FactSleepTable:     {"UserID", "Date", "TotalSleepMinutes"},
	schema.FactWeightTable:    {"UserID", "DateOnly", "TimeOnly", "WeightKg", "BMI"},
}

// optional unwraps a pointer, returning nil for a missing value.
func optional[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// tableRecords returns the header and typed cells of one table.
// Missing values are nil cells.
func tableRecords(star *schema.StarSchema, table schema.TableName) ([]string, [][]any) {
	rows := make([][]any, 0, star.RowCount(table))
	switch table {
	case schema.DimUsersTable:
		for _, u := range star.Users {
			rows = append(rows, []any{u.UserID})
		}
	case schema.DimTimeTable:
		for _, d := range star.Calendar {
			rows = append(rows, []any{d.Date, d.Day, d.Month, d.Weekday})
		}
	case schema.FactActivityTable:
		for _, a := range star.Activity {
			rows = append(rows, []any{
				a.UserID, a.Date, a.TotalSteps, a.TotalDistance, a.Calories,
				a.VeryActiveMinutes, a.FairlyActiveMinutes, a.LightlyActiveMinutes, a.SedentaryMinutes,
			})
		}
	case schema.FactHeartRateTable:
		for _, h := range star.HeartRate {
			rows = append(rows, []any{h.UserID, h.Date, h.TimeOnly, h.AvgHeartRate})
		}
	case schema.FactSleepTable:
		for _, s := range star.Sleep {
			rows = append(rows, []any{s.UserID, s.Date, s.TotalSleepMinutes})
		}
	case schema.FactWeightTable:
		for _, w := range star.Weight {
			rows = append(rows, []any{optional(w.UserID), optional(w.DateOnly), optional(w.TimeOnly), optional(w.WeightKg), optional(w.BMI)})
		}
	}
	return tableHeaders[table], rows
}
