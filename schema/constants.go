package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output files.
	OutputMode string

	// DatabaseBackend represents the database backend for run history and the warehouse.
	DatabaseBackend string

	// Metric identifies one of the wearable export files.
	Metric string

	// TableName identifies one of the star schema tables.
	TableName string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All metrics ingested.
const (
	ActivityMetric  Metric = "activity"
	HeartRateMetric Metric = "heartrate"
	SleepMetric     Metric = "sleep"
	WeightMetric    Metric = "weight"
)

// All star schema tables, named as their output files.
const (
	DimUsersTable      TableName = "DimUsers"
	DimTimeTable       TableName = "DimTime"
	FactActivityTable  TableName = "FactActivity"
	FactHeartRateTable TableName = "FactHeartRate"
	FactSleepTable     TableName = "FactSleep"
	FactWeightTable    TableName = "FactWeight"
)

// AllTables lists the star schema tables in output order.
var AllTables = []TableName{
	DimUsersTable,
	DimTimeTable,
	FactActivityTable,
	FactHeartRateTable,
	FactSleepTable,
	FactWeightTable,
}

// AllMetrics lists the metrics in load order.
var AllMetrics = []Metric{ActivityMetric, HeartRateMetric, SleepMetric, WeightMetric}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Extension returns the file extension used for the output mode.
func (o OutputMode) Extension() string {
	return "." + string(o)
}
