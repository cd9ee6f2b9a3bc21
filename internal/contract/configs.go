package contract

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/huangsam/fitstar/schema"
)

// Default source directories, one per collection period.
var DefaultSources = []string{
	"mturkfitbit_export_3.12.16-4.11.16/Fitabase Data 3.12.16-4.11.16",
	"mturkfitbit_export_4.12.16-5.12.16/Fitabase Data 4.12.16-5.12.16",
}

// Default export filenames per metric.
const (
	DefaultActivityFile  = "dailyActivity_merged.csv"
	DefaultHeartRateFile = "heartrate_seconds_merged.csv"
	DefaultSleepFile     = "minuteSleep_merged.csv"
	DefaultWeightFile    = "weightLogInfo_merged.csv"
	DefaultOutputDir     = "."
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a build.
// This struct remains the "final, validated" config.
type Config struct {
	Sources   []string
	Files     map[schema.Metric]string
	OutputDir string
	Output    schema.OutputMode
	Detail    bool
	Width     int // Terminal width override (0 = auto-detect)
	UseColors bool

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	WarehouseBackend   schema.DatabaseBackend
	WarehouseDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source             []string `mapstructure:"source"`
	ActivityFile       string   `mapstructure:"activity-file"`
	HeartRateFile      string   `mapstructure:"heartrate-file"`
	SleepFile          string   `mapstructure:"sleep-file"`
	WeightFile         string   `mapstructure:"weight-file"`
	RunsBackend        string   `mapstructure:"runs-backend"`
	RunsDBConnect      string   `mapstructure:"runs-db-connect"`
	WarehouseBackend   string   `mapstructure:"warehouse-backend"`
	WarehouseDBConnect string   `mapstructure:"warehouse-db-connect"`
	Color              string   `mapstructure:"color"`

	// --- Fields from buildCmd.Flags() ---
	OutputDir string `mapstructure:"output-dir"`
	Output    string `mapstructure:"output"`
	Detail    bool   `mapstructure:"detail"`
	Width     int    `mapstructure:"width"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Sources != nil {
		clone.Sources = make([]string, len(c.Sources))
		copy(clone.Sources, c.Sources)
	}
	if c.Files != nil {
		clone.Files = make(map[schema.Metric]string, len(c.Files))
		maps.Copy(clone.Files, c.Files)
	}
	return &clone
}

// OutputPath returns the path a table is written to in the configured format.
func (c *Config) OutputPath(table schema.TableName) string {
	return filepath.Join(c.OutputDir, string(table)+c.Output.Extension())
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// processSources normalizes the source directories and export filenames.
func processSources(cfg *Config, input *ConfigRawInput) error {
	cfg.Sources = nil
	for _, src := range input.Source {
		for part := range strings.SplitSeq(src, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				cfg.Sources = append(cfg.Sources, trimmed)
			}
		}
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source directory is required")
	}

	cfg.Files = map[schema.Metric]string{
		schema.ActivityMetric:  strings.TrimSpace(input.ActivityFile),
		schema.HeartRateMetric: strings.TrimSpace(input.HeartRateFile),
		schema.SleepMetric:     strings.TrimSpace(input.SleepFile),
		schema.WeightMetric:    strings.TrimSpace(input.WeightFile),
	}
	for _, metric := range schema.AllMetrics {
		if cfg.Files[metric] == "" {
			return fmt.Errorf("%s file name cannot be empty", metric)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Detail = input.Detail

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.OutputDir = strings.TrimSpace(input.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet, xlsx", input.Output)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// parseBackend lowercases and validates a backend name. Empty means none.
func parseBackend(kind, raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		return schema.NoneBackend, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s backend '%s'. must be sqlite, mysql, postgresql, none", kind, raw)
	}
	return backend, nil
}

// validateBackendConfigs validates runs and warehouse backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error

	// --- Runs Backend Validation ---
	if cfg.RunsBackend, err = parseBackend("runs", input.RunsBackend); err != nil {
		return err
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs storage: %w", err)
	}

	// --- Warehouse Backend Validation ---
	if cfg.WarehouseBackend, err = parseBackend("warehouse", input.WarehouseBackend); err != nil {
		return err
	}
	cfg.WarehouseDBConnect = input.WarehouseDBConnect
	if err := ValidateDatabaseConnectionString(cfg.WarehouseBackend, cfg.WarehouseDBConnect); err != nil {
		return fmt.Errorf("warehouse storage: %w", err)
	}

	// Validate that runs and warehouse use different SQLite files
	if cfg.RunsBackend == schema.SQLiteBackend && cfg.WarehouseBackend == schema.SQLiteBackend {
		runsPath := cfg.RunsDBConnect
		if runsPath == "" {
			runsPath = GetRunsDBFilePath()
		}
		warehousePath := cfg.WarehouseDBConnect
		if warehousePath == "" {
			warehousePath = GetWarehouseDBFilePath()
		}
		if filepath.Clean(runsPath) == filepath.Clean(warehousePath) {
			return fmt.Errorf("runs and warehouse storage must use different SQLite database files. Both resolve to %q", runsPath)
		}
	}
	return nil
}

// RevalidateBuild applies per-request overrides for sources, output format and
// output directory to a cloned config. Empty values keep the current setting.
func RevalidateBuild(cfg *Config, sources, output, outputDir string) error {
	if strings.TrimSpace(sources) != "" {
		var parsed []string
		for part := range strings.SplitSeq(sources, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		if len(parsed) == 0 {
			return fmt.Errorf("at least one source directory is required")
		}
		cfg.Sources = parsed
	}
	if output != "" {
		mode := schema.OutputMode(strings.ToLower(output))
		if _, ok := schema.ValidOutputModes[mode]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet, xlsx", output)
		}
		cfg.Output = mode
	}
	if dir := strings.TrimSpace(outputDir); dir != "" {
		cfg.OutputDir = dir
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
