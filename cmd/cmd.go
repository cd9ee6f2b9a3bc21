// Package cmd defines the command-line interface for fitstar.
package cmd

import (
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(warehouseCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)

	// Add the warehouse subcommands to the parent warehouse command
	warehouseCmd.AddCommand(warehouseStatusCmd)
	warehouseCmd.AddCommand(warehouseMigrateCmd)
	warehouseCmd.AddCommand(warehouseClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringSlice("source", contract.DefaultSources, "Export directories to concatenate, in load order")
	rootCmd.PersistentFlags().String("activity-file", contract.DefaultActivityFile, "Daily activity file name inside each source")
	rootCmd.PersistentFlags().String("heartrate-file", contract.DefaultHeartRateFile, "Heart rate seconds file name inside each source")
	rootCmd.PersistentFlags().String("sleep-file", contract.DefaultSleepFile, "Minute sleep file name inside each source")
	rootCmd.PersistentFlags().String("weight-file", contract.DefaultWeightFile, "Weight log file name inside each source")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("warehouse-backend", string(schema.NoneBackend), "Warehouse backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("warehouse-db-connect", "", "Database connection string for the warehouse (must differ from runs-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of buildCmd to Viper
	buildCmd.Flags().StringP("output-dir", "o", contract.DefaultOutputDir, "Directory the star schema tables are written to")
	buildCmd.Flags().String("output", string(schema.CSVOut), "Output format: csv or json or parquet or xlsx")
	buildCmd.Flags().Bool("detail", false, "Print a per-table summary of row counts and paths")
	buildCmd.Flags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	if err := viper.BindPFlags(buildCmd.Flags()); err != nil {
		contract.LogFatal("Error binding build flags", err)
	}

	// Bind all flags of runsExportCmd to Viper
	runsExportCmd.Flags().String("output-file", "", "Prefix for the exported Parquet files")
	if err := viper.BindPFlags(runsExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs export flags", err)
	}

	// Bind all flags of warehouseMigrateCmd to Viper
	warehouseMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(warehouseMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding warehouse migrate flags", err)
	}
}
