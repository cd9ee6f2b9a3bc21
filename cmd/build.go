package cmd

import (
	"github.com/huangsam/fitstar/core"
	"github.com/huangsam/fitstar/internal/contract"
	"github.com/spf13/cobra"
)

// buildCmd runs the full pipeline: load, clean, build, write.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the star schema from wearable export directories",
	Long: `Load every configured source directory, clean the four metric files and write
the star schema tables to the output directory.

Tables written:
  DimUsers, DimTime, FactActivity, FactHeartRate, FactSleep, FactWeight

Sources are concatenated in the order given. Rows with missing values are
dropped for activity, heart rate and sleep. Weight rows are always kept.

Examples:
  # Build CSV files in the current directory from the default sources
  fitstar build

  # Use custom sources and write Parquet files
  fitstar build --source data/march,data/april --output parquet -o out

  # Also load the warehouse
  fitstar build --warehouse-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Error building star schema", err)
		}
	},
}
